package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/splitbase/splitbase/internal/ledger"
	"github.com/splitbase/splitbase/internal/models"
	"github.com/splitbase/splitbase/internal/service"
)

// Handler holds the ledger service behind the HTTP surface.
type Handler struct {
	Service *service.Service
}

type registerRequest struct {
	Identity string `json:"identity"`
	Name     string `json:"name"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type addExpenseRequest struct {
	Label        string   `json:"label"`
	Participants []string `json:"participants"`
	Paid         []uint64 `json:"paid"`
	Owed         []uint64 `json:"owed"`
}

type settleRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// Register creates a profile for an identity.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.Register(c.Request.Context(), models.Identity(req.Identity), req.Name); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"identity": req.Identity, "name": req.Name})
}

// Rename overwrites the display name of a registered identity.
func (h *Handler) Rename(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := models.Identity(c.Param("identity"))
	if err := h.Service.Rename(c.Request.Context(), id, req.Name); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"identity": string(id), "name": req.Name})
}

// GetProfile returns the profile, or the zero-value profile when the identity
// was never registered. Clients distinguish the two by the empty identity
// field, not the name.
func (h *Handler) GetProfile(c *gin.Context) {
	p := h.Service.GetProfile(models.Identity(c.Param("identity")))
	c.JSON(http.StatusOK, gin.H{
		"identity":     string(p.Identity),
		"display_name": p.DisplayName,
	})
}

// ListIdentities returns registered identities in registration order.
func (h *Handler) ListIdentities(c *gin.Context) {
	ids := h.Service.ListIdentities()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	c.JSON(http.StatusOK, gin.H{"identities": out})
}

// AddExpense appends one expense record and returns its ID.
func (h *Handler) AddExpense(c *gin.Context) {
	var req addExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	participants := make([]models.Identity, len(req.Participants))
	for i, p := range req.Participants {
		participants[i] = models.Identity(p)
	}
	id, err := h.Service.AddExpense(c.Request.Context(), req.Label, participants, req.Paid, req.Owed)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense_id": id})
}

// GetExpenseInfo returns a record's basic fields.
func (h *Handler) GetExpenseInfo(c *gin.Context) {
	id, ok := expenseID(c)
	if !ok {
		return
	}
	info, err := h.Service.ExpenseInfo(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         info.ID,
		"label":      info.Label,
		"created_at": info.CreatedAt,
	})
}

// GetExpenseParticipants returns the record's participants in insertion order.
func (h *Handler) GetExpenseParticipants(c *gin.Context) {
	id, ok := expenseID(c)
	if !ok {
		return
	}
	participants, err := h.Service.ExpenseParticipants(id)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]string, len(participants))
	for i, p := range participants {
		out[i] = string(p)
	}
	c.JSON(http.StatusOK, gin.H{"expense_id": id, "participants": out})
}

// GetAmountPaid returns how much one participant paid into a record.
func (h *Handler) GetAmountPaid(c *gin.Context) {
	h.amount(c, h.Service.AmountPaid)
}

// GetAmountOwed returns one participant's share of a record.
func (h *Handler) GetAmountOwed(c *gin.Context) {
	h.amount(c, h.Service.AmountOwed)
}

func (h *Handler) amount(c *gin.Context, lookup func(int64, models.Identity) (uint64, error)) {
	id, ok := expenseID(c)
	if !ok {
		return
	}
	amount, err := lookup(id, models.Identity(c.Param("identity")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense_id": id, "amount": amount})
}

// ExpenseCount returns the total number of records.
func (h *Handler) ExpenseCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": h.Service.ExpenseCount()})
}

// NetBalance returns the identity's signed balance as a decimal string; the
// value can exceed every fixed-width JSON number.
func (h *Handler) NetBalance(c *gin.Context) {
	id := models.Identity(c.Param("identity"))
	c.JSON(http.StatusOK, gin.H{
		"identity":    string(id),
		"net_balance": h.Service.NetBalance(id).String(),
	})
}

// Settle records a settlement attestation.
func (h *Handler) Settle(c *gin.Context) {
	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.Service.Settle(c.Request.Context(),
		models.Identity(req.From), models.Identity(req.To), req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": req.From, "to": req.To, "amount": req.Amount})
}

// expenseID parses the :id route param; a malformed ID is a bad request, not
// a lookup miss.
func expenseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return 0, false
	}
	return id, true
}

// writeError maps the ledger's failure taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
