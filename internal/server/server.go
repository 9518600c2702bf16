// Package server wires the ledger's call surface onto HTTP.
package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitbase/splitbase/internal/middleware"
	"github.com/splitbase/splitbase/internal/service"
)

// NewRouter builds the gin engine: middleware, the v1 API, and the metrics
// and health endpoints.
func NewRouter(svc *service.Service, reg *prometheus.Registry, authSecret string) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.CallerIdentity(authSecret),
		middleware.RequestLogger(),
		observeRequests(reg),
	)

	h := &Handler{Service: svc}

	v1 := r.Group("/v1")
	{
		v1.POST("/people", h.Register)
		v1.PATCH("/people/:identity", h.Rename)
		v1.GET("/people/:identity", h.GetProfile)
		v1.GET("/people", h.ListIdentities)

		v1.POST("/expenses", h.AddExpense)
		v1.GET("/expenses/count", h.ExpenseCount)
		v1.GET("/expenses/:id", h.GetExpenseInfo)
		v1.GET("/expenses/:id/participants", h.GetExpenseParticipants)
		v1.GET("/expenses/:id/paid/:identity", h.GetAmountPaid)
		v1.GET("/expenses/:id/owed/:identity", h.GetAmountOwed)

		v1.GET("/balances/:identity", h.NetBalance)

		v1.POST("/settlements", h.Settle)
	}

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

// observeRequests records a duration histogram per route and status.
func observeRequests(reg prometheus.Registerer) gin.HandlerFunc {
	duration := promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "splitbase_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		duration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
