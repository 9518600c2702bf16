// Package middleware provides the HTTP middleware for the ledger surface:
// caller-identity extraction and request logging.
package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/splitbase/splitbase/internal/models"
)

// callerKey is the gin context key holding the caller identity.
const callerKey = "caller_identity"

// identityHeader carries the caller identity when no token secret is
// configured. The identity layer is an external collaborator; the ledger
// treats whatever it hands over as opaque.
const identityHeader = "X-Caller-Identity"

// Caller returns the caller identity extracted for this request, or the zero
// identity if none was presented.
func Caller(c *gin.Context) models.Identity {
	id, _ := c.Get(callerKey)
	caller, _ := id.(models.Identity)
	return caller
}

// CallerIdentity returns a middleware that resolves the opaque caller
// identity for each request.
//
// With a secret configured, a Bearer token from the external identity layer
// is validated (HMAC only) and its subject claim becomes the caller. Without
// one, the identity header passes through as-is. Either way the caller is
// observability context, not authorization: the ledger never decides who may
// act as whom.
func CallerIdentity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			if v := c.GetHeader(identityHeader); v != "" {
				c.Set(callerKey, models.Identity(v))
			}
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if sub, err := subjectFromToken(parts[1], secret); err == nil && sub != "" {
				c.Set(callerKey, models.Identity(sub))
			}
		}
		c.Next()
	}
}

// subjectFromToken validates the token signature and returns the subject
// claim.
func subjectFromToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	return token.Claims.GetSubject()
}
