// Package middleware provides the gin middleware shared by all routes:
// session resolution and request logging.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bpowers1215/money-map/internal/auth"
	"github.com/bpowers1215/money-map/internal/outcome"
	"github.com/bpowers1215/money-map/internal/session"
)

const (
	userIDKey     = "userId"
	emailKey      = "email"
	tokenIDKey    = "tokenId"
	tokenExpiryKey = "tokenExpiry"
)

// RequireAuth validates the Bearer token, rejects revoked tokens, and places
// the caller's identity into the request context. Rejections use the outcome
// error shape so callers see one response vocabulary everywhere.
func RequireAuth(tokens *auth.TokenManager, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := resolveClaims(c, tokens, sessions)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, outcome.Error("Unable to retrieve session data."))
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(emailKey, claims.Email)
		c.Set(tokenIDKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(tokenExpiryKey, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

func resolveClaims(c *gin.Context, tokens *auth.TokenManager, sessions session.Store) (*auth.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := tokens.Validate(parts[1])
	if err != nil {
		return nil, false
	}

	if sessions != nil && claims.ID != "" {
		revoked, err := sessions.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			// Fail closed: if the revocation list is unreachable the
			// session cannot be trusted.
			slog.Error("session revocation lookup failed", "error", err)
			return nil, false
		}
		if revoked {
			return nil, false
		}
	}
	return claims, true
}

// GetUserID extracts the authenticated user id from the context.
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}

// GetEmail extracts the authenticated user's email from the context.
func GetEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(emailKey)
	if !exists {
		return "", false
	}
	e, ok := email.(string)
	return e, ok
}

// GetTokenID extracts the session token's id and expiry from the context.
func GetTokenID(c *gin.Context) (string, time.Time, bool) {
	tokenID, exists := c.Get(tokenIDKey)
	if !exists {
		return "", time.Time{}, false
	}
	id, ok := tokenID.(string)
	if !ok || id == "" {
		return "", time.Time{}, false
	}
	expiry, _ := c.Get(tokenExpiryKey)
	exp, _ := expiry.(time.Time)
	return id, exp, true
}
