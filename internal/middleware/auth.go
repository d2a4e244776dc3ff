package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/amitkhot2001/blogs/internal/metrics"
	"github.com/amitkhot2001/blogs/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ClaimsKey is the gin context key holding the verified *service.Claims.
const ClaimsKey = "claims"

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	ValidateToken(token string) (*service.Claims, error)
}

// Authenticate admits requests carrying a valid bearer token. A missing
// token is answered with 401 and a token that fails verification with 403.
func Authenticate(verifier TokenVerifier, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			metrics.AuthRejectionsTotal.WithLabelValues("missing").Inc()
			Entry(c, log).Debug("request without bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access denied. No token provided."})
			return
		}

		claims, err := verifier.ValidateToken(token)
		if err != nil {
			reason := "invalid"
			var tokenErr *service.TokenError
			if errors.As(err, &tokenErr) {
				reason = string(tokenErr.Reason)
			}
			metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
			Entry(c, log).WithField("reason", reason).WithError(err).Warn("bearer token rejected")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid token."})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// bearerToken returns the token of an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(c *gin.Context) (*service.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*service.Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the authenticated user id, or 0 and false.
func UserIDFromContext(c *gin.Context) (int64, bool) {
	claims, ok := ClaimsFromContext(c)
	if !ok || claims.UserID <= 0 {
		return 0, false
	}
	return claims.UserID, true
}
