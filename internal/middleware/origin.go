// Package middleware provides HTTP middleware for the blog service.
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// OriginGuardConfig holds configuration for the origin guard.
type OriginGuardConfig struct {
	// AllowedOrigins should match the CORS allowed origins.
	AllowedOrigins []string
}

// OriginGuard rejects state-changing requests that a browser sent from a
// foreign site. The Origin header is checked first, then Referer. Requests
// carrying neither come from non-browser clients and pass.
func OriginGuard(config OriginGuardConfig) gin.HandlerFunc {
	allowedSet := make(map[string]bool, len(config.AllowedOrigins))
	for _, origin := range config.AllowedOrigins {
		allowedSet[normalizeOrigin(origin)] = true
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if allowedSet["*"] {
			c.Next()
			return
		}

		if origin := c.GetHeader("Origin"); origin != "" {
			if !allowedSet[normalizeOrigin(origin)] {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Origin not allowed."})
				return
			}
			c.Next()
			return
		}

		if referer := c.GetHeader("Referer"); referer != "" {
			if !allowedSet[normalizeOrigin(extractOrigin(referer))] {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Origin not allowed."})
				return
			}
		}
		c.Next()
	}
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}

// extractOrigin returns scheme://host[:port] of a URL.
func extractOrigin(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
