package middleware

import (
	"github.com/amitkhot2001/blogs/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	logEntryKey  = "log_entry"
)

// maxRequestIDLength bounds client supplied ids.
const maxRequestIDLength = 128

// RequestID assigns every request an id, honouring a client supplied one,
// echoes it in the response and stores a request scoped log entry in both
// the gin context and the request context.
func RequestID(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		entry := log.WithField("request_id", id)
		c.Set(logEntryKey, entry)
		c.Request = c.Request.WithContext(logger.WithEntry(c.Request.Context(), entry))
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Entry returns the request scoped log entry, falling back to log when
// RequestID did not run.
func Entry(c *gin.Context, log *logrus.Logger) *logrus.Entry {
	if v, ok := c.Get(logEntryKey); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(log)
}
