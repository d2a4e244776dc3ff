package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amitkhot2001/blogs/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when absent", "", false},
		{"client id honoured", "abc-123", true},
		{"oversized id replaced", strings.Repeat("x", 200), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			r := gin.New()
			r.Use(RequestID(quietLogger()))
			r.GET("/", func(c *gin.Context) {
				seen = requestIDFrom(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			if got != seen {
				t.Errorf("header %q != context %q", got, seen)
			}
			if tt.keep {
				if got != tt.incoming {
					t.Errorf("id = %q, want %q", got, tt.incoming)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("id %q is not a uuid: %v", got, err)
			}
		})
	}
}

func TestRequestID_EntryOnRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got any
	r := gin.New()
	r.Use(RequestID(quietLogger()))
	r.GET("/", func(c *gin.Context) {
		got = logger.FromContext(c.Request.Context()).Data["request_id"]
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "ctx-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got != "ctx-1" {
		t.Errorf("request context entry request_id = %v, want ctx-1", got)
	}
}

func TestRequestLogger_IncludesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	log := logrus.New()
	log.Out = &buf
	log.Formatter = &logrus.JSONFormatter{}

	r := gin.New()
	r.Use(RequestID(log), RequestLogger(log))
	r.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "nope"})
	})

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if line["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", line["request_id"])
	}
	if line["status"] != float64(http.StatusNotFound) {
		t.Errorf("status = %v, want 404", line["status"])
	}
	if line["level"] != "warning" {
		t.Errorf("level = %v, want warning", line["level"])
	}
	if line["path"] != "/missing" {
		t.Errorf("path = %v", line["path"])
	}
}

func TestEntry_FallsBackToLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	log := quietLogger()

	if entry := Entry(c, log); entry.Logger != log {
		t.Error("Entry() should wrap the given logger")
	}
}
