// Package handlers contains HTTP request handlers for the blog service.
package handlers

import (
	"errors"
	"net/http"

	"github.com/amitkhot2001/blogs/internal/middleware"
	"github.com/amitkhot2001/blogs/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse is the body of requests that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// Responder writes error responses. Outside production, 500 responses carry
// the underlying error text in Details.
type Responder struct {
	log         *logrus.Logger
	showDetails bool
}

// NewResponder creates a Responder.
func NewResponder(log *logrus.Logger, production bool) *Responder {
	return &Responder{log: log, showDetails: !production}
}

// RespondError aborts with status and a client safe message.
func RespondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// LogAndRespondError logs err with the request's log entry and aborts with
// status and message.
func (r *Responder) LogAndRespondError(c *gin.Context, status int, err error, message string) {
	_ = c.Error(err)
	entry := middleware.Entry(c, r.log).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error(message)
	} else {
		entry.Warn(message)
	}

	body := ErrorResponse{Error: message}
	if r.showDetails && status >= http.StatusInternalServerError {
		body.Details = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// RespondServiceError maps a service error onto its HTTP status and message.
// fallback is the message used for unexpected errors.
func (r *Responder) RespondServiceError(c *gin.Context, err error, fallback string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		RespondError(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrAccountInactive):
		RespondError(c, http.StatusForbidden, "Account is not active.")
	case errors.Is(err, service.ErrNotOwner):
		RespondError(c, http.StatusForbidden, "access denied: not owner")
	case errors.Is(err, service.ErrInvalidID):
		RespondError(c, http.StatusBadRequest, "Invalid blog ID")
	case errors.Is(err, service.ErrPostNotFound):
		RespondError(c, http.StatusNotFound, "Blog not found")
	case errors.Is(err, service.ErrUserNotFound):
		RespondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrOTPNotFound):
		RespondError(c, http.StatusBadRequest, "No OTP found for this email")
	case errors.Is(err, service.ErrOTPExpired):
		RespondError(c, http.StatusBadRequest, "OTP expired")
	case errors.Is(err, service.ErrOTPInvalid):
		RespondError(c, http.StatusBadRequest, "Invalid OTP")
	case errors.Is(err, service.ErrEmailTaken):
		RespondError(c, http.StatusConflict, "Email is already registered.")
	case errors.Is(err, service.ErrEmailDispatch):
		r.LogAndRespondError(c, http.StatusInternalServerError, err, "Could not send OTP. Try again later.")
	default:
		r.LogAndRespondError(c, http.StatusInternalServerError, err, fallback)
	}
}

// callerID returns the authenticated user id. Routes using it sit behind
// middleware.Authenticate, so a miss is a wiring fault.
func callerID(c *gin.Context) (int64, bool) {
	id, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "Access denied. No token provided.")
	}
	return id, ok
}
