package handlers

import (
	"net/http"

	"github.com/amitkhot2001/blogs/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles signup, login and profile requests.
type AuthHandler struct {
	authService service.AuthService
	respond     *Responder
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, respond *Responder) *AuthHandler {
	return &AuthHandler{authService: authService, respond: respond}
}

// RequestOTPRequest represents the signup form.
type RequestOTPRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyOTPRequest represents the passcode confirmation payload.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileResponse is the caller's public profile.
type ProfileResponse struct {
	FullName string `json:"fullName"`
}

// RequestOTP godoc
// @Summary Start signup
// @Description Store a pending signup and email a one-time passcode
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RequestOTPRequest true "Signup form"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /request-otp [post]
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "All fields are required.")
		return
	}

	err := h.authService.RequestOTP(c.Request.Context(), service.SignupRequest{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respond.RespondServiceError(c, err, "Could not send OTP. Try again later.")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "OTP sent to your email."})
}

// VerifyOTP godoc
// @Summary Complete signup
// @Description Confirm the passcode, create the account and return a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Email and passcode"
// @Success 200 {object} service.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Email and OTP are required.")
		return
	}

	response, err := h.authService.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		h.respond.RespondServiceError(c, err, "Server error during verification")
		return
	}

	c.JSON(http.StatusOK, response)
}

// Login godoc
// @Summary User login
// @Description Authenticate with email and password and return a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Email and password are required.")
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respond.RespondServiceError(c, err, "Server error. Please try again later.")
		return
	}

	c.JSON(http.StatusOK, response)
}

// Me godoc
// @Summary Current user
// @Description Return the authenticated user's name
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /user/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.respond.RespondServiceError(c, err, "Server error")
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{FullName: user.FullName})
}
