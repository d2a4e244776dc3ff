package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/amitkhot2001/blogs/internal/logger"
	"github.com/amitkhot2001/blogs/internal/mailer"
	"github.com/amitkhot2001/blogs/internal/metrics"
	"github.com/amitkhot2001/blogs/internal/models"
	"github.com/amitkhot2001/blogs/internal/otp"
	"github.com/amitkhot2001/blogs/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// OTPLength is the number of digits in a signup passcode.
const OTPLength = 6

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// SignupRequest carries the fields of the signup form.
type SignupRequest struct {
	FullName string
	Email    string
	Password string
}

// TokenResponse is returned by every flow that authenticates a user.
type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// AuthService covers signup by passcode, login and the caller's profile.
type AuthService interface {
	RequestOTP(ctx context.Context, req SignupRequest) error
	VerifyOTP(ctx context.Context, email, code string) (*TokenResponse, error)
	Login(ctx context.Context, email, password string) (*TokenResponse, error)
	CurrentUser(ctx context.Context, userID int64) (*models.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService JWTService
	pending    otp.Store
	mailer     mailer.Sender
	otpTTL     time.Duration
	bcryptCost int
	now        func() time.Time
	newCode    func() (string, error)
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(userRepo repository.UserRepository, jwtService JWTService, pending otp.Store, sender mailer.Sender, otpTTL time.Duration) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		pending:    pending,
		mailer:     sender,
		otpTTL:     otpTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		newCode:    generateOTP,
	}
}

// RequestOTP stores a pending signup under a fresh passcode and mails the
// code. A previous pending signup for the same email is replaced. When the
// mail cannot be sent the pending entry is kept so a retry can resend it.
func (s *authService) RequestOTP(ctx context.Context, req SignupRequest) error {
	result := "sent"
	defer func() { metrics.OTPRequestsTotal.WithLabelValues(result).Inc() }()

	fullName := strings.TrimSpace(req.FullName)
	email := otp.NormalizeEmail(req.Email)
	if fullName == "" || email == "" || req.Password == "" {
		result = "invalid"
		return invalid("All fields are required.")
	}
	if !strings.Contains(email, "@") {
		result = "invalid"
		return invalid("Invalid email address.")
	}
	if len(req.Password) > MaxPasswordBytes {
		result = "invalid"
		return invalid(fmt.Sprintf("Password must be at most %d bytes.", MaxPasswordBytes))
	}

	taken, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		result = "error"
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		result = "conflict"
		return ErrEmailTaken
	}

	code, err := s.newCode()
	if err != nil {
		result = "error"
		return fmt.Errorf("failed to generate OTP: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		result = "error"
		return fmt.Errorf("failed to hash password: %w", err)
	}

	entry := otp.PendingSignup{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Code:         code,
		ExpiresAt:    s.now().Add(s.otpTTL),
	}
	if err := s.pending.Put(ctx, entry); err != nil {
		result = "error"
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	if err := s.mailer.Send(ctx, mailer.OTPMessage(email, code, s.otpTTL)); err != nil {
		result = "dispatch_failed"
		return fmt.Errorf("%w: %w", ErrEmailDispatch, err)
	}
	return nil
}

// VerifyOTP confirms a pending signup, creates the user and logs them in.
func (s *authService) VerifyOTP(ctx context.Context, email, code string) (*TokenResponse, error) {
	result := "success"
	defer func() { metrics.AuthRegistrationsTotal.WithLabelValues(result).Inc() }()

	email = otp.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		result = "invalid"
		return nil, invalid("Email and OTP are required.")
	}

	entry, err := s.pending.Get(ctx, email)
	if errors.Is(err, otp.ErrNotFound) {
		result = "not_found"
		return nil, ErrOTPNotFound
	}
	if err != nil {
		result = "error"
		return nil, fmt.Errorf("failed to load OTP: %w", err)
	}

	if entry.Expired(s.now()) {
		result = "expired"
		if err := s.pending.Delete(ctx, email); err != nil {
			return nil, fmt.Errorf("failed to delete expired OTP: %w", err)
		}
		return nil, ErrOTPExpired
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(entry.Code)) != 1 {
		result = "invalid_code"
		return nil, ErrOTPInvalid
	}

	user := &models.User{
		FullName:      entry.FullName,
		Email:         email,
		PasswordHash:  entry.PasswordHash,
		Role:          models.RoleAuthor,
		EmailVerified: true,
		Status:        models.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			result = "conflict"
			s.discardPending(ctx, email)
			return nil, ErrEmailTaken
		}
		result = "error"
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.discardPending(ctx, email)

	token, err := s.issue(user, "signup")
	if err != nil {
		result = "error"
		return nil, err
	}
	return &TokenResponse{Message: "Signup complete!", Token: token}, nil
}

// discardPending removes a consumed pending signup. The account already
// exists at this point, so a failure is logged and not returned.
func (s *authService) discardPending(ctx context.Context, email string) {
	if err := s.pending.Delete(ctx, email); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("failed to delete pending signup")
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	result := "success"
	defer func() { metrics.AuthLoginsTotal.WithLabelValues(result).Inc() }()

	email = otp.NormalizeEmail(email)
	if email == "" || password == "" {
		result = "invalid"
		return nil, invalid("Email and password are required.")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		result = "failure"
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		result = "error"
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		result = "failure"
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		result = "inactive"
		return nil, ErrAccountInactive
	}

	token, err := s.issue(user, "login")
	if err != nil {
		result = "error"
		return nil, err
	}
	return &TokenResponse{Message: "Login successful", Token: token}, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *authService) issue(user *models.User, flow string) (string, error) {
	token, err := s.jwtService.GenerateToken(TokenSubject{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(flow).Inc()
	return token, nil
}

// generateOTP returns a uniformly random zero-padded numeric code.
func generateOTP() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < OTPLength; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", OTPLength, n.Int64()), nil
}
