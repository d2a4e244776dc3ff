package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum HS256 key size in bytes.
const MinSecretLength = 32

// Claims represents JWT token claims. UserID is the only identity field
// handlers read.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenSubject is the identity a token is issued for.
type TokenSubject struct {
	UserID int64
	Email  string
	Role   string
}

// TokenErrorReason classifies why a token was rejected.
type TokenErrorReason string

const (
	TokenMalformed TokenErrorReason = "malformed"
	TokenSignature TokenErrorReason = "signature"
	TokenExpired   TokenErrorReason = "expired"
	TokenClaims    TokenErrorReason = "claims"
)

// TokenError is the only error type ValidateToken returns.
type TokenError struct {
	Reason TokenErrorReason
	Err    error
}

func (e *TokenError) Error() string {
	if e.Err == nil {
		return "invalid token: " + string(e.Reason)
	}
	return fmt.Sprintf("invalid token: %s: %v", e.Reason, e.Err)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// JWTService defines JWT token operations.
type JWTService interface {
	GenerateToken(sub TokenSubject) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	Expiry() time.Duration
}

type jwtService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTService creates a new JWTService instance.
func NewJWTService(secret string, expiry time.Duration) (JWTService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)
	}
	if expiry <= 0 {
		return nil, errors.New("jwt expiry must be positive")
	}
	return &jwtService{secret: []byte(secret), expiry: expiry, now: time.Now}, nil
}

func (s *jwtService) Expiry() time.Duration {
	return s.expiry
}

func (s *jwtService) GenerateToken(sub TokenSubject) (string, error) {
	if sub.UserID <= 0 {
		return "", errors.New("token subject must have a user id")
	}
	now := s.now()
	claims := Claims{
		UserID: sub.UserID,
		Email:  sub.Email,
		Role:   sub.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(sub.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *jwtService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, &TokenError{Reason: TokenMalformed}
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, classify(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, &TokenError{Reason: TokenClaims}
	}
	if claims.UserID <= 0 {
		return nil, &TokenError{Reason: TokenClaims, Err: errors.New("missing user_id")}
	}
	return claims, nil
}

func classify(err error) *TokenError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return &TokenError{Reason: TokenExpired, Err: err}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return &TokenError{Reason: TokenSignature, Err: err}
	case errors.Is(err, jwt.ErrTokenMalformed):
		return &TokenError{Reason: TokenMalformed, Err: err}
	default:
		return &TokenError{Reason: TokenClaims, Err: err}
	}
}
