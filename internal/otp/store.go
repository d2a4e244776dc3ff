// Package otp keeps pending signups while their one-time passcode is live.
package otp

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when no pending signup exists for an email.
var ErrNotFound = errors.New("no pending signup")

// PendingSignup is a signup waiting for its passcode to be confirmed.
type PendingSignup struct {
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Code         string    `json:"code"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Expired reports whether the passcode is no longer usable at now.
func (p *PendingSignup) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Store holds at most one pending signup per email. Put replaces any
// existing entry for the same email.
type Store interface {
	Put(ctx context.Context, p PendingSignup) error
	Get(ctx context.Context, email string) (*PendingSignup, error)
	Delete(ctx context.Context, email string) error
}

// NormalizeEmail is the key form used by every Store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
