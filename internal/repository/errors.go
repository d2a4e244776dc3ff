// Package repository provides data access layer for the blog service.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// translate maps gorm errors onto the repository sentinels while keeping the
// original error in the chain.
func translate(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w: %w", msg, ErrDuplicate, err)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

// likePattern builds a lower-cased substring pattern with LIKE wildcards
// escaped by '!'.
func likePattern(term string) string {
	var b []rune
	for _, r := range term {
		switch r {
		case '!', '%', '_':
			b = append(b, '!', r)
		default:
			b = append(b, r)
		}
	}
	return "%" + strings.ToLower(string(b)) + "%"
}
