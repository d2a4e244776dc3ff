package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store. Entries are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]PendingSignup
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]PendingSignup),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, p PendingSignup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[NormalizeEmail(p.Email)] = p
	return nil
}

func (s *MemoryStore) Get(_ context.Context, email string) (*PendingSignup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, NormalizeEmail(email))
	return nil
}

// size counts stored entries, expired ones included.
func (s *MemoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops entries that expired before now and returns how many were
// removed.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for email, p := range s.entries {
		if p.Expired(now) {
			delete(s.entries, email)
			removed++
		}
	}
	return removed
}

// Run sweeps expired entries every interval until ctx is done.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}
