package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// OTPStore keeps one-time codes keyed by user identity, each with its own
// expiry. Concurrent requests from different users never clobber each other;
// a new code for the same identity replaces the previous one.
type OTPStore struct {
	mu      sync.Mutex
	entries map[string]otpEntry
	ttl     time.Duration
}

// NewOTPStore creates an OTPStore whose codes expire after ttl.
func NewOTPStore(ttl time.Duration) *OTPStore {
	return &OTPStore{
		entries: make(map[string]otpEntry),
		ttl:     ttl,
	}
}

// Issue generates a 6-digit code for the identity and stores it with a fresh
// expiry.
func (s *OTPStore) Issue(identity string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[identity] = otpEntry{
		code:      code,
		expiresAt: time.Now().UTC().Add(s.ttl),
	}
	return code, nil
}

// Verify checks the code for the identity. A successful verification consumes
// the code; expired entries are removed on sight.
func (s *OTPStore) Verify(identity, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[identity]
	if !ok {
		return false
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(s.entries, identity)
		return false
	}
	if entry.code != code {
		return false
	}
	delete(s.entries, identity)
	return true
}
