package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with an in-process map and TTL cleanup.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	ticker  *time.Ticker
	done    chan struct{}
	closed  bool
}

type memoryEntry struct {
	alias     string
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory store. Entries live for ttl after
// their last write; cleanupInterval <= 0 disables the background sweep.
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		go s.cleanupLoop(s.ticker.C)
	}
	return s
}

// Get returns the alias stored for token.
func (s *MemoryStore) Get(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrEmptyToken
	}

	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return "", ErrNotFound
	}
	return entry.alias, nil
}

// Set stores the alias for token and resets its TTL.
func (s *MemoryStore) Set(ctx context.Context, token, alias string) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	s.entries[token] = memoryEntry{alias: alias, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

// Delete removes the selection for token.
func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.done)
	}
	return nil
}

// cleanupLoop receives the ticker channel as an argument so it never
// touches store fields that Close mutates.
func (s *MemoryStore) cleanupLoop(tick <-chan time.Time) {
	for {
		select {
		case <-tick:
			s.removeExpired()
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStore) removeExpired() {
	now := time.Now()
	s.mu.Lock()
	for token, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, token)
		}
	}
	s.mu.Unlock()
}
