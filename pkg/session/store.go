package session

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a session has no stored selection.
	ErrNotFound = errors.New("session: selection not found")
	// ErrEmptyToken is returned when a store is called with an empty token.
	ErrEmptyToken = errors.New("session: empty token")
)

// Store persists the selected database alias per session token.
type Store interface {
	// Get returns the alias stored for token, or ErrNotFound.
	Get(ctx context.Context, token string) (string, error)

	// Set stores the alias for token, overwriting any previous value.
	Set(ctx context.Context, token, alias string) error

	// Delete removes the selection for token. Missing tokens are not an error.
	Delete(ctx context.Context, token string) error
}
