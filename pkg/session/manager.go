package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultCookieName carries the opaque session token.
const DefaultCookieName = "tenantdb_session"

// Manager ties the cookie-carried session token to the selection store.
// It implements the SessionSelector interface consumed by the tenant
// middleware and the selector endpoint.
type Manager struct {
	store      Store
	cookieName string
	cookieTTL  time.Duration
	secure     bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) ManagerOption {
	return func(m *Manager) {
		if name != "" {
			m.cookieName = name
		}
	}
}

// WithCookieTTL sets the cookie lifetime. Defaults to 30 days.
func WithCookieTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.cookieTTL = ttl
		}
	}
}

// WithSecureCookies marks the cookie Secure for HTTPS-only deployments.
func WithSecureCookies(secure bool) ManagerOption {
	return func(m *Manager) {
		m.secure = secure
	}
}

// NewManager creates a session manager on top of store.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:      store,
		cookieName: DefaultCookieName,
		cookieTTL:  30 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Selection returns the database alias stored for the request's session.
func (m *Manager) Selection(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	alias, err := m.store.Get(r.Context(), cookie.Value)
	if err != nil {
		return "", false
	}
	return alias, true
}

// SetSelection persists alias for the request's session, issuing a new
// session token when the request carries none.
func (m *Manager) SetSelection(w http.ResponseWriter, r *http.Request, alias string) error {
	token := ""
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		token = cookie.Value
	}
	if token == "" {
		token = uuid.NewString()
	}

	if err := m.store.Set(r.Context(), token, alias); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSelection removes the stored selection for the request's session.
func (m *Manager) ClearSelection(r *http.Request) error {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	if err := m.store.Delete(r.Context(), cookie.Value); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}
