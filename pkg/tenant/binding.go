package tenant

import "sync"

// Binding holds the subdomain and database alias resolved for one logical
// request. It is created by the Middleware, mutated only during resolution,
// read by the routing hooks and business code, and cleared when the request
// finishes. The mutex makes reads from asynchronous continuations of the
// same request safe against the middleware's writes.
type Binding struct {
	mu        sync.RWMutex
	subdomain string
	database  string
}

// NewBinding returns an empty binding with both values absent.
func NewBinding() *Binding {
	return &Binding{}
}

// SetSubdomain records the tenant label extracted from the request host.
func (b *Binding) SetSubdomain(subdomain string) {
	b.mu.Lock()
	b.subdomain = subdomain
	b.mu.Unlock()
}

// Subdomain returns the recorded tenant label, if any.
func (b *Binding) Subdomain() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.subdomain, b.subdomain != ""
}

// SetDatabase records the resolved database alias.
func (b *Binding) SetDatabase(alias string) {
	b.mu.Lock()
	b.database = alias
	b.mu.Unlock()
}

// Database returns the resolved database alias, if any.
func (b *Binding) Database() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.database, b.database != ""
}

// Clear resets both values to absent. It is idempotent.
func (b *Binding) Clear() {
	b.mu.Lock()
	b.subdomain = ""
	b.database = ""
	b.mu.Unlock()
}
