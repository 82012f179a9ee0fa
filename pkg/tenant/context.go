package tenant

import "context"

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithBinding attaches a request binding to the context.
func WithBinding(ctx context.Context, b *Binding) context.Context {
	return context.WithValue(ctx, contextKey{}, b)
}

// BindingFromContext retrieves the request binding from the context.
// Returns nil, false if no binding is attached.
func BindingFromContext(ctx context.Context) (*Binding, bool) {
	b, ok := ctx.Value(contextKey{}).(*Binding)
	return b, ok && b != nil
}

// CurrentDatabase returns the database alias bound to the current request.
// Returns "", false when no binding exists or no alias has been resolved.
func CurrentDatabase(ctx context.Context) (string, bool) {
	b, ok := BindingFromContext(ctx)
	if !ok {
		return "", false
	}
	return b.Database()
}

// CurrentSubdomain returns the subdomain bound to the current request.
// Returns "", false when no binding exists or no subdomain was extracted.
func CurrentSubdomain(ctx context.Context) (string, bool) {
	b, ok := BindingFromContext(ctx)
	if !ok {
		return "", false
	}
	return b.Subdomain()
}
