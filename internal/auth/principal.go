package auth

import "context"

// Principal is the verified caller identity for a single request. It is
// derived from a validated token's claims by the identity middleware,
// carried only in the request context and discarded when the request ends.
type Principal struct {
	UserID uint64
	Email  string
}

type principalKey struct{}

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the principal attached by the identity middleware.
// The second return is false when the request is unauthenticated.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
