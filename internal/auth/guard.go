package auth

import (
	"context"
	"errors"
)

var (
	// ErrUnauthenticated is returned when an operation requires a caller
	// identity and none is attached to the context. Handlers translate it
	// into HTTP 401.
	ErrUnauthenticated = errors.New("auth: unauthenticated")

	// ErrForbidden is returned when the caller is authenticated but is not
	// the owner of the resource being mutated. Handlers translate it into
	// HTTP 403; it must never be collapsed into ErrUnauthenticated.
	ErrForbidden = errors.New("auth: forbidden")
)

// Ownable is any resource that records the user who created it. Posts and
// comments report their author, a subscription reports the subscribing user.
type Ownable interface {
	OwnerID() uint64
}

// RequireAuthenticated returns the principal attached to the context or
// ErrUnauthenticated. Endpoints that merely need a caller (list my
// subscriptions, my notification feed) use this directly.
func RequireAuthenticated(ctx context.Context) (Principal, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return Principal{}, ErrUnauthenticated
	}
	return p, nil
}

// RequireOwner permits a mutation only when the context's principal owns the
// resource. Callers are expected to have fetched the resource already, so a
// missing resource surfaces as the repository's not-found error before this
// check runs.
func RequireOwner(ctx context.Context, res Ownable) error {
	p, err := RequireAuthenticated(ctx)
	if err != nil {
		return err
	}
	if res.OwnerID() != p.UserID {
		return ErrForbidden
	}
	return nil
}
