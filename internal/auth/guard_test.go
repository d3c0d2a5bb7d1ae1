package auth

import (
	"context"
	"errors"
	"testing"
)

type ownedBy uint64

func (o ownedBy) OwnerID() uint64 { return uint64(o) }

func TestRequireAuthenticated(t *testing.T) {
	t.Parallel()

	if _, err := RequireAuthenticated(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	ctx := WithPrincipal(context.Background(), Principal{UserID: 7, Email: "a@b.c"})
	p, err := RequireAuthenticated(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.UserID != 7 || p.Email != "a@b.c" {
		t.Fatalf("wrong principal: %+v", p)
	}
}

func TestRequireOwner(t *testing.T) {
	t.Parallel()

	anon := context.Background()
	asUser7 := WithPrincipal(context.Background(), Principal{UserID: 7})

	cases := []struct {
		name string
		ctx  context.Context
		res  Ownable
		want error
	}{
		{"anonymous caller", anon, ownedBy(7), ErrUnauthenticated},
		{"owner", asUser7, ownedBy(7), nil},
		{"different user", asUser7, ownedBy(8), ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := RequireOwner(tc.ctx, tc.res)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}
