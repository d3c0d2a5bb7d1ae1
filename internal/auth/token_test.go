package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	cd, err := NewCodec(testSecret)
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}

	tok, err := cd.Encode("alice@example.com", 42, "alice", time.Hour)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	claims, err := cd.Decode(tok)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if claims.Email() != "alice@example.com" {
		t.Fatalf("email mismatch: got %q", claims.Email())
	}
	if claims.UserID != 42 {
		t.Fatalf("userId mismatch: got %d", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Fatalf("username mismatch: got %q", claims.Username)
	}
}

func TestDecode_ExpiryWindow(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		ttl     time.Duration
		decode  time.Time
		expired bool
	}{
		{"zero ttl is already expired", 0, issued, true},
		{"inside the window", time.Hour, issued.Add(59 * time.Minute), false},
		{"past the window", time.Hour, issued.Add(61 * time.Minute), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			minter, err := NewCodecAt(testSecret, func() time.Time { return issued })
			if err != nil {
				t.Fatalf("NewCodecAt error: %v", err)
			}
			tok, err := minter.Encode("a@b.c", 1, "a", tc.ttl)
			if err != nil {
				t.Fatalf("Encode error: %v", err)
			}

			verifier, err := NewCodecAt(testSecret, func() time.Time { return tc.decode })
			if err != nil {
				t.Fatalf("NewCodecAt error: %v", err)
			}
			_, err = verifier.Decode(tok)
			if tc.expired && !errors.Is(err, ErrTokenExpired) {
				t.Fatalf("expected ErrTokenExpired, got %v", err)
			}
			if !tc.expired && err != nil {
				t.Fatalf("expected valid token, got %v", err)
			}
		})
	}
}

func TestDecode_TamperedPayload(t *testing.T) {
	t.Parallel()

	cd, _ := NewCodec(testSecret)
	tok, err := cd.Encode("alice@example.com", 42, "alice", time.Hour)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	// Splice the signature of a token with different claims onto the
	// original header and payload. Every part stays well formed, only the
	// signature no longer matches.
	other, err := cd.Encode("mallory@example.com", 666, "mallory", time.Hour)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	parts := strings.Split(tok, ".")
	otherParts := strings.Split(other, ".")
	forged := parts[0] + "." + parts[1] + "." + otherParts[2]

	if _, err := cd.Decode(forged); !errors.Is(err, ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature, got %v", err)
	}
}

func TestDecode_DifferentSecretsDoNotVerify(t *testing.T) {
	t.Parallel()

	cdA, _ := NewCodec(testSecret)
	cdB, _ := NewCodec("another-secret-that-is-long-enough!!")

	tok, err := cdA.Encode("a@b.c", 1, "a", time.Hour)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if _, err := cdB.Decode(tok); !errors.Is(err, ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature, got %v", err)
	}
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	cd, _ := NewCodec(testSecret)
	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d", "!!!.???.###"} {
		if _, err := cd.Decode(tok); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("Decode(%q): expected ErrTokenMalformed, got %v", tok, err)
		}
	}
}

func TestDecode_RejectsForeignSigningMethod(t *testing.T) {
	t.Parallel()

	cd, _ := NewCodec(testSecret)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		UserID:   1,
		Username: "a",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@b.c",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tok, err := foreign.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	if _, err := cd.Decode(tok); !errors.Is(err, ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature, got %v", err)
	}
}

func TestNewCodec_SecretLength(t *testing.T) {
	t.Parallel()

	if _, err := NewCodec("too-short"); !errors.Is(err, ErrSecretTooShort) {
		t.Fatalf("expected ErrSecretTooShort, got %v", err)
	}
	if _, err := NewCodec(strings.Repeat("x", MinSecretLen)); err != nil {
		t.Fatalf("32-byte secret should be accepted, got %v", err)
	}
}
