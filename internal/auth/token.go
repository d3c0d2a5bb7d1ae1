// Package auth contains the stateless authentication core shared by every
// devboard service: the token codec, the request-scoped principal and the
// access decision helpers. Nothing in this package touches the network or
// the database, which is what lets each service verify tokens with only a
// locally held copy of the shared secret.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the minimum accepted length of the shared signing secret.
// Shorter secrets are rejected at construction so a misconfigured service
// fails at startup, not at first request.
const MinSecretLen = 32

var (
	ErrSecretTooShort = errors.New("auth: signing secret shorter than 32 bytes")

	// Decode failure kinds. They are distinguishable for logging and tests;
	// the HTTP layer collapses all three to a missing principal.
	ErrTokenMalformed    = errors.New("auth: token malformed")
	ErrTokenBadSignature = errors.New("auth: token signature invalid")
	ErrTokenExpired      = errors.New("auth: token expired")
)

// Claims is the payload carried inside an access token. The JSON field names
// are shared wire format between every service that verifies tokens and must
// not change independently: sub holds the email, userId and username the
// identity details, iat/exp the validity window [iat, exp).
type Claims struct {
	UserID   uint64 `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Email returns the subject claim, which carries the user's email.
func (c *Claims) Email() string { return c.Subject }

// Codec signs and verifies access tokens with a shared symmetric secret.
// It is a pure function of (token, secret, clock) and therefore safe for
// concurrent use without locking. The clock is injectable so expiry can be
// exercised in tests without waiting on wall time.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec builds a codec around the shared secret, using the system clock.
func NewCodec(secret string) (*Codec, error) {
	return NewCodecAt(secret, time.Now)
}

// NewCodecAt is NewCodec with an explicit clock.
func NewCodecAt(secret string, now func() time.Time) (*Codec, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrSecretTooShort
	}
	return &Codec{secret: []byte(secret), now: now}, nil
}

// Encode mints a signed HS256 token for the given identity, expiring ttl
// from now. The token is self-contained; no server-side record is kept.
func (cd *Codec) Encode(email string, userID uint64, username string, ttl time.Duration) (string, error) {
	now := cd.now().UTC()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cd.secret)
}

// Decode parses a token, verifies its signature against the shared secret
// and checks the expiry. On failure it returns exactly one of
// ErrTokenMalformed, ErrTokenBadSignature or ErrTokenExpired.
func (cd *Codec) Decode(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return cd.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(cd.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenBadSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	return claims, nil
}
