package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("s3cr3t", 3600000*time.Millisecond)

	token, err := svc.Generate("a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)

	email, err := svc.ExtractEmail(claims)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", email)

	require.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestTokenExpiryBoundary(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService("s3cr3t", time.Hour)
	svc.now = fixedClock(base)

	token, err := svc.Generate("a@b.com")
	require.NoError(t, err)

	svc.now = fixedClock(base.Add(time.Hour - time.Second))
	_, err = svc.Validate(token)
	require.NoError(t, err)

	svc.now = fixedClock(base.Add(time.Hour + time.Second))
	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenTamperedSignature(t *testing.T) {
	svc := NewTokenService("s3cr3t", time.Hour)
	other := NewTokenService("someone-else", time.Hour)

	token, err := other.Generate("a@b.com")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrTokenBadSignature)
}

func TestTokenTamperedAndExpiredReportsSignature(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	other := NewTokenService("someone-else", time.Hour)
	other.now = fixedClock(base)

	token, err := other.Generate("a@b.com")
	require.NoError(t, err)

	svc := NewTokenService("s3cr3t", time.Hour)
	svc.now = fixedClock(base.Add(48 * time.Hour))
	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrTokenBadSignature)
}

func TestTokenEmpty(t *testing.T) {
	svc := NewTokenService("s3cr3t", time.Hour)
	for _, raw := range []string{"", "   "} {
		_, err := svc.Validate(raw)
		require.ErrorIs(t, err, ErrTokenEmpty)
	}
}

func TestTokenMalformed(t *testing.T) {
	svc := NewTokenService("s3cr3t", time.Hour)
	_, err := svc.Validate("definitely-not-a-token")
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenUnsupportedAlgorithm(t *testing.T) {
	claims := Claims{
		Email: "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@b.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	svc := NewTokenService("s3cr3t", time.Hour)
	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrTokenUnsupported)
}

func TestExtractEmailFallsBackToSubject(t *testing.T) {
	svc := NewTokenService("s3cr3t", time.Hour)

	email, err := svc.ExtractEmail(&Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "sub@b.com"}})
	require.NoError(t, err)
	require.Equal(t, "sub@b.com", email)

	_, err = svc.ExtractEmail(&Claims{})
	require.True(t, errors.Is(err, ErrTokenEmpty))
}
