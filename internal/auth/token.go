package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/schedulo/schedulo/internal/shared"
)

// Token failure kinds. Every kind is terminal and wraps
// shared.ErrAuthentication so the boundary translator renders all of them as
// 401 without inspecting the kind.
var (
	ErrTokenEmpty        = fmt.Errorf("%w: token is empty", shared.ErrAuthentication)
	ErrTokenExpired      = fmt.Errorf("%w: token expired", shared.ErrAuthentication)
	ErrTokenMalformed    = fmt.Errorf("%w: token malformed", shared.ErrAuthentication)
	ErrTokenBadSignature = fmt.Errorf("%w: token signature mismatch", shared.ErrAuthentication)
	ErrTokenUnsupported  = fmt.Errorf("%w: unsupported token", shared.ErrAuthentication)
)

// Claims is the decoded payload of a bearer token.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 bearer tokens. The signing secret
// and the validity window are fixed at startup and read-only afterwards.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService constructs a TokenService with the process-wide secret and
// token validity duration.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate signs a token for the subject with iat=now and exp=now+ttl.
func (s *TokenService) Generate(subject string) (string, error) {
	now := s.now()
	claims := Claims{
		Email: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate parses the token and verifies signature and expiry in one pass.
// The failure kind is never downgraded: golang-jwt verifies the signature
// before validating claims, so a tampered token always reports
// ErrTokenBadSignature even when it is also expired.
func (s *TokenService) Validate(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrTokenEmpty
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, s.keyFunc, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenUnsupported):
			return nil, ErrTokenUnsupported
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func (s *TokenService) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrTokenUnsupported
	}
	return s.secret, nil
}

// ExtractEmail returns the email claim, falling back to the subject.
func (s *TokenService) ExtractEmail(claims *Claims) (string, error) {
	if email := strings.TrimSpace(claims.Email); email != "" {
		return email, nil
	}
	if sub := strings.TrimSpace(claims.Subject); sub != "" {
		return sub, nil
	}
	return "", ErrTokenEmpty
}
