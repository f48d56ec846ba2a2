package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/schedulo/schedulo/internal/authz"
	"github.com/schedulo/schedulo/internal/platform/httpx"
	"github.com/schedulo/schedulo/internal/shared"
)

// PrincipalSource resolves the backing account for a validated token.
type PrincipalSource interface {
	FindPrincipalByEmail(ctx context.Context, email string) (authz.Principal, error)
}

// Gate authenticates inbound requests. A request without a Bearer token
// proceeds anonymously; whether anonymity is acceptable is decided by the
// routes behind the gate, not here.
type Gate struct {
	logger     *slog.Logger
	tokens     *TokenService
	principals PrincipalSource
}

// NewGate constructs a Gate.
func NewGate(logger *slog.Logger, tokens *TokenService, principals PrincipalSource) *Gate {
	return &Gate{logger: logger, tokens: tokens, principals: principals}
}

// Middleware authenticates the request once. If a principal is already
// attached the gate is a no-op. Any token failure ends the request with 401;
// a valid token naming an unknown account is also an authentication failure,
// not a missing resource.
func (g *Gate) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := authz.PrincipalFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := g.tokens.Validate(raw)
			if err != nil {
				httpx.RespondError(w, r, err)
				return
			}
			email, err := g.tokens.ExtractEmail(claims)
			if err != nil {
				httpx.RespondError(w, r, err)
				return
			}
			principal, err := g.principals.FindPrincipalByEmail(r.Context(), email)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					httpx.RespondError(w, r, shared.ErrAuthentication)
					return
				}
				g.logger.Error("principal lookup", slog.Any("error", err))
				httpx.RespondError(w, r, err)
				return
			}
			ctx := authz.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthenticated rejects requests the gate left anonymous.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authz.PrincipalFromContext(r.Context()); !ok {
			httpx.RespondError(w, r, shared.ErrAuthentication)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken strips the Bearer prefix. A header with any other scheme is
// treated as absent.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
