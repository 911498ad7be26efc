package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"candidate-registry/internal/model"
)

type tokenVerifier interface {
	Verify(token string) (model.IdentityClaim, error)
}

type contextKey string

const identityContextKey contextKey = "identity_claim"

type AuthMiddleware struct {
	verifier tokenVerifier
}

func NewAuthMiddleware(verifier tokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth admits a request only when it carries a verifiable token.
// A missing token is answered with 401, an unverifiable one with 403.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claim, err := m.authenticate(r)
		switch {
		case errors.Is(err, model.ErrUnauthenticated):
			writeJSONError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication token is required")
			return
		case err != nil:
			writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claim)))
	})
}

// authenticate verifies the second segment of the Authorization header whatever
// the scheme word is. Only a missing segment counts as no token at all.
func (m *AuthMiddleware) authenticate(r *http.Request) (model.IdentityClaim, error) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) < 2 {
		return model.IdentityClaim{}, model.ErrUnauthenticated
	}

	claim, err := m.verifier.Verify(parts[1])
	if err != nil {
		return model.IdentityClaim{}, fmt.Errorf("%w: %w", model.ErrForbidden, err)
	}
	return claim, nil
}

func ClaimsFromContext(ctx context.Context) (model.IdentityClaim, bool) {
	claim, ok := ctx.Value(identityContextKey).(model.IdentityClaim)
	return claim, ok
}

// WithClaims returns a copy of ctx carrying claim, as RequireAuth does after verification.
func WithClaims(ctx context.Context, claim model.IdentityClaim) context.Context {
	return context.WithValue(ctx, identityContextKey, claim)
}
