package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candidate-registry/internal/model"
)

type stubVerifier struct {
	claims map[string]model.IdentityClaim
	calls  int
}

func (s *stubVerifier) Verify(token string) (model.IdentityClaim, error) {
	s.calls++
	claim, ok := s.claims[token]
	if !ok {
		return model.IdentityClaim{}, fmt.Errorf("%w: unknown", model.ErrTokenInvalid)
	}
	return claim, nil
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	verifier := &stubVerifier{claims: map[string]model.IdentityClaim{
		"good": {UserID: 7, Email: "a@b.c"},
	}}
	mw := NewAuthMiddleware(verifier)

	var seen model.IdentityClaim
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claim, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		seen = claim
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized, code: "UNAUTHENTICATED"},
		{name: "scheme only", header: "Bearer", status: http.StatusUnauthorized, code: "UNAUTHENTICATED"},
		{name: "blank token", header: "Bearer    ", status: http.StatusUnauthorized, code: "UNAUTHENTICATED"},
		{name: "basic scheme", header: "Basic Zm9vOmJhcg==", status: http.StatusForbidden, code: "FORBIDDEN"},
		{name: "other scheme with known token", header: "Token good", status: http.StatusNoContent},
		{name: "bad token", header: "Bearer nope", status: http.StatusForbidden, code: "FORBIDDEN"},
		{name: "extra segments", header: "Bearer good trailing", status: http.StatusNoContent},
		{name: "valid token", header: "Bearer good", status: http.StatusNoContent},
		{name: "lowercase scheme", header: "bearer good", status: http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/candidates", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.code != "" {
				assert.Contains(t, rec.Body.String(), `"code":"`+tc.code+`"`)
			}
		})
	}

	assert.Equal(t, model.IdentityClaim{UserID: 7, Email: "a@b.c"}, seen)
}

func TestAuthMiddleware_Messages(t *testing.T) {
	mw := NewAuthMiddleware(&stubVerifier{})
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"code":"UNAUTHENTICATED","message":"Authentication token is required"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"code":"FORBIDDEN","message":"Invalid or expired token"}`, rec.Body.String())
}

func TestAuthMiddleware_MissingTokenSkipsVerifier(t *testing.T) {
	verifier := &stubVerifier{}
	handler := NewAuthMiddleware(verifier).RequireAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Zero(t, verifier.calls)
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	mw := NewAuthMiddleware(&stubVerifier{claims: map[string]model.IdentityClaim{"good": {UserID: 3}}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := mw.authenticate(req)
	require.ErrorIs(t, err, model.ErrUnauthenticated)

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	_, err = mw.authenticate(req)
	require.ErrorIs(t, err, model.ErrForbidden)
	require.ErrorIs(t, err, model.ErrTokenInvalid)

	req.Header.Set("Authorization", "Bearer good")
	claim, err := mw.authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claim.UserID)
}
