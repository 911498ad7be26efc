package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"candidate-registry/internal/middleware"
	"candidate-registry/internal/model"
	"candidate-registry/internal/repository"
	"candidate-registry/internal/service"
	"candidate-registry/pkg/apierror"
)

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"api error", apierror.BadRequest(model.ErrInvalidInput, "Name and email are required"), http.StatusBadRequest, `{"code":"BAD_REQUEST","message":"Name and email are required"}`},
		{"candidate not found", fmt.Errorf("get: %w", model.ErrCandidateNotFound), http.StatusNotFound, `{"code":"NOT_FOUND","message":"Candidate not found"}`},
		{"duplicate user", model.ErrUserAlreadyExists, http.StatusConflict, `{"code":"ALREADY_EXISTS","message":"User already exists"}`},
		{"bad credentials", model.ErrInvalidCredentials, http.StatusUnauthorized, `{"code":"UNAUTHORIZED","message":"Invalid credentials"}`},
		{"registration closed", model.ErrRegistrationClosed, http.StatusForbidden, `{"code":"FORBIDDEN","message":"Registration is disabled"}`},
		{"expired token", model.ErrTokenExpired, http.StatusForbidden, `{"code":"FORBIDDEN","message":"Invalid or expired token"}`},
		{"store down", fmt.Errorf("list: %w: %w", model.ErrUnavailable, context.DeadlineExceeded), http.StatusInternalServerError, `{"code":"UNAVAILABLE","message":"Service temporarily unavailable"}`},
		{"unknown", errors.New("pq: relation does not exist"), http.StatusInternalServerError, `{"code":"INTERNAL_ERROR","message":"Internal server error"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/api/candidates", nil), tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	decode := func(body string) error {
		var dst model.CandidateInput
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		return decodeJSON(httptest.NewRecorder(), req, &dst)
	}

	require.NoError(t, decode(`{"name":"Ada","email":"ada@x.io"}`))

	var apiErr *apierror.APIError
	require.ErrorAs(t, decode(""), &apiErr)
	assert.Equal(t, "Request body is required", apiErr.Message)

	require.ErrorAs(t, decode("{"), &apiErr)
	assert.Equal(t, "Invalid JSON body", apiErr.Message)

	huge := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	require.ErrorAs(t, decode(huge), &apiErr)
	assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.HTTPStatus)
}

func TestCandidateHandler_StoreUnavailable(t *testing.T) {
	store := new(repository.MockCandidateRepository)
	store.On("Get", mock.Anything, int64(7)).Return(model.Candidate{}, fmt.Errorf("get candidate: %w", model.ErrUnavailable))

	h := NewCandidateHandler(service.NewCandidateService(store, nil))
	r := chi.NewRouter()
	r.Get("/candidates/{id}", h.Get)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/candidates/7", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAVAILABLE")
	store.AssertExpectations(t)
}

func TestCandidateHandler_InvalidIDSkipsStore(t *testing.T) {
	store := new(repository.MockCandidateRepository)

	h := NewCandidateHandler(service.NewCandidateService(store, nil))
	r := chi.NewRouter()
	r.Delete("/candidates/{id}", h.Delete)

	for _, id := range []string{"abc", "0", "-3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/candidates/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, id)
	}

	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDocsHandler(t *testing.T) {
	h := NewDocsHandler([]byte("openapi: 3.0.3\n"))

	rec := httptest.NewRecorder()
	h.OpenAPI(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.OpenAPI(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	NewDocsHandler(nil).OpenAPI(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.SwaggerUI(rec, httptest.NewRequest(http.MethodGet, "/swagger", nil))
	assert.Contains(t, rec.Body.String(), "/openapi.yaml")
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), model.IdentityClaim{UserID: 9, Email: "ada@x.io"}))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":9,"email":"ada@x.io"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
