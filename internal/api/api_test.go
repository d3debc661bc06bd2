package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social/infrastructure"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("load: %w", infrastructure.ErrGroupNotFound), http.StatusNotFound},
		{infrastructure.ErrInvalidInput, http.StatusBadRequest},
		{infrastructure.ErrUnauthorized, http.StatusForbidden},
		{infrastructure.ErrConnectionExists, http.StatusConflict},
		{infrastructure.ErrUnsupportedConnectionStatus, http.StatusUnprocessableEntity},
		{infrastructure.ErrRecipeMessageUpdateRejected, http.StatusUnprocessableEntity},
		{infrastructure.ErrMessageUpdateFailed, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestWriteErrorHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	WriteError(rec, req, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestIdentityMiddleware(t *testing.T) {
	caller := uuid.New()
	var seen uuid.UUID
	var present bool
	h := IdentityMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, present = CallerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, caller.String())
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, present)
	assert.Equal(t, caller, seen)

	present = false
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, present)

	rec := httptest.NewRecorder()
	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.Header.Set(UserIDHeader, "not-a-uuid")
	h.ServeHTTP(rec, bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallerMissing(t *testing.T) {
	_, err := Caller(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, infrastructure.ErrUnauthorized)
}

func TestRequireCaller(t *testing.T) {
	self := uuid.New()
	withCaller := func(id uuid.UUID) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		return r.WithContext(ContextWithCaller(r.Context(), id))
	}

	assert.NoError(t, RequireCaller(withCaller(self), self))
	assert.ErrorIs(t, RequireCaller(withCaller(uuid.New()), self), infrastructure.ErrUnauthorized)
	assert.ErrorIs(t, RequireCaller(httptest.NewRequest(http.MethodGet, "/", nil), self), infrastructure.ErrUnauthorized)
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimitMiddleware(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRouterHealthAndRequestID(t *testing.T) {
	router := NewRouter(100, 100)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRecovererReturns500(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("oops") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name" validate:"required"`
	}

	var ok body
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, DecodeJSON(req, &ok))
	assert.Equal(t, "x", ok.Name)

	var missing body
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	assert.ErrorIs(t, DecodeJSON(req, &missing), infrastructure.ErrInvalidInput)

	var unknown body
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
	assert.ErrorIs(t, DecodeJSON(req, &unknown), infrastructure.ErrInvalidInput)
}
