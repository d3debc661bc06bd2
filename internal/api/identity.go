package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"social/infrastructure"
)

// UserIDHeader carries the acting user id, set by the gateway after authentication.
const UserIDHeader = "X-User-Id"

type callerKey struct{}

// ContextWithCaller stores the acting user id.
func ContextWithCaller(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, callerKey{}, id)
}

// CallerFromContext returns the acting user id and whether one was supplied.
func CallerFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(callerKey{}).(uuid.UUID)
	return id, ok
}

// Caller returns the acting user id or ErrUnauthorized.
func Caller(r *http.Request) (uuid.UUID, error) {
	id, ok := CallerFromContext(r.Context())
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing %s header", infrastructure.ErrUnauthorized, UserIDHeader)
	}
	return id, nil
}

// IdentityMiddleware parses UserIDHeader when present. Endpoints that need an
// identity call Caller.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			WriteError(w, r, fmt.Errorf("%w: malformed %s header", infrastructure.ErrInvalidInput, UserIDHeader))
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithCaller(r.Context(), id)))
	})
}

// RequireCaller fails with ErrUnauthorized unless the acting user is userID.
func RequireCaller(r *http.Request, userID uuid.UUID) error {
	caller, err := Caller(r)
	if err != nil {
		return err
	}
	if caller != userID {
		return fmt.Errorf("%w: %s cannot read data of %s", infrastructure.ErrUnauthorized, caller, userID)
	}
	return nil
}
