package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"bluetrade/src/model"
)

type stubResolver struct {
	users map[string]*model.User
	err   error
}

func (s *stubResolver) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users[token], nil
}

func TestMiddleware(t *testing.T) {
	resolver := &stubResolver{users: map[string]*model.User{
		"good-token": {ID: 7, Email: "trader@example.com"},
	}}

	var seen *model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	protected := Middleware(resolver)(next)

	call := func(authorization string) *httptest.ResponseRecorder {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid token injects user", func(t *testing.T) {
		rec := call("Bearer good-token")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, seen)
		assert.EqualValues(t, 7, seen.ID)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := call("")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rec := call("Basic good-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		rec := call("Bearer bad-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("resolver failure", func(t *testing.T) {
		failing := Middleware(&stubResolver{err: errors.New("db down")})(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		failing.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
