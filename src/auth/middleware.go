package auth

import (
	"context"
	"net/http"
	"strings"

	logger "github.com/sirupsen/logrus"

	"bluetrade/src/model"
)

// TokenResolver resolves a bearer token to its user; (nil, nil) means the
// token is unknown.
type TokenResolver interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// Middleware validates the Authorization header and injects the user into the
// request context. Requests without a valid token are rejected with 401.
func Middleware(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" || token == header {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := resolver.Authenticate(r.Context(), token)
			if err != nil {
				logger.WithError(err).Error("Failed to resolve bearer token")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
