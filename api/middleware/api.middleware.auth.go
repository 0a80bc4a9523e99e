package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/itsatony/irrigador/internal/errors"
	"github.com/itsatony/irrigador/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

type contextKey string

const userIDKey contextKey = "user_id"

// TokenMiddleware checks bearer tokens against the session store
type TokenMiddleware struct {
	tokens   repository.TokenRepository
	required bool
}

func NewTokenMiddleware(tokens repository.TokenRepository, required bool) *TokenMiddleware {
	return &TokenMiddleware{
		tokens:   tokens,
		required: required,
	}
}

// Authenticate validates the token and adds the user id to context
func (m *TokenMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.required {
			next.ServeHTTP(w, r)
			return
		}

		token := extractToken(r)
		if token == "" {
			handleError(w, errors.NewAuthError("no token provided", nil))
			return
		}

		userID, err := m.tokens.Lookup(r.Context(), token)
		if err != nil {
			if errors.IsUnauthorized(err) {
				handleError(w, errors.NewAuthError("invalid token", err))
				return
			}
			nuts.L.Errorf("[Auth] Token lookup failed: %v", err)
			handleError(w, errors.NewInternalError("Internal Server Error", err))
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the user id set by Authenticate
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

func extractToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func handleError(w http.ResponseWriter, err error) {
	if apiErr, ok := errors.As(err); ok {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
