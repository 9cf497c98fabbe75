package middleware

import (
	"context"
	"net/http"
	"strings"

	"accounts/internal/security"
)

type ctxKey string

const (
	CtxUserID ctxKey = "user_id"
	CtxName   ctxKey = "name"
)

// TokenParser validates a bearer token and returns its claims.
type TokenParser interface {
	Parse(raw string) (*security.Claims, error)
}

// JWTAuth rejects requests without a valid bearer token and stores the
// token holder's id and name in the request context.
func JWTAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Invalid Authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), CtxUserID, claims.UserID)
			ctx = context.WithValue(ctx, CtxName, claims.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the identity stored by JWTAuth.
func UserFromContext(ctx context.Context) (id, name string, ok bool) {
	id, ok = ctx.Value(CtxUserID).(string)
	name, _ = ctx.Value(CtxName).(string)
	return id, name, ok && id != ""
}
