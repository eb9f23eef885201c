package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/construbase/invoicepipe/internal/utils"
)

type contextKey string

const CallerContextKey contextKey = "caller"

// AuthMiddleware verifies JWT bearer tokens on webhook routes. With an
// empty secret the middleware is a pass-through; the service then trusts
// its network boundary instead.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			// Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(parts[1], secret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), CallerContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
