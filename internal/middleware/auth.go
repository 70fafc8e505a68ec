// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"todochat-backend/internal/auth"
)

// NewJWTMiddleware validates the Bearer token on every request and stores the
// authenticated user ID in the request context. Signing keys come from the
// auth service's JWKS endpoint via the client.
func NewJWTMiddleware(jwks *auth.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "Missing or invalid Authorization header")
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			claims := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(tokenString, claims, jwks.Keyfunc,
				jwt.WithValidMethods(auth.ValidMethods))
			if err != nil {
				log.Printf("[AuthMiddleware] Invalid token: %v", err)
				if errors.Is(err, jwt.ErrTokenExpired) {
					unauthorized(w, "Token has expired")
					return
				}
				unauthorized(w, "Invalid token")
				return
			}

			userID := auth.SubjectFromClaims(claims)
			if userID == "" {
				unauthorized(w, "Invalid token: no user ID")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user ID, or "" when the request
// did not pass through the auth middleware.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
