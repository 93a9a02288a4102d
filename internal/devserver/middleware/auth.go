package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/gamehub/internal/devserver/apierr"
	"github.com/mcoot/gamehub/internal/devserver/backend"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// TokenValidator validates bearer tokens
type TokenValidator interface {
	Validate(token string) (*backend.Claims, error)
}

// Auth rejects requests without a valid bearer token
func Auth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsContextKey, claims)))
		})
	}
}

// OptionalAuth attaches claims when a valid token is present but doesn't require one
func OptionalAuth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := extractToken(r); token != "" {
				if claims, err := tokens.Validate(token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), claimsContextKey, claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetClaims returns the token claims from the request context, or nil
func GetClaims(ctx context.Context) *backend.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*backend.Claims)
	return claims
}

// MustGetClaims returns the token claims or panics
func MustGetClaims(ctx context.Context) *backend.Claims {
	claims := GetClaims(ctx)
	if claims == nil {
		panic("no claims in context - auth middleware not applied?")
	}
	return claims
}
