package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go-task-manager/internal/model"
)

// principalResolver validates an access token and resolves the current user.
type principalResolver interface {
	ValidateAccessToken(ctx context.Context, accessToken string) (model.PublicUser, error)
}

type contextKey string

const principalContextKey contextKey = "auth_principal"

type AuthMiddleware struct {
	resolver principalResolver
}

func NewAuthMiddleware(resolver principalResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireAuth rejects the request before any handler logic runs unless a
// valid bearer token resolves to an existing user. The resolved principal
// (password digest already stripped) is attached to the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			writeUnauthorized(w, "authorization header not found")
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			writeUnauthorized(w, "malformed authorization header")
			return
		}

		principal, err := m.resolver.ValidateAccessToken(r.Context(), strings.TrimSpace(token))
		if err != nil {
			// Expired, tampered and deleted-user failures all collapse
			// into one externally visible message.
			writeUnauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func PrincipalFromContext(ctx context.Context) (model.PublicUser, bool) {
	principal, ok := ctx.Value(principalContextKey).(model.PublicUser)
	return principal, ok
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "UNAUTHORIZED",
			Message: message,
		},
	})
}
