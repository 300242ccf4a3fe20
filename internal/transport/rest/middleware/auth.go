package middleware

import (
	"context"
	"net/http"
	"strings"

	"mindscreen/internal/service"
)

type contextKey string

const AdminIDKey contextKey = "adminId"

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireAdmin validates the admin JWT from the Authorization header, or the
// token query param for WebSocket upgrades
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractToken(r)
		if token == "" {
			unauthorized(w, "missing authorization")
			return
		}

		claims, err := m.authSvc.ValidateAdminToken(token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), AdminIDKey, claims.AdminID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"error":"` + msg + `"}`))
}

// GetAdminID extracts admin ID from context
func GetAdminID(ctx context.Context) string {
	if v, ok := ctx.Value(AdminIDKey).(string); ok {
		return v
	}
	return ""
}

// ExtractToken returns the bearer token, falling back to the token query param.
func ExtractToken(r *http.Request) string {
	if token := extractBearerToken(r); token != "" {
		return token
	}
	return r.URL.Query().Get("token")
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
