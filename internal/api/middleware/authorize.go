package middleware

import (
	"context"
	"net/http"

	"github.com/dom/blog-platform/internal/api/response"
	"github.com/dom/blog-platform/internal/domain"
	"github.com/google/uuid"
)

// RoleChecker resolves an identity's current role against an allowed set.
type RoleChecker interface {
	RequireRole(ctx context.Context, userID uuid.UUID, allowed ...domain.Role) (*domain.User, error)
}

// Authorize must run after Authenticate. The role is looked up on every
// request and stored in the context for handlers.
func Authorize(access RoleChecker, resp *response.Responder, allowed ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, _ := GetUserID(r.Context())

			user, err := access.RequireRole(r.Context(), userID, allowed...)
			if err != nil {
				resp.Error(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserRoleKey, user.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserRole(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(UserRoleKey).(domain.Role)
	return role, ok
}
