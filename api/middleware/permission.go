package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/bookstore-backend/api/responses"
	"github.com/angelmondragon/bookstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookstore-backend/pkg/errors"
	"github.com/angelmondragon/bookstore-backend/pkg/logger"
)

// PermissionChecker decides whether a user may act on a resource.
type PermissionChecker interface {
	Check(ctx context.Context, userID uuid.UUID, resource enums.Resource, actions []enums.Action, mode enums.PermissionMode) (bool, error)
}

// RequirePermission rejects requests whose user lacks the actions on resource.
// It must run after Auth.
func RequirePermission(checker PermissionChecker, mode enums.PermissionMode, resource enums.Resource, actions []enums.Action, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := uuid.Parse(UserIDFromContext(r.Context()))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}

			allowed, err := checker.Check(r.Context(), userID, resource, actions, mode)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if !allowed {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeForbidden, "missing %s permission on %s", mode, resource))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
