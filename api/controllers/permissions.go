package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/bookstore-backend/api/middleware"
	"github.com/angelmondragon/bookstore-backend/api/responses"
	"github.com/angelmondragon/bookstore-backend/api/validators"
	permissionsvc "github.com/angelmondragon/bookstore-backend/internal/permissions"
	"github.com/angelmondragon/bookstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookstore-backend/pkg/errors"
	"github.com/angelmondragon/bookstore-backend/pkg/logger"
)

type permissionDecision struct {
	Resource enums.Resource       `json:"resource"`
	Actions  []enums.Action       `json:"actions"`
	Mode     enums.PermissionMode `json:"mode"`
	Allowed  bool                 `json:"allowed"`
}

type myPermissionsResponse struct {
	UserID   string               `json:"userId"`
	Roles    []permissionsvc.Role `json:"roles"`
	Decision *permissionDecision  `json:"decision,omitempty"`
}

// MyPermissions returns the caller's roles. With ?resource= it also evaluates
// ?actions= (comma separated) in ?mode=any|all.
func MyPermissions(svc permissionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "permission service unavailable"))
			return
		}

		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		user, err := svc.UserRoles(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp := myPermissionsResponse{UserID: userID.String(), Roles: []permissionsvc.Role{}}
		if user != nil {
			resp.Roles = user.Roles
		}

		if r.URL.Query().Get("resource") == "" {
			responses.WriteSuccess(w, resp)
			return
		}

		decision, err := parseDecision(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		decision.Allowed = permissionsvc.Evaluate(user, decision.Resource, decision.Actions, decision.Mode)
		resp.Decision = decision
		responses.WriteSuccess(w, resp)
	}
}

func parseDecision(r *http.Request) (*permissionDecision, error) {
	rawResource, err := validators.RequireQuery(r, "resource")
	if err != nil {
		return nil, err
	}
	resource, err := enums.ParseResource(rawResource)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid resource")
	}
	mode, err := enums.ParsePermissionMode(r.URL.Query().Get("mode"))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid mode")
	}

	actions := []enums.Action{}
	for _, raw := range validators.ParseQueryList(r, "actions") {
		action, err := enums.ParseAction(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action")
		}
		actions = append(actions, action)
	}
	return &permissionDecision{Resource: resource, Actions: actions, Mode: mode}, nil
}
