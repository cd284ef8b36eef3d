package permissions

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/bookstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookstore-backend/pkg/errors"
	"github.com/angelmondragon/bookstore-backend/pkg/logger"
	"github.com/angelmondragon/bookstore-backend/pkg/metrics"
)

type userLoader interface {
	UserWithRoles(ctx context.Context, userID uuid.UUID) (*User, error)
}

// Service loads a user's roles and evaluates permission checks.
type Service interface {
	Check(ctx context.Context, userID uuid.UUID, resource enums.Resource, actions []enums.Action, mode enums.PermissionMode) (bool, error)
	UserRoles(ctx context.Context, userID uuid.UUID) (*User, error)
}

type service struct {
	users   userLoader
	metrics *metrics.PermissionMetrics
	logg    *logger.Logger
}

// NewService builds a permission service.
func NewService(users userLoader, m *metrics.PermissionMetrics, logg *logger.Logger) (Service, error) {
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "permission repository required")
	}
	return &service{users: users, metrics: m, logg: logg}, nil
}

func (s *service) UserRoles(ctx context.Context, userID uuid.UUID) (*User, error) {
	user, err := s.users.UserWithRoles(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user roles")
	}
	return user, nil
}

// Check evaluates the request against the user's roles. Unknown users are
// denied rather than reported as errors.
func (s *service) Check(ctx context.Context, userID uuid.UUID, resource enums.Resource, actions []enums.Action, mode enums.PermissionMode) (bool, error) {
	if !mode.IsValid() {
		return false, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid permission mode %q", mode)
	}
	user, err := s.UserRoles(ctx, userID)
	if err != nil {
		return false, err
	}
	allowed := Evaluate(user, resource, actions, mode)
	s.metrics.ObserveDecision(resource, mode, allowed)

	if !allowed && s.logg != nil {
		ctx = s.logg.WithUserID(ctx, userID.String())
		ctx = s.logg.WithFields(ctx, map[string]any{"resource": resource, "actions": actions, "mode": mode})
		s.logg.Debug(ctx, "permission denied")
	}
	return allowed, nil
}
