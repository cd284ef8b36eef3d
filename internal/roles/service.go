package roles

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/bookstore-backend/pkg/db"
	"github.com/angelmondragon/bookstore-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bookstore-backend/pkg/errors"
	"github.com/angelmondragon/bookstore-backend/pkg/pagination"
	"github.com/angelmondragon/bookstore-backend/pkg/types"
)

type repository interface {
	List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Role, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Role, error)
	Create(ctx context.Context, role *models.Role) error
	Save(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
	Assign(ctx context.Context, userID, roleID uuid.UUID) error
	Unassign(ctx context.Context, userID, roleID uuid.UUID) (bool, error)
}

// Service manages the role catalog.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*RolePage, error)
	Get(ctx context.Context, id uuid.UUID) (*RoleDTO, error)
	Create(ctx context.Context, input CreateInput) (*RoleDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*RoleDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AssignToUser(ctx context.Context, userID, roleID uuid.UUID) error
	UnassignFromUser(ctx context.Context, userID, roleID uuid.UUID) error
}

type service struct {
	repo repository
}

// NewService builds the role service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("roles repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*RolePage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list roles")
	}

	rows, next := pagination.Trim(rows, params.Limit, func(row models.Role) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})
	page := &RolePage{Roles: make([]RoleDTO, 0, len(rows)), NextCursor: next}
	for _, row := range rows {
		page.Roles = append(page.Roles, toDTO(row))
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RoleDTO, error) {
	role, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*role)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*RoleDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role name is required")
	}
	if err := ValidatePermission(input.Permission); err != nil {
		return nil, err
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}
	perm := input.Permission.Clone()
	if perm == nil {
		perm = types.PermissionMap{}
	}

	role := &models.Role{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Active:      active,
		Permission:  perm,
	}
	if err := s.repo.Create(ctx, role); err != nil {
		return nil, mapWriteError(err, name)
	}
	dto := toDTO(*role)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*RoleDTO, error) {
	role, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "role name cannot be blank")
		}
		role.Name = name
	}
	if input.Description != nil {
		role.Description = strings.TrimSpace(*input.Description)
	}
	if input.Active != nil {
		role.Active = *input.Active
	}
	if input.Permission != nil {
		if err := ValidatePermission(input.Permission); err != nil {
			return nil, err
		}
		role.Permission = input.Permission.Clone()
	}

	if err := s.repo.Save(ctx, role); err != nil {
		return nil, mapWriteError(err, role.Name)
	}
	dto := toDTO(*role)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "role not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete role")
	}
	return nil
}

func (s *service) AssignToUser(ctx context.Context, userID, roleID uuid.UUID) error {
	if _, err := s.load(ctx, roleID); err != nil {
		return err
	}
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	if err := s.repo.Assign(ctx, userID, roleID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign role")
	}
	return nil
}

func (s *service) UnassignFromUser(ctx context.Context, userID, roleID uuid.UUID) error {
	removed, err := s.repo.Unassign(ctx, userID, roleID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unassign role")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "role is not assigned to user")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "role not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role")
	}
	return role, nil
}

func mapWriteError(err error, name string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Newf(pkgerrors.CodeConflict, "role %q already exists", name)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save role")
}

// ValidatePermission rejects resources and actions outside the catalog in
// enums.ResourceActions. The offending keys are returned as error details.
func ValidatePermission(perm types.PermissionMap) error {
	var invalid []string
	for resource, rules := range perm {
		if !resource.IsValid() {
			invalid = append(invalid, string(resource))
			continue
		}
		for action := range rules {
			if !action.AllowedOn(resource) {
				invalid = append(invalid, fmt.Sprintf("%s.%s", resource, action))
			}
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	sort.Strings(invalid)
	return pkgerrors.New(pkgerrors.CodeValidation, "permission map contains unknown entries").
		WithDetails(map[string]any{"invalid": invalid})
}

