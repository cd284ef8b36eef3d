package roles

import (
	"time"

	"github.com/angelmondragon/bookstore-backend/pkg/db/models"
	"github.com/angelmondragon/bookstore-backend/pkg/types"
)

// RoleDTO is the admin view of a role.
type RoleDTO struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Active      bool                `json:"active"`
	Permission  types.PermissionMap `json:"permission"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// RolePage is one page of the role catalog. NextCursor is empty on the last page.
type RolePage struct {
	Roles      []RoleDTO `json:"roles"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

// CreateInput describes a new role.
type CreateInput struct {
	Name        string              `json:"name" validate:"required,min=2,max=64"`
	Description string              `json:"description" validate:"max=255"`
	Active      *bool               `json:"active"`
	Permission  types.PermissionMap `json:"permission"`
}

// UpdateInput patches a role. Nil fields are left untouched; a non-nil
// Permission replaces the whole map.
type UpdateInput struct {
	Name        *string             `json:"name" validate:"omitempty,min=2,max=64"`
	Description *string             `json:"description" validate:"omitempty,max=255"`
	Active      *bool               `json:"active"`
	Permission  types.PermissionMap `json:"permission"`
}

func toDTO(role models.Role) RoleDTO {
	perm := role.Permission.Clone()
	if perm == nil {
		perm = types.PermissionMap{}
	}
	return RoleDTO{
		ID:          role.ID.String(),
		Name:        role.Name,
		Description: role.Description,
		Active:      role.Active,
		Permission:  perm,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}
