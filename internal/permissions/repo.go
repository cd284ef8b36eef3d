package permissions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/bookstore-backend/pkg/db/models"
)

// Repository hydrates users with their assigned roles.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UserWithRoles returns the user and every role linked through user_roles.
// It returns nil without error when the user does not exist.
func (r *Repository) UserWithRoles(ctx context.Context, userID uuid.UUID) (*User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var roles []models.Role
	err = r.db.WithContext(ctx).
		Model(&models.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}

	return &User{ID: user.ID.String(), Roles: rolesFromModels(roles)}, nil
}

func rolesFromModels(rows []models.Role) []Role {
	roles := make([]Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, RoleFromModel(row))
	}
	return roles
}

// RoleFromModel converts a stored role into its evaluator form.
func RoleFromModel(row models.Role) Role {
	return Role{
		ID:         row.ID.String(),
		Name:       row.Name,
		Active:     row.Active,
		Permission: row.Permission.Clone(),
	}
}
