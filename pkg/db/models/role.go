package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/bookstore-backend/pkg/types"
)

// Role is a named bundle of permission flags.
type Role struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Name        string              `gorm:"type:text;not null;uniqueIndex"`
	Description string              `gorm:"type:text;not null;default:''"`
	Active      bool                `gorm:"column:active;not null"`
	Permission  types.PermissionMap `gorm:"column:permission;type:jsonb;not null"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *Role) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
