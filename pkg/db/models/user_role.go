package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole links a user to a role.
type UserRole struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id"`
	RoleID    uuid.UUID `gorm:"type:uuid;primaryKey;column:role_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
