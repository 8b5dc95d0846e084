package user

import (
	"time"

	"gorm.io/gorm"
)

// User uniqueness only applies to rows that are not soft deleted.
type User struct {
	ID           int64          `gorm:"primaryKey"`
	Username     string         `gorm:"column:username;size:30;not null;index:idx_users_username_active,unique,where:deleted_at IS NULL"`
	Email        string         `gorm:"column:email;size:255;not null;index:idx_users_email_active,unique,where:deleted_at IS NULL"`
	PasswordHash string         `gorm:"column:password;not null"`
	RoleID       int64          `gorm:"column:role_id;not null;index"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}

// UserWithRole is the read model of a user joined with its role name.
type UserWithRole struct {
	User
	RoleName string `gorm:"column:role_name"`
}
