package role

import (
	"time"

	"gorm.io/gorm"
)

type Role struct {
	ID        int64          `gorm:"primaryKey"`
	Name      string         `gorm:"column:name;size:50;not null;uniqueIndex"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Role) TableName() string {
	return "roles"
}

// Access is one row of the permission matrix. Flags carry no default tag so
// false values are always written explicitly.
type Access struct {
	ID        int64     `gorm:"primaryKey"`
	RoleID    int64     `gorm:"column:role_id;not null;uniqueIndex:idx_accesses_role_resource"`
	Resource  string    `gorm:"column:resource;size:100;not null;uniqueIndex:idx_accesses_role_resource"`
	CanCreate bool      `gorm:"column:can_create;not null"`
	CanRead   bool      `gorm:"column:can_read;not null"`
	CanUpdate bool      `gorm:"column:can_update;not null"`
	CanDelete bool      `gorm:"column:can_delete;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Access) TableName() string {
	return "accesses"
}
