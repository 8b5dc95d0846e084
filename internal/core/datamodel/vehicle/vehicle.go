package vehicle

import (
	"time"

	"gorm.io/gorm"
)

type Vehicle struct {
	ID           int64          `gorm:"primaryKey"`
	UserID       int64          `gorm:"column:user_id;not null;index"`
	Make         string         `gorm:"column:make;size:50;not null"`
	Model        string         `gorm:"column:model;size:50;not null"`
	Year         int            `gorm:"column:year;not null"`
	LicensePlate string         `gorm:"column:license_plate;size:20;not null;index:idx_vehicles_license_plate_active,unique,where:deleted_at IS NULL"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
