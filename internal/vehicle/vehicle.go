package vehicle

import (
	"errors"
	"time"

	vehicleDatamodel "github.com/frahmantamala/vehicle-service-shop/internal/core/datamodel/vehicle"
)

type Vehicle struct {
	ID           int64     `json:"id"`
	OwnerUserID  int64     `json:"user_id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	LicensePlate string    `json:"license_plate"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var ErrNotFound = errors.New("vehicle not found")

func ToDataModel(v *Vehicle) *vehicleDatamodel.Vehicle {
	return &vehicleDatamodel.Vehicle{
		ID:           v.ID,
		UserID:       v.OwnerUserID,
		Make:         v.Make,
		Model:        v.Model,
		Year:         v.Year,
		LicensePlate: v.LicensePlate,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func FromDataModel(v *vehicleDatamodel.Vehicle) *Vehicle {
	return &Vehicle{
		ID:           v.ID,
		OwnerUserID:  v.UserID,
		Make:         v.Make,
		Model:        v.Model,
		Year:         v.Year,
		LicensePlate: v.LicensePlate,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}
