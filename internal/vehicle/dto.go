package vehicle

import (
	"strings"

	"github.com/frahmantamala/vehicle-service-shop/internal/core/common/validation"
)

type VehicleDTO struct {
	Make         string `json:"make" validate:"required,min=2,max=50"`
	Model        string `json:"model" validate:"required,min=1,max=50"`
	Year         int    `json:"year" validate:"required,vehicle_year"`
	LicensePlate string `json:"license_plate" validate:"required,min=2,max=20"`
}

func (d *VehicleDTO) Normalize() {
	d.Make = strings.TrimSpace(d.Make)
	d.Model = strings.TrimSpace(d.Model)
	d.LicensePlate = strings.TrimSpace(d.LicensePlate)
}

func (d VehicleDTO) Validate() error {
	return validation.Struct(d)
}

type VehiclesResponse struct {
	Vehicles []*Vehicle `json:"vehicles"`
}
