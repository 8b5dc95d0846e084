package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/datamodel"
	vehicleDatamodel "github.com/frahmantamala/vehicle-service-shop/internal/core/datamodel/vehicle"
	"github.com/frahmantamala/vehicle-service-shop/internal/vehicle"
	"gorm.io/gorm"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) vehicle.RepositoryAPI {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) ListActive(ctx context.Context) ([]*vehicle.Vehicle, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *VehicleRepository) ListActiveByOwner(ctx context.Context, ownerUserID int64) ([]*vehicle.Vehicle, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", ownerUserID))
}

func (r *VehicleRepository) list(q *gorm.DB) ([]*vehicle.Vehicle, error) {
	var rows []*vehicleDatamodel.Vehicle
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}

	vehicles := make([]*vehicle.Vehicle, 0, len(rows))
	for _, row := range rows {
		vehicles = append(vehicles, vehicle.FromDataModel(row))
	}
	return vehicles, nil
}

func (r *VehicleRepository) FindActiveByID(ctx context.Context, id int64) (*vehicle.Vehicle, error) {
	var row vehicleDatamodel.Vehicle
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	return vehicle.FromDataModel(&row), nil
}

func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	row := vehicle.ToDataModel(v)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if datamodel.IsUniqueViolation(err) {
			return internal.ErrDuplicateCredential.WithCause(err)
		}
		return fmt.Errorf("create vehicle: %w", err)
	}

	v.ID = row.ID
	v.CreatedAt = row.CreatedAt
	v.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *VehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&vehicleDatamodel.Vehicle{}).
		Where("id = ?", v.ID).
		Updates(map[string]interface{}{
			"make":          v.Make,
			"model":         v.Model,
			"year":          v.Year,
			"license_plate": v.LicensePlate,
			"updated_at":    now,
		})
	if res.Error != nil {
		if datamodel.IsUniqueViolation(res.Error) {
			return internal.ErrDuplicateCredential.WithCause(res.Error)
		}
		return fmt.Errorf("update vehicle: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return vehicle.ErrNotFound
	}

	v.UpdatedAt = now
	return nil
}

func (r *VehicleRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&vehicleDatamodel.Vehicle{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete vehicle: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return vehicle.ErrNotFound
	}
	return nil
}
