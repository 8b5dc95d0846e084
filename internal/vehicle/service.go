package vehicle

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/auth"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
)

type RepositoryAPI interface {
	ListActive(ctx context.Context) ([]*Vehicle, error)
	ListActiveByOwner(ctx context.Context, ownerUserID int64) ([]*Vehicle, error)
	FindActiveByID(ctx context.Context, id int64) (*Vehicle, error)
	Create(ctx context.Context, v *Vehicle) error
	Update(ctx context.Context, v *Vehicle) error
	SoftDelete(ctx context.Context, id int64) error
}

// Service applies the row-level ownership rule on top of the route's matrix
// check. Non-owners see the same error as for a vehicle that does not exist.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns every active vehicle to admins and only their own to everyone
// else.
func (s *Service) List(ctx context.Context, caller identity.Identity) ([]*Vehicle, error) {
	var (
		vehicles []*Vehicle
		err      error
	)
	if caller.IsAdmin() {
		vehicles, err = s.repo.ListActive(ctx)
	} else {
		vehicles, err = s.repo.ListActiveByOwner(ctx, caller.UserID)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list vehicles", "user_id", caller.UserID, "error", err)
		return nil, internal.NewInternalError("failed to list vehicles", err)
	}

	s.logger.InfoContext(ctx, "retrieved vehicles", "user_id", caller.UserID, "count", len(vehicles))
	return vehicles, nil
}

func (s *Service) Get(ctx context.Context, caller identity.Identity, vehicleID int64) (*Vehicle, error) {
	return s.findOwned(ctx, caller, vehicleID)
}

func (s *Service) Create(ctx context.Context, caller identity.Identity, dto VehicleDTO) (*Vehicle, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	v := &Vehicle{
		OwnerUserID:  caller.UserID,
		Make:         dto.Make,
		Model:        dto.Model,
		Year:         dto.Year,
		LicensePlate: dto.LicensePlate,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, s.writeError(ctx, "create", v.ID, err)
	}

	s.logger.InfoContext(ctx, "vehicle created", "vehicle_id", v.ID, "user_id", caller.UserID)
	return v, nil
}

func (s *Service) Update(ctx context.Context, caller identity.Identity, vehicleID int64, dto VehicleDTO) (*Vehicle, error) {
	v, err := s.findOwned(ctx, caller, vehicleID)
	if err != nil {
		return nil, err
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	v.Make = dto.Make
	v.Model = dto.Model
	v.Year = dto.Year
	v.LicensePlate = dto.LicensePlate

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, s.writeError(ctx, "update", vehicleID, err)
	}

	s.logger.InfoContext(ctx, "vehicle updated", "vehicle_id", vehicleID, "user_id", caller.UserID)
	return v, nil
}

func (s *Service) Delete(ctx context.Context, caller identity.Identity, vehicleID int64) error {
	if _, err := s.findOwned(ctx, caller, vehicleID); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, vehicleID); err != nil {
		return s.writeError(ctx, "delete", vehicleID, err)
	}

	s.logger.InfoContext(ctx, "vehicle soft deleted", "vehicle_id", vehicleID, "user_id", caller.UserID)
	return nil
}

// findOwned fetches the candidate row first, then applies the ownership
// check, so a foreign row and a missing row fail identically.
func (s *Service) findOwned(ctx context.Context, caller identity.Identity, vehicleID int64) (*Vehicle, error) {
	v, err := s.repo.FindActiveByID(ctx, vehicleID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get vehicle", "vehicle_id", vehicleID, "error", err)
		return nil, internal.NewInternalError("failed to get vehicle", err)
	}
	if v == nil {
		return nil, internal.ErrNotFoundOrDenied
	}

	if err := auth.RequireOwnershipOrAdmin(caller, v.OwnerUserID); err != nil {
		s.logger.WarnContext(ctx, "vehicle ownership check failed",
			"vehicle_id", vehicleID, "user_id", caller.UserID)
		return nil, err
	}
	return v, nil
}

func (s *Service) writeError(ctx context.Context, op string, vehicleID int64, err error) error {
	switch {
	case errors.Is(err, internal.ErrDuplicateCredential):
		return internal.ErrDuplicateCredential
	case errors.Is(err, ErrNotFound):
		return internal.ErrNotFoundOrDenied
	}
	s.logger.ErrorContext(ctx, "vehicle write failed", "op", op, "vehicle_id", vehicleID, "error", err)
	return internal.NewInternalError("failed to "+op+" vehicle", err)
}
