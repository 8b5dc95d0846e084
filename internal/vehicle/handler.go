package vehicle

import (
	"context"
	"net/http"

	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
	"github.com/frahmantamala/vehicle-service-shop/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, caller identity.Identity) ([]*Vehicle, error)
	Get(ctx context.Context, caller identity.Identity, vehicleID int64) (*Vehicle, error)
	Create(ctx context.Context, caller identity.Identity, dto VehicleDTO) (*Vehicle, error)
	Update(ctx context.Context, caller identity.Identity, vehicleID int64, dto VehicleDTO) (*Vehicle, error)
	Delete(ctx context.Context, caller identity.Identity, vehicleID int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetVehicles handles GET /vehicles
func (h *Handler) GetVehicles(w http.ResponseWriter, r *http.Request) {
	caller, err := h.Identity(r)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	vehicles, err := h.Service.List(r.Context(), caller)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, VehiclesResponse{Vehicles: vehicles})
}

// GetVehicle handles GET /vehicles/{id}
func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	caller, vehicleID, ok := h.callerAndID(w, r)
	if !ok {
		return
	}

	v, err := h.Service.Get(r.Context(), caller, vehicleID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, v)
}

// CreateVehicle handles POST /vehicles
func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	caller, err := h.Identity(r)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	var dto VehicleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	v, err := h.Service.Create(r.Context(), caller, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, v)
}

// UpdateVehicle handles PUT /vehicles/{id}
func (h *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	caller, vehicleID, ok := h.callerAndID(w, r)
	if !ok {
		return
	}

	var dto VehicleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	v, err := h.Service.Update(r.Context(), caller, vehicleID, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, v)
}

// DeleteVehicle handles DELETE /vehicles/{id}
func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	caller, vehicleID, ok := h.callerAndID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), caller, vehicleID); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) callerAndID(w http.ResponseWriter, r *http.Request) (identity.Identity, int64, bool) {
	caller, err := h.Identity(r)
	if err != nil {
		h.WriteAppError(w, r, err)
		return identity.Identity{}, 0, false
	}

	vehicleID, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return identity.Identity{}, 0, false
	}
	return caller, vehicleID, true
}
