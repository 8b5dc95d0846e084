package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
	"github.com/frahmantamala/vehicle-service-shop/internal/transport"
)

type ServiceAPI interface {
	ListUsers(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, userID int64) (*User, error)
	UpdateUser(ctx context.Context, userID int64, dto UpdateUserDTO) (*User, error)
	DeleteUser(ctx context.Context, actor identity.Identity, userID int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	caller, err := h.Identity(r)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	u, err := h.Service.GetByID(r.Context(), caller.UserID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if u.RoleName == "" {
		u.RoleName = caller.RoleName
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// GetUsers handles GET /users
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, UsersResponse{Users: users})
}

// UpdateUser handles PUT /users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	u, err := h.Service.UpdateUser(r.Context(), userID, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, err := h.Identity(r)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	userID, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	if err := h.Service.DeleteUser(r.Context(), caller, userID); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
