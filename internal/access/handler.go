package access

import (
	"context"
	"net/http"

	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
	"github.com/frahmantamala/vehicle-service-shop/internal/transport"
)

type ServiceAPI interface {
	ListRoles(ctx context.Context) ([]*Role, error)
	ListRules(ctx context.Context, roleID int64) ([]*Rule, error)
	UpsertRule(ctx context.Context, actor identity.Identity, dto UpsertRuleDTO) (*Rule, error)
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

// GetRoles handles GET /users/roles
func (h *Handler) GetRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.ListRoles(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RolesResponse{Roles: roles})
}

// GetRoleAccess handles GET /users/accesses/{role_id}
func (h *Handler) GetRoleAccess(w http.ResponseWriter, r *http.Request) {
	roleID, err := h.IDParam(r, "role_id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	rules, err := h.Service.ListRules(r.Context(), roleID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RulesResponse{RoleID: roleID, Accesses: rules})
}

// UpdateRoleAccess handles POST /users/accesses
func (h *Handler) UpdateRoleAccess(w http.ResponseWriter, r *http.Request) {
	caller, err := h.Identity(r)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	var dto UpsertRuleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	rule, err := h.Service.UpsertRule(r.Context(), caller, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, UpsertRuleResponse{Message: "Access updated", Access: rule})
}
