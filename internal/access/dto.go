package access

import (
	"strings"

	"github.com/frahmantamala/vehicle-service-shop/internal/core/common/validation"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/permission"
)

// UpsertRuleDTO requires all four flags so a partial body never silently
// revokes access.
type UpsertRuleDTO struct {
	RoleID    int64  `json:"role_id" validate:"required,gt=0"`
	Resource  string `json:"resource" validate:"required,max=100"`
	CanCreate *bool  `json:"can_create" validate:"required"`
	CanRead   *bool  `json:"can_read" validate:"required"`
	CanUpdate *bool  `json:"can_update" validate:"required"`
	CanDelete *bool  `json:"can_delete" validate:"required"`
}

func (d *UpsertRuleDTO) Normalize() {
	d.Resource = strings.TrimSpace(d.Resource)
}

func (d UpsertRuleDTO) Validate() error {
	return validation.Struct(d)
}

// Flags must only be called after Validate succeeded.
func (d UpsertRuleDTO) Flags() permission.Flags {
	return permission.Flags{
		CanCreate: *d.CanCreate,
		CanRead:   *d.CanRead,
		CanUpdate: *d.CanUpdate,
		CanDelete: *d.CanDelete,
	}
}

type RolesResponse struct {
	Roles []*Role `json:"roles"`
}

type RulesResponse struct {
	RoleID   int64   `json:"role_id"`
	Accesses []*Rule `json:"accesses"`
}

type UpsertRuleResponse struct {
	Message string `json:"message"`
	Access  *Rule  `json:"access"`
}
