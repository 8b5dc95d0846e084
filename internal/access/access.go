package access

import (
	"time"

	roleDatamodel "github.com/frahmantamala/vehicle-service-shop/internal/core/datamodel/role"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/permission"
)

type Role struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rule is the access of one role to one resource. A missing rule means every
// flag is false.
type Rule struct {
	ID       int64  `json:"id"`
	RoleID   int64  `json:"role_id"`
	Resource string `json:"resource"`
	permission.Flags
	UpdatedAt time.Time `json:"updated_at"`
}

func RoleFromDataModel(r *roleDatamodel.Role) *Role {
	return &Role{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func RuleFromDataModel(a *roleDatamodel.Access) *Rule {
	return &Rule{
		ID:       a.ID,
		RoleID:   a.RoleID,
		Resource: a.Resource,
		Flags: permission.Flags{
			CanCreate: a.CanCreate,
			CanRead:   a.CanRead,
			CanUpdate: a.CanUpdate,
			CanDelete: a.CanDelete,
		},
		UpdatedAt: a.UpdatedAt,
	}
}

func RuleToDataModel(r *Rule) *roleDatamodel.Access {
	return &roleDatamodel.Access{
		ID:        r.ID,
		RoleID:    r.RoleID,
		Resource:  r.Resource,
		CanCreate: r.CanCreate,
		CanRead:   r.CanRead,
		CanUpdate: r.CanUpdate,
		CanDelete: r.CanDelete,
	}
}
