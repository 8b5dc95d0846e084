package user

import (
	"strings"

	"github.com/frahmantamala/vehicle-service-shop/internal/core/common/validation"
)

type UpdateUserDTO struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	RoleID   int64  `json:"role_id" validate:"required,gt=0"`
}

// Normalize trims every string field. Call it before Validate.
func (d *UpdateUserDTO) Normalize() {
	d.Username = strings.TrimSpace(d.Username)
	d.Email = strings.TrimSpace(d.Email)
}

func (d UpdateUserDTO) Validate() error {
	return validation.Struct(d)
}

type UsersResponse struct {
	Users []*User `json:"users"`
}
