package auth

import (
	"strings"

	"github.com/frahmantamala/vehicle-service-shop/internal/core/common/validation"
)

type RegisterDTO struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=3"`
}

// Normalize trims username and email. Passwords are used exactly as sent.
func (d *RegisterDTO) Normalize() {
	d.Username = strings.TrimSpace(d.Username)
	d.Email = strings.TrimSpace(d.Email)
}

func (d RegisterDTO) Validate() error {
	return validation.Struct(d)
}

type LoginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (d *LoginDTO) Normalize() {
	d.Username = strings.TrimSpace(d.Username)
}

func (d LoginDTO) Validate() error {
	return validation.Struct(d)
}

type LoginResponse struct {
	Message string `json:"message"`
	Session
}
