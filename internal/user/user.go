package user

import (
	"errors"
	"time"

	userDatamodel "github.com/frahmantamala/vehicle-service-shop/internal/core/datamodel/user"
)

type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	RoleID       int64      `json:"role_id"`
	RoleName     string     `json:"role_name,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

var ErrNotFound = errors.New("user not found")

func ToDataModel(u *User) *userDatamodel.User {
	m := &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		RoleID:       u.RoleID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.DeletedAt != nil {
		m.DeletedAt.Time = *u.DeletedAt
		m.DeletedAt.Valid = true
	}
	return m
}

func FromDataModel(u *userDatamodel.User) *User {
	domainUser := &User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		RoleID:       u.RoleID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.DeletedAt.Valid {
		deletedAt := u.DeletedAt.Time
		domainUser.DeletedAt = &deletedAt
	}
	return domainUser
}

func FromDataModelWithRole(u *userDatamodel.UserWithRole) *User {
	domainUser := FromDataModel(&u.User)
	domainUser.RoleName = u.RoleName
	return domainUser
}
