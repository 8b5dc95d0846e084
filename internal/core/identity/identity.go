// Package identity holds the verified caller resolved from a session token.
package identity

import "time"

// Seeded role names. AdminRole bypasses every permission check and
// CustomerRole is given to self-registered users.
const (
	AdminRole    = "admin"
	StaffRole    = "staff"
	CustomerRole = "customer"
)

// SeedRoles is the fixed role set created on first run.
var SeedRoles = []string{AdminRole, StaffRole, CustomerRole}

// Identity is reconstructed from a verified token on every request and never
// persisted.
type Identity struct {
	UserID    int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	RoleID    int64     `json:"role_id"`
	RoleName  string    `json:"role_name"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (i Identity) IsAdmin() bool {
	return i.RoleName == AdminRole
}

// Owns reports whether the identity is the owner of a row owned by ownerID.
func (i Identity) Owns(ownerID int64) bool {
	return i.UserID == ownerID
}
