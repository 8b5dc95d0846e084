package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/vehicle-service-shop/internal/core/events"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/permission"
	"github.com/frahmantamala/vehicle-service-shop/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the fixed lifetime of every session token.
const SessionTTL = 8 * time.Hour

// Claims is the JWT body of a session token.
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	RoleID   int64  `json:"role_id"`
	RoleName string `json:"role_name"`
	jwt.RegisteredClaims
}

// Session is what a successful login or registration hands back.
type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *user.User `json:"user"`
}

// TokenIssuer issues and verifies session tokens.
type TokenIssuer interface {
	Issue(payload identity.Identity, ttl time.Duration) (string, identity.Identity, error)
	Verify(token string) (identity.Identity, error)
}

// CredentialStore is the persisted side of registration and login.
type CredentialStore interface {
	FindActiveByUsernameOrEmail(ctx context.Context, username, email string) (*user.User, error)
	FindActiveByUsername(ctx context.Context, username string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
}

// RoleResolver maps a role name to its id.
type RoleResolver interface {
	RoleIDByName(ctx context.Context, name string) (int64, error)
}

// RuleReader returns the access rule of a (role, resource) pair. found is
// false when no rule exists.
type RuleReader interface {
	GetAccessRule(ctx context.Context, roleID int64, resource permission.Resource) (flags permission.Flags, found bool, err error)
}

// EventPublisher receives audit events. A nil publisher disables them.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}
