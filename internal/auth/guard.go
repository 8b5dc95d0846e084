package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/permission"
	"github.com/frahmantamala/vehicle-service-shop/internal/observability"
)

// Guard makes the coarse-grained decision of whether an identity may perform
// an action on a resource.
type Guard struct {
	rules  RuleReader
	logger *slog.Logger
}

func NewGuard(rules RuleReader, logger *slog.Logger) *Guard {
	return &Guard{rules: rules, logger: logger}
}

// Authorize returns nil to allow. Admins are allowed before anything else is
// looked at. Otherwise an unrecognized action yields ErrInvalidAction without
// touching the matrix, and a missing rule or false flag yields ErrAccessDenied.
func (g *Guard) Authorize(ctx context.Context, id identity.Identity, resource permission.Resource, action permission.Action) error {
	if id.IsAdmin() {
		observability.RecordDecision(resource.String(), action.String(), observability.DecisionAdminBypass)
		return nil
	}

	if !action.Valid() {
		observability.RecordDecision(resource.String(), action.String(), observability.DecisionInvalidAction)
		g.logger.ErrorContext(ctx, "authorization requested for unrecognized action",
			"resource", resource, "action", action)
		return internal.ErrInvalidAction
	}

	if !resource.Known() {
		g.logger.WarnContext(ctx, "authorization requested for unknown resource tag",
			"resource", resource, "action", action)
	}

	flags, found, err := g.rules.GetAccessRule(ctx, id.RoleID, resource)
	if err != nil {
		g.logger.ErrorContext(ctx, "failed to load access rule",
			"role_id", id.RoleID, "resource", resource, "error", err)
		return internal.NewInternalError("failed to load access rule", err)
	}

	if !found || !flags.Allows(action) {
		observability.RecordDecision(resource.String(), action.String(), observability.DecisionDeny)
		g.logger.WarnContext(ctx, "access denied",
			"user_id", id.UserID,
			"role", id.RoleName,
			"resource", resource,
			"action", action,
			"rule_found", found)
		return internal.ErrAccessDenied
	}

	observability.RecordDecision(resource.String(), action.String(), observability.DecisionAllow)
	return nil
}

// Allowed is Authorize as a boolean. Only ErrAccessDenied maps to false;
// InvalidAction and lookup failures are still returned as errors.
func (g *Guard) Allowed(ctx context.Context, id identity.Identity, resource permission.Resource, action permission.Action) (bool, error) {
	err := g.Authorize(ctx, id, resource, action)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, internal.ErrAccessDenied) {
		return false, nil
	}
	return false, err
}

// CheckOwnershipOrAdmin is the row-level check applied after Authorize for
// object-scoped operations.
func CheckOwnershipOrAdmin(id identity.Identity, ownerID int64) bool {
	return id.IsAdmin() || id.Owns(ownerID)
}

// RequireOwnershipOrAdmin reports a failed ownership check the same way as a
// missing row.
func RequireOwnershipOrAdmin(id identity.Identity, ownerID int64) error {
	if !CheckOwnershipOrAdmin(id, ownerID) {
		return internal.ErrNotFoundOrDenied
	}
	return nil
}
