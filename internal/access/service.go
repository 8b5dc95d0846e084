package access

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/events"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/permission"
)

type RepositoryAPI interface {
	ListRoles(ctx context.Context) ([]*Role, error)
	FindRoleByID(ctx context.Context, id int64) (*Role, error)
	FindRoleByName(ctx context.Context, name string) (*Role, error)
	EnsureRole(ctx context.Context, name string) (*Role, error)

	GetRule(ctx context.Context, roleID int64, resource string) (*Rule, error)
	ListRules(ctx context.Context, roleID int64) ([]*Rule, error)
	UpsertRule(ctx context.Context, rule *Rule) error
	InsertRuleIfAbsent(ctx context.Context, rule *Rule) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// GetAccessRule is the matrix lookup used by the authorization guard.
func (s *Service) GetAccessRule(ctx context.Context, roleID int64, resource permission.Resource) (permission.Flags, bool, error) {
	rule, err := s.repo.GetRule(ctx, roleID, resource.String())
	if err != nil {
		return permission.Flags{}, false, err
	}
	if rule == nil {
		return permission.Flags{}, false, nil
	}
	return rule.Flags, true, nil
}

func (s *Service) ListRoles(ctx context.Context) ([]*Role, error) {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list roles", "error", err)
		return nil, internal.NewInternalError("failed to list roles", err)
	}
	return roles, nil
}

func (s *Service) RoleIDByName(ctx context.Context, name string) (int64, error) {
	role, err := s.repo.FindRoleByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("find role %q: %w", name, err)
	}
	if role == nil {
		return 0, internal.ErrRoleNotFound
	}
	return role.ID, nil
}

func (s *Service) RoleExists(ctx context.Context, roleID int64) (bool, error) {
	role, err := s.repo.FindRoleByID(ctx, roleID)
	if err != nil {
		return false, fmt.Errorf("find role %d: %w", roleID, err)
	}
	return role != nil, nil
}

func (s *Service) ListRules(ctx context.Context, roleID int64) ([]*Rule, error) {
	ok, err := s.RoleExists(ctx, roleID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load role", err)
	}
	if !ok {
		return nil, internal.ErrRoleNotFound
	}

	rules, err := s.repo.ListRules(ctx, roleID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list access rules", "role_id", roleID, "error", err)
		return nil, internal.NewInternalError("failed to list access rules", err)
	}
	return rules, nil
}

// UpsertRule overwrites the four flags of (role, resource), inserting the rule
// when it does not exist yet. It is the only way the matrix changes.
func (s *Service) UpsertRule(ctx context.Context, actor identity.Identity, dto UpsertRuleDTO) (*Rule, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.RoleExists(ctx, dto.RoleID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load role", err)
	}
	if !ok {
		return nil, internal.ErrRoleNotFound
	}

	if !permission.Resource(dto.Resource).Known() {
		s.logger.WarnContext(ctx, "storing access rule for unknown resource tag",
			"role_id", dto.RoleID, "resource", dto.Resource)
	}

	rule := &Rule{RoleID: dto.RoleID, Resource: dto.Resource, Flags: dto.Flags()}
	if err := s.repo.UpsertRule(ctx, rule); err != nil {
		s.logger.ErrorContext(ctx, "failed to upsert access rule",
			"role_id", dto.RoleID, "resource", dto.Resource, "error", err)
		return nil, internal.NewInternalError("failed to update access", err)
	}

	stored, err := s.repo.GetRule(ctx, dto.RoleID, dto.Resource)
	if err != nil {
		return nil, internal.NewInternalError("failed to reload access rule", err)
	}
	if stored == nil {
		stored = rule
	}

	s.logger.InfoContext(ctx, "access rule updated",
		"role_id", stored.RoleID,
		"resource", stored.Resource,
		"updated_by", actor.UserID)
	s.publish(ctx, events.NewAccessUpdatedEvent(stored.RoleID, stored.Resource,
		stored.CanCreate, stored.CanRead, stored.CanUpdate, stored.CanDelete, actor.UserID))
	return stored, nil
}

// SeedDefaults creates the fixed roles, an all-true vehicle rule for
// customers and an all-true rule on every known resource for admins. Existing
// rules are left alone so later revocations survive a restart.
func (s *Service) SeedDefaults(ctx context.Context) error {
	roles := make(map[string]*Role, len(identity.SeedRoles))
	for _, name := range identity.SeedRoles {
		role, err := s.repo.EnsureRole(ctx, name)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
		roles[name] = role
	}

	seeds := []*Rule{{
		RoleID:   roles[identity.CustomerRole].ID,
		Resource: permission.ResourceVehicle.String(),
		Flags:    permission.AllFlags(),
	}}
	for _, resource := range permission.KnownResources {
		seeds = append(seeds, &Rule{
			RoleID:   roles[identity.AdminRole].ID,
			Resource: resource.String(),
			Flags:    permission.AllFlags(),
		})
	}

	inserted := 0
	for _, rule := range seeds {
		created, err := s.repo.InsertRuleIfAbsent(ctx, rule)
		if err != nil {
			return fmt.Errorf("seed access rule %d/%s: %w", rule.RoleID, rule.Resource, err)
		}
		if created {
			inserted++
		}
	}

	s.logger.InfoContext(ctx, "access matrix seeded", "roles", len(roles), "rules_inserted", inserted)
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
