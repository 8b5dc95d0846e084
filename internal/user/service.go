package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/events"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
)

// Repository is the credential store as seen by user administration. Every
// method only ever sees rows that are not soft deleted.
type Repository interface {
	ListActive(ctx context.Context) ([]*User, error)
	FindActiveByID(ctx context.Context, id int64) (*User, error)
	FindActiveConflict(ctx context.Context, username, email string, excludeID int64) (*User, error)
	Update(ctx context.Context, u *User) error
	SoftDelete(ctx context.Context, id int64) error
}

type RoleChecker interface {
	RoleExists(ctx context.Context, roleID int64) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	roles     RoleChecker
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, roles RoleChecker, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		roles:     roles,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}

	s.logger.InfoContext(ctx, "retrieved users", "count", len(users))
	return users, nil
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.FindActiveByID(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, userID int64, dto UpdateUserDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindActiveByID(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if existing == nil {
		return nil, internal.ErrUserNotFound
	}

	conflict, err := s.repo.FindActiveConflict(ctx, dto.Username, dto.Email, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to check user uniqueness", err)
	}
	if conflict != nil {
		return nil, internal.ErrDuplicateCredential
	}

	ok, err := s.roles.RoleExists(ctx, dto.RoleID)
	if err != nil {
		return nil, internal.NewInternalError("failed to check role", err)
	}
	if !ok {
		return nil, internal.ErrRoleNotFound
	}

	existing.Username = dto.Username
	existing.Email = dto.Email
	existing.RoleID = dto.RoleID

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrUserNotFound
		}
		if errors.Is(err, internal.ErrDuplicateCredential) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to update user", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	updated, err := s.repo.FindActiveByID(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to reload user", fmt.Errorf("user %d: %w", userID, err))
	}
	if updated == nil {
		return nil, internal.ErrUserNotFound
	}

	s.logger.InfoContext(ctx, "user updated", "user_id", userID, "role_id", dto.RoleID)
	return updated, nil
}

// DeleteUser sets deleted_at. The username and email become free for reuse.
func (s *Service) DeleteUser(ctx context.Context, actor identity.Identity, userID int64) error {
	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrUserNotFound
		}
		s.logger.ErrorContext(ctx, "failed to delete user", "user_id", userID, "error", err)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.InfoContext(ctx, "user soft deleted", "user_id", userID, "deleted_by", actor.UserID)
	s.publish(ctx, events.NewUserDeletedEvent(userID, actor.UserID))
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
