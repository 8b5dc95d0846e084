package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/events"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
	"github.com/frahmantamala/vehicle-service-shop/internal/user"
	"golang.org/x/crypto/bcrypt"
)

// Service runs registration and login.
type Service struct {
	store      CredentialStore
	roles      RoleResolver
	tokens     TokenIssuer
	publisher  EventPublisher
	logger     *slog.Logger
	bcryptCost int

	// dummyHash is compared against when the username is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

func NewService(store CredentialStore, roles RoleResolver, tokens TokenIssuer, publisher EventPublisher, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("vehicle-shop-login-placeholder"), bcryptCost)
	if err != nil {
		logger.Error("failed to prepare placeholder hash", "error", err)
	}
	return &Service{
		store:      store,
		roles:      roles,
		tokens:     tokens,
		publisher:  publisher,
		logger:     logger,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}
}

// Register creates a customer account and signs it in.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*Session, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.store.FindActiveByUsernameOrEmail(ctx, dto.Username, dto.Email)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to check existing credentials", "error", err)
		return nil, internal.NewInternalError("failed to register user", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateCredential
	}

	roleID, err := s.roles.RoleIDByName(ctx, identity.CustomerRole)
	if err != nil {
		s.logger.ErrorContext(ctx, "customer role is not seeded", "error", err)
		return nil, internal.NewInternalError("failed to register user", err)
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to register user", err)
	}

	u := &user.User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: hash,
		RoleID:       roleID,
		RoleName:     identity.CustomerRole,
	}
	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, internal.ErrDuplicateCredential) {
			return nil, internal.ErrDuplicateCredential
		}
		s.logger.ErrorContext(ctx, "failed to create user", "username", u.Username, "error", err)
		return nil, internal.NewInternalError("failed to register user", err)
	}

	session, err := s.IssueSessionToken(u)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID, "username", u.Username)
	s.publish(ctx, events.NewUserRegisteredEvent(u.ID, u.Username, u.RoleID))
	return session, nil
}

// Login never tells an unknown username apart from a wrong password.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*Session, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.store.FindActiveByUsername(ctx, dto.Username)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load user for login", "error", err)
		return nil, internal.NewInternalError("failed to login", err)
	}

	if u == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(dto.Password))
		return nil, s.loginFailed(ctx, dto.Username)
	}

	if err := VerifyPassword(u.PasswordHash, dto.Password); err != nil {
		return nil, s.loginFailed(ctx, dto.Username)
	}

	session, err := s.IssueSessionToken(u)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", u.ID)
	s.publish(ctx, events.NewUserLoggedInEvent(u.ID, u.Username))
	return session, nil
}

func (s *Service) loginFailed(ctx context.Context, username string) error {
	s.logger.WarnContext(ctx, "login failed", "username", username)
	s.publish(ctx, events.NewUserLoginFailedEvent(username))
	return internal.ErrInvalidLogin
}

// IssueSessionToken is the only token entrypoint, used by login and
// registration.
func (s *Service) IssueSessionToken(u *user.User) (*Session, error) {
	token, issued, err := s.tokens.Issue(identity.Identity{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		RoleID:   u.RoleID,
		RoleName: u.RoleName,
	}, SessionTTL)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	return &Session{
		Token:     token,
		ExpiresAt: issued.ExpiresAt,
		User:      u,
	}, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash.
func VerifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
