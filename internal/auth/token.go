package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
	"github.com/golang-jwt/jwt/v5"
)

var ErrEmptySecret = errors.New("auth: signing secret must not be empty")

// TokenService signs session tokens with HS256. The secret is fixed at
// construction; HMAC comparison inside jwt is constant time.
type TokenService struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	s := &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s, nil
}

// Issue signs payload with an expiry exactly ttl after issuance. The returned
// identity carries the timestamps as encoded, truncated to whole seconds.
func (s *TokenService) Issue(payload identity.Identity, ttl time.Duration) (string, identity.Identity, error) {
	if ttl <= 0 {
		return "", identity.Identity{}, fmt.Errorf("auth: ttl must be positive, got %s", ttl)
	}

	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(ttl)

	claims := &Claims{
		UserID:   payload.UserID,
		Username: payload.Username,
		Email:    payload.Email,
		RoleID:   payload.RoleID,
		RoleName: payload.RoleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(payload.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", identity.Identity{}, fmt.Errorf("auth: sign token: %w", err)
	}

	payload.IssuedAt = issuedAt
	payload.ExpiresAt = expiresAt
	return token, payload, nil
}

// Verify fails with ErrInvalidCredential on a bad signature, a malformed
// token, or when the current time is at or after the expiry.
func (s *TokenService) Verify(token string) (identity.Identity, error) {
	claims := &Claims{}
	parsed, err := s.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return identity.Identity{}, internal.ErrInvalidCredential.WithCause(err)
	}
	if !parsed.Valid {
		return identity.Identity{}, internal.ErrInvalidCredential
	}

	return identity.Identity{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Email:     claims.Email,
		RoleID:    claims.RoleID,
		RoleName:  claims.RoleName,
		IssuedAt:  numericTime(claims.IssuedAt),
		ExpiresAt: numericTime(claims.ExpiresAt),
	}, nil
}

func numericTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time.UTC()
}

// IsExpired reports whether a verification failure was caused by expiry.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
