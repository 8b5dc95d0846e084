package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/datamodel"
	userDatamodel "github.com/frahmantamala/vehicle-service-shop/internal/core/datamodel/user"
	"github.com/frahmantamala/vehicle-service-shop/internal/user"
	"gorm.io/gorm"
)

// UserRepository is the gorm credential store. Queries go through the model
// so gorm adds the deleted_at IS NULL filter to every one of them.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) withRole(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Select("users.*, roles.name AS role_name").
		Joins("LEFT JOIN roles ON roles.id = users.role_id AND roles.deleted_at IS NULL")
}

func (r *UserRepository) ListActive(ctx context.Context) ([]*user.User, error) {
	var rows []*userDatamodel.UserWithRole
	if err := r.withRole(ctx).Order("users.id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]*user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, user.FromDataModelWithRole(row))
	}
	return users, nil
}

func (r *UserRepository) FindActiveByID(ctx context.Context, id int64) (*user.User, error) {
	return r.takeWithRole(r.withRole(ctx).Where("users.id = ?", id))
}

// FindActiveByUsername is the login lookup, joined with the role name.
func (r *UserRepository) FindActiveByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.takeWithRole(r.withRole(ctx).Where("users.username = ?", username))
}

func (r *UserRepository) takeWithRole(q *gorm.DB) (*user.User, error) {
	var row userDatamodel.UserWithRole
	if err := q.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user.FromDataModelWithRole(&row), nil
}

func (r *UserRepository) FindActiveByUsernameOrEmail(ctx context.Context, username, email string) (*user.User, error) {
	return r.FindActiveConflict(ctx, username, email, 0)
}

// FindActiveConflict returns an active user other than excludeID holding
// either username or email.
func (r *UserRepository) FindActiveConflict(ctx context.Context, username, email string, excludeID int64) (*user.User, error) {
	q := r.db.WithContext(ctx).Where("(username = ? OR email = ?)", username, email)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var m userDatamodel.User
	if err := q.Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find conflicting user: %w", err)
	}
	return user.FromDataModel(&m), nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	m := user.ToDataModel(u)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if datamodel.IsUniqueViolation(err) {
			return internal.ErrDuplicateCredential.WithCause(err)
		}
		return fmt.Errorf("create user: %w", err)
	}

	u.ID = m.ID
	u.CreatedAt = m.CreatedAt
	u.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	res := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"username":   u.Username,
			"email":      u.Email,
			"role_id":    u.RoleID,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		if datamodel.IsUniqueViolation(res.Error) {
			return internal.ErrDuplicateCredential.WithCause(res.Error)
		}
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&userDatamodel.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}
