package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/vehicle-service-shop/internal/access"
	roleDatamodel "github.com/frahmantamala/vehicle-service-shop/internal/core/datamodel/role"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ruleKey = []clause.Column{{Name: "role_id"}, {Name: "resource"}}

type AccessRepository struct {
	db *gorm.DB
}

func NewAccessRepository(db *gorm.DB) access.RepositoryAPI {
	return &AccessRepository{db: db}
}

func (r *AccessRepository) ListRoles(ctx context.Context) ([]*access.Role, error) {
	var rows []*roleDatamodel.Role
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	roles := make([]*access.Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, access.RoleFromDataModel(row))
	}
	return roles, nil
}

func (r *AccessRepository) FindRoleByID(ctx context.Context, id int64) (*access.Role, error) {
	return r.takeRole(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *AccessRepository) FindRoleByName(ctx context.Context, name string) (*access.Role, error) {
	return r.takeRole(r.db.WithContext(ctx).Where("name = ?", name))
}

func (r *AccessRepository) takeRole(q *gorm.DB) (*access.Role, error) {
	var row roleDatamodel.Role
	if err := q.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return access.RoleFromDataModel(&row), nil
}

func (r *AccessRepository) EnsureRole(ctx context.Context, name string) (*access.Role, error) {
	row := roleDatamodel.Role{Name: name}
	if err := r.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&row).Error; err != nil {
		return nil, fmt.Errorf("ensure role %s: %w", name, err)
	}
	return access.RoleFromDataModel(&row), nil
}

// GetRule returns nil, nil when the role has no rule for resource.
func (r *AccessRepository) GetRule(ctx context.Context, roleID int64, resource string) (*access.Rule, error) {
	var row roleDatamodel.Access
	err := r.db.WithContext(ctx).
		Where("role_id = ? AND resource = ?", roleID, resource).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get access rule: %w", err)
	}
	return access.RuleFromDataModel(&row), nil
}

func (r *AccessRepository) ListRules(ctx context.Context, roleID int64) ([]*access.Rule, error) {
	var rows []*roleDatamodel.Access
	err := r.db.WithContext(ctx).
		Where("role_id = ?", roleID).
		Order("resource ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list access rules: %w", err)
	}

	rules := make([]*access.Rule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, access.RuleFromDataModel(row))
	}
	return rules, nil
}

// UpsertRule relies on the unique (role_id, resource) index, so two
// concurrent upserts of the same pair leave exactly one row.
func (r *AccessRepository) UpsertRule(ctx context.Context, rule *access.Rule) error {
	row := access.RuleToDataModel(rule)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   ruleKey,
			DoUpdates: clause.AssignmentColumns([]string{"can_create", "can_read", "can_update", "can_delete", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("upsert access rule: %w", err)
	}
	return nil
}

func (r *AccessRepository) InsertRuleIfAbsent(ctx context.Context, rule *access.Rule) (bool, error) {
	row := access.RuleToDataModel(rule)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: ruleKey, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return false, fmt.Errorf("insert access rule: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
