package paypolicy

import (
	"context"
	"database/sql"

	"go-gaji/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=pay_policy_repo.go -destination=mock/pay_policy_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, v *PayPolicyVersion) error
	FindByID(ctx context.Context, id string) (*PayPolicyVersion, error)
	FindActive(ctx context.Context) (*PayPolicyVersion, error)
	FindAll(ctx context.Context, limit, offset int) ([]PayPolicyVersion, error)
	CountAll(ctx context.Context) (int64, error)
	DeactivateAll(ctx context.Context) error
	SetActive(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, v *PayPolicyVersion) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*PayPolicyVersion, error) {
	var v PayPolicyVersion
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	return &v, err
}

func (r *repository) FindActive(ctx context.Context) (*PayPolicyVersion, error) {
	var v PayPolicyVersion
	err := r.db.WithContext(ctx).First(&v, "is_active = true").Error
	return &v, err
}

func (r *repository) FindAll(ctx context.Context, limit, offset int) ([]PayPolicyVersion, error) {
	var rows []PayPolicyVersion
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&PayPolicyVersion{}).Count(&count).Error
	return count, err
}

func (r *repository) DeactivateAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&PayPolicyVersion{}).
		Where("is_active = true").
		Update("is_active", false).Error
}

func (r *repository) SetActive(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&PayPolicyVersion{}).
		Where("id = ?", id).
		Update("is_active", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
