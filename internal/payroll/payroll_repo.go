package payroll

import (
	"context"
	"database/sql"
	"time"

	"go-gaji/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Payroll) error
	FindAll(ctx context.Context, limit, offset int) ([]Payroll, error)
	CountAll(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (*Payroll, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]Payroll, error)
	HasOverlappingPeriod(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) (bool, error)
	Update(ctx context.Context, p *Payroll) error
	Delete(ctx context.Context, id string) error
	// NextPayrollNumber menaikkan counter nomor slip secara atomik.
	NextPayrollNumber(ctx context.Context) (int64, error)
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

func (r *repository) Create(ctx context.Context, p *Payroll) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindAll(ctx context.Context, limit, offset int) ([]Payroll, error) {
	var rows []Payroll
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Payroll{}).Count(&count).Error
	return count, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).
		Preload("Details").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]Payroll, error) {
	var rows []Payroll
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("period_start DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) HasOverlappingPeriod(
	ctx context.Context,
	employeeID string,
	start, end time.Time,
	excludeID *string,
) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("employee_id = ?", employeeID).
		Where("NOT (period_end < ? OR period_start > ?)", start.Format("2006-01-02"), end.Format("2006-01-02"))

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, p *Payroll) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Select("Details").
		Delete(&Payroll{}, "id = ?", id).Error
}

func (r *repository) NextPayrollNumber(ctx context.Context) (int64, error) {
	var nextValue int64

	// Raw SQL untuk UPSERT + increment atomik agar aman dari race antar worker
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO payroll_counters (counter_type, last_value, updated_at)
		VALUES ('payroll_number', 1, now())
		ON CONFLICT (counter_type) DO UPDATE
		SET last_value = payroll_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}
	return nextValue, nil
}
