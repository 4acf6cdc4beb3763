package employee

import (
	"context"
	"database/sql"
	"time"

	"go-gaji/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	// FindAllEmployedWithin mengembalikan karyawan yang masa kerjanya
	// beririsan dengan rentang tanggal (untuk batch run payroll).
	FindAllEmployedWithin(ctx context.Context, periodStart, periodEnd time.Time) ([]Employee, error)
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

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Order("employee_number ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) FindAllEmployedWithin(ctx context.Context, periodStart, periodEnd time.Time) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Where("hire_date <= ?", periodEnd.Format("2006-01-02")).
		Where("termination_date IS NULL OR termination_date >= ?", periodStart.Format("2006-01-02")).
		Order("employee_number ASC").
		Find(&empls).Error
	return empls, err
}
