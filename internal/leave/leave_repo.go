package leave

import (
	"context"
	"database/sql"
	"time"

	"go-gaji/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAll(ctx context.Context) ([]Leave, error)
	FindByID(ctx context.Context, id string) (*Leave, error)
	Update(ctx context.Context, l *Leave) error
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeLeaveID *string) (bool, error)
	// FindApprovedByEmployeeAndDate mencari otorisasi izin/cuti yang sudah
	// disetujui dan mencakup tanggal tertentu (dipakai classifier absensi).
	FindApprovedByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Leave, error)
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

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Leave, error) {
	var rows []Leave
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) HasOverlappingPeriod(
	ctx context.Context,
	employeeID string,
	startDate, endDate time.Time,
	excludeLeaveID *string,
) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", StatusRejected).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeLeaveID != nil && *excludeLeaveID != "" {
		db = db.Where("id <> ?", *excludeLeaveID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) FindApprovedByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", date.Format("2006-01-02"), date.Format("2006-01-02")).
		First(&l).Error
	return &l, err
}
