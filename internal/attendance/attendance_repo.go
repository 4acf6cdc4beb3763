package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-gaji/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, day *AttendanceDay) error
	Update(ctx context.Context, day *AttendanceDay) error
	FindByID(ctx context.Context, id string) (*AttendanceDay, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceDay, error)
	// FindByEmployeeWithin mengembalikan hari absensi satu karyawan dalam
	// rentang periode, urut tanggal naik (urutan yang diharapkan aggregator).
	FindByEmployeeWithin(ctx context.Context, employeeID string, start, end time.Time) ([]AttendanceDay, error)
	FindAllByDate(ctx context.Context, date time.Time, limit, offset int) ([]AttendanceDay, error)
	CountByDate(ctx context.Context, date time.Time) (int64, error)
	// FinalizeWithin mengunci semua hari satu karyawan dalam periode
	// setelah payroll periode itu digenerate.
	FinalizeWithin(ctx context.Context, employeeID string, start, end time.Time) error
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

func (r *repository) Create(ctx context.Context, day *AttendanceDay) error {
	return r.db.WithContext(ctx).Create(day).Error
}

func (r *repository) Update(ctx context.Context, day *AttendanceDay) error {
	return r.db.WithContext(ctx).Save(day).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*AttendanceDay, error) {
	var day AttendanceDay
	err := r.db.WithContext(ctx).First(&day, "id = ?", id).Error
	return &day, err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceDay, error) {
	var day AttendanceDay
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date = ?", date.Format("2006-01-02")).
		First(&day).Error
	return &day, err
}

func (r *repository) FindByEmployeeWithin(ctx context.Context, employeeID string, start, end time.Time) ([]AttendanceDay, error) {
	var rows []AttendanceDay
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByDate(ctx context.Context, date time.Time, limit, offset int) ([]AttendanceDay, error) {
	var rows []AttendanceDay
	err := r.db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		Order("employee_id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AttendanceDay{}).
		Where("date = ?", date.Format("2006-01-02")).
		Count(&count).Error
	return count, err
}

func (r *repository) FinalizeWithin(ctx context.Context, employeeID string, start, end time.Time) error {
	return r.db.WithContext(ctx).
		Model(&AttendanceDay{}).
		Where("employee_id = ?", employeeID).
		Where("date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Update("finalized", true).Error
}
