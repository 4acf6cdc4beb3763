package holiday

import (
	"context"
	"database/sql"
	"time"

	"go-gaji/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, h *PublicHoliday) error
	FindAllByYear(ctx context.Context, year int) ([]PublicHoliday, error)
	// FindDatesWithin mengembalikan set tanggal libur dalam rentang,
	// dipakai classifier dan aggregator tanpa query per hari.
	FindDatesWithin(ctx context.Context, start, end time.Time) (map[string]bool, error)
	ExistsOnDate(ctx context.Context, date time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, h *PublicHoliday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) FindAllByYear(ctx context.Context, year int) ([]PublicHoliday, error) {
	var rows []PublicHoliday
	err := r.db.WithContext(ctx).
		Where("EXTRACT(YEAR FROM date) = ?", year).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindDatesWithin(ctx context.Context, start, end time.Time) (map[string]bool, error) {
	var rows []PublicHoliday
	err := r.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	dates := make(map[string]bool, len(rows))
	for _, h := range rows {
		dates[h.Date.Format("2006-01-02")] = true
	}
	return dates, nil
}

func (r *repository) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PublicHoliday{}).
		Where("date = ?", date.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&PublicHoliday{}, "id = ?", id).Error
}
