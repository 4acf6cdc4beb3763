package holiday

import (
	"context"
	"database/sql"
	"time"

	"go-gaji/internal/shared/apperror"

	"github.com/google/uuid"
)

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	GetAllByYear(ctx context.Context, year int) ([]HolidayResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HolidayResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return HolidayResponse{}, apperror.New(apperror.CodeInvalidInput, "invalid date format, expected YYYY-MM-DD", 400)
	}

	h := &PublicHoliday{
		ID:   uuid.New(),
		Date: date,
		Name: req.Name,
	}

	if err := qtx.Create(ctx, h); err != nil {
		return HolidayResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return HolidayResponse{}, err
	}

	return mapToResponse(*h), nil
}

func (s *service) GetAllByYear(ctx context.Context, year int) ([]HolidayResponse, error) {
	rows, err := s.repo.FindAllByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	res := make([]HolidayResponse, len(rows))
	for i, h := range rows {
		res[i] = mapToResponse(h)
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		return err
	}

	return tx.Commit()
}

func mapToResponse(h PublicHoliday) HolidayResponse {
	return HolidayResponse{
		ID:   h.ID.String(),
		Date: h.Date.Format("2006-01-02"),
		Name: h.Name,
	}
}
