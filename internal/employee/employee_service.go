package employee

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const EmployeeOptionsKey = "employees:options"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeOption, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	empls, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(empls), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, err
	}
	return mapToResponse(*empl), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeOption, error) {
	// 1. Cek Redis
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeOptionsKey).Result(); err == nil {
			var opts []EmployeeOption
			if json.Unmarshal([]byte(cached), &opts) == nil {
				return opts, nil
			}
		}
	}

	// 2. Singleflight agar cache miss serentak hanya memukul DB sekali
	v, err, _ := s.sf.Do(EmployeeOptionsKey, func() (any, error) {
		empls, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		opts := make([]EmployeeOption, len(empls))
		for i, e := range empls {
			opts[i] = EmployeeOption{
				ID:             e.ID.String(),
				EmployeeNumber: e.EmployeeNumber,
				FullName:       e.FullName,
			}
		}

		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(opts); marshalErr == nil {
				_ = s.rdb.Set(ctx, EmployeeOptionsKey, payload, 10*time.Minute).Err()
			}
		}
		return opts, nil
	})
	if err != nil {
		s.logger.Error("get employee options failed", zap.Error(err))
		return nil, err
	}

	return v.([]EmployeeOption), nil
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID.String(),
		EmployeeNumber: e.EmployeeNumber,
		FullName:       e.FullName,
		RoleKaryawan:   string(e.RoleKaryawan),
		JamKerjaMasuk:  e.JamKerjaMasuk,
		JamKerjaPulang: e.JamKerjaPulang,
		SalaryCategory: string(e.SalaryCategory),
		MonthlySalary:  e.MonthlySalary,
		DailyRate:      e.DailyRate,
		HireDate:       e.HireDate.Format("2006-01-02"),
	}
	if e.TerminationDate != nil {
		v := e.TerminationDate.Format("2006-01-02")
		resp.TerminationDate = &v
	}
	return resp
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
