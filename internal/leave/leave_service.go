package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leaveerrors "go-gaji/internal/leave/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, id string) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	createdBy, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	leaveType := LeaveType(req.LeaveType)
	if leaveType != TypeIzin && leaveType != TypeCuti {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, req.EmployeeID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("employee_id", req.EmployeeID),
			zap.String("start_date", req.StartDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	l := &Leave{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     StatusPending,
		CreatedBy:  createdBy,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	return s.decide(ctx, actorID, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	return s.decide(ctx, actorID, id, StatusRejected)
}

func (s *service) decide(ctx context.Context, actorID, id, status string) (LeaveResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	approverID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	now := time.Now().UTC()
	l.Status = status
	l.ApprovedBy = &approverID
	l.ApprovedAt = &now

	if err := qtx.Update(ctx, l); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave decided",
		zap.String("leave_id", id),
		zap.String("status", status),
		zap.String("actor_id", actorID),
	)
	return mapToResponse(*l), nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  string(l.LeaveType),
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		TotalDays:  l.TotalDays,
		Reason:     l.Reason,
		Status:     l.Status,
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	res := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		res[i] = mapToResponse(l)
	}
	return res
}
