package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-gaji/internal/attendance"
	"go-gaji/internal/employee"
	"go-gaji/internal/events"
	"go-gaji/internal/holiday"
	"go-gaji/internal/messaging/kafka"
	"go-gaji/internal/paypolicy"
	payrollerrors "go-gaji/internal/payroll/errors"
	"go-gaji/internal/shared/apperror"
	"go-gaji/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultBatchWorkers = 4

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	// GeneratePeriod menjalankan pipeline penuh untuk satu karyawan:
	// klasifikasi tersimpan -> kalkulasi harian -> agregasi -> slip.
	GeneratePeriod(ctx context.Context, req GeneratePayrollRequest) (PayrollResponse, error)
	// RunBatch memproses banyak karyawan paralel dengan satu snapshot policy.
	RunBatch(ctx context.Context, req BatchGenerateRequest) (BatchResultResponse, error)
	GetAll(ctx context.Context, page, pageSize int) ([]PayrollResponse, int64, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	GetBreakdown(ctx context.Context, id string) (PayrollResponse, []attendance.AttendanceDay, error)
	MarkAsPaid(ctx context.Context, id string) (PayrollResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db             *sql.DB
	repo           Repository
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
	holidayRepo    holiday.Repository
	policies       paypolicy.Service
	outbox         kafka.OutboxRepository
	logger         *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	holidayRepo holiday.Repository,
	policies paypolicy.Service,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:             db,
		repo:           repo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		holidayRepo:    holidayRepo,
		policies:       policies,
		outbox:         outbox,
		logger:         l,
	}
}

func (s *service) GeneratePeriod(ctx context.Context, req GeneratePayrollRequest) (PayrollResponse, error) {
	periodType := PeriodType(req.PeriodType)
	if !periodType.Valid() {
		return PayrollResponse{}, apperror.InvalidField("period_type")
	}
	start, end, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return PayrollResponse{}, err
	}

	exclusions, err := parseExclusions(req.Exclusions)
	if err != nil {
		return PayrollResponse{}, err
	}

	emp, err := s.employeeRepo.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, apperror.ErrNotFound
		}
		return PayrollResponse{}, err
	}

	// Snapshot policy sebelum ada penulisan apa pun: tanpa policy aktif
	// tidak ada satu record pun yang tersentuh.
	policy, err := s.policies.ActiveSnapshot(ctx)
	if err != nil {
		return PayrollResponse{}, err
	}

	holidays, err := s.holidayRepo.FindDatesWithin(ctx, start, end)
	if err != nil {
		return PayrollResponse{}, err
	}

	deductions := make([]DeductionEntry, len(req.Deductions))
	for i, d := range req.Deductions {
		deductions[i] = DeductionEntry{Label: d.Label, Amount: d.Amount}
	}

	p, genErr := s.generateForEmployee(ctx, *emp, policy, periodType, start, end, req.PieceRateEarning, deductions, exclusions, holidays)
	if genErr != nil && !errors.Is(genErr, payrollerrors.ErrNegativeNetPay) {
		return PayrollResponse{}, genErr
	}

	resp := mapToResponse(p, true)
	// Net pay negatif: record sudah tersimpan untuk ditinjau, error tetap
	// disurface ke caller.
	return resp, genErr
}

// generateForEmployee mengeksekusi pipeline satu karyawan dalam satu
// transaksi. Kegagalan satu karyawan tidak menyentuh karyawan lain.
func (s *service) generateForEmployee(
	ctx context.Context,
	emp employee.Employee,
	policy paypolicy.PayPolicyVersion,
	periodType PeriodType,
	start, end time.Time,
	pieceRateEarning int64,
	deductions []DeductionEntry,
	exclusions []DateRange,
	holidays map[string]bool,
) (Payroll, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Payroll{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qAttendance := s.attendanceRepo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, emp.ID.String(), start, end, nil)
	if err != nil {
		return Payroll{}, err
	}
	if overlap {
		return Payroll{}, payrollerrors.ErrPeriodOverlap
	}

	stored, err := qAttendance.FindByEmployeeWithin(ctx, emp.ID.String(), start, end)
	if err != nil {
		return Payroll{}, err
	}

	days := SynthesizeGaps(stored, emp.ID, start, end, holidays, exclusions)
	MarkStreaks(days)

	for i := range days {
		pay := CalcDailyPay(days[i], emp.RoleKaryawan, policy)
		days[i].OvertimePay = pay.OvertimePay
		days[i].MealAllowance = pay.MealAllowance
		days[i].Premium = pay.Premium
		days[i].TotalSupplementalPay = pay.Total
	}

	totals := AggregatePeriod(days, start, end, holidays)

	p, slipErr := BuildSlip(emp, periodType, start, end, totals, pieceRateEarning, deductions)
	if slipErr != nil && !errors.Is(slipErr, payrollerrors.ErrNegativeNetPay) {
		return Payroll{}, slipErr
	}

	seq, err := qtx.NextPayrollNumber(ctx)
	if err != nil {
		return Payroll{}, err
	}
	p.PayrollNumber = fmt.Sprintf("PAY-%06d", seq)

	for i := range days {
		if days[i].CreatedAt.IsZero() {
			err = qAttendance.Create(ctx, &days[i])
		} else {
			err = qAttendance.Update(ctx, &days[i])
		}
		if err != nil {
			return Payroll{}, err
		}
	}
	if err := qAttendance.FinalizeWithin(ctx, emp.ID.String(), start, end); err != nil {
		return Payroll{}, err
	}

	if err := qtx.Create(ctx, &p); err != nil {
		return Payroll{}, err
	}

	if s.outbox != nil {
		event := events.PayrollGeneratedEvent{
			EventType:   "payroll_generated",
			RequestID:   rid,
			PayrollID:   p.ID.String(),
			EmployeeID:  emp.ID.String(),
			PeriodStart: start.Format("2006-01-02"),
			PeriodEnd:   end.Format("2006-01-02"),
			NetPay:      p.NetPay,
			NeedsReview: p.Status == StatusNeedsReview,
			OccurredAt:  time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return Payroll{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "payroll",
			AggregateID:   p.ID.String(),
			EventType:     event.EventType,
			Topic:         events.PayrollGeneratedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			return Payroll{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Payroll{}, err
	}

	s.logger.Info("payroll generated",
		zap.String("request_id", rid),
		zap.String("payroll_id", p.ID.String()),
		zap.String("employee_id", emp.ID.String()),
		zap.String("payroll_number", p.PayrollNumber),
		zap.Int64("net_pay", p.NetPay),
	)
	if errors.Is(slipErr, payrollerrors.ErrNegativeNetPay) {
		s.logger.Warn("payroll net pay negative, flagged for review",
			zap.String("payroll_id", p.ID.String()),
			zap.Int64("net_pay", p.NetPay),
		)
	}

	return p, slipErr
}

type batchOutcome struct {
	employeeID  string
	needsReview bool
	err         error
}

func (s *service) RunBatch(ctx context.Context, req BatchGenerateRequest) (BatchResultResponse, error) {
	periodType := PeriodType(req.PeriodType)
	if !periodType.Valid() {
		return BatchResultResponse{}, apperror.InvalidField("period_type")
	}
	start, end, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return BatchResultResponse{}, err
	}

	workers := req.Workers
	if workers < 1 {
		workers = defaultBatchWorkers
	}

	// Snapshot policy sekali untuk seluruh batch; aktivasi versi baru di
	// tengah run tidak mengubah tarif karyawan yang sedang diproses.
	policy, err := s.policies.ActiveSnapshot(ctx)
	if err != nil {
		return BatchResultResponse{}, err
	}
	holidays, err := s.holidayRepo.FindDatesWithin(ctx, start, end)
	if err != nil {
		return BatchResultResponse{}, err
	}
	employees, err := s.employeeRepo.FindAllEmployedWithin(ctx, start, end)
	if err != nil {
		return BatchResultResponse{}, err
	}

	jobs := make(chan employee.Employee)
	outcomes := make(chan batchOutcome, len(employees))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for emp := range jobs {
				_, genErr := s.generateForEmployee(ctx, emp, policy, periodType, start, end, 0, nil, nil, holidays)
				outcomes <- batchOutcome{
					employeeID:  emp.ID.String(),
					needsReview: errors.Is(genErr, payrollerrors.ErrNegativeNetPay),
					err:         genErr,
				}
			}
		}()
	}

	cancelled := false
feed:
	for _, emp := range employees {
		select {
		case <-ctx.Done():
			// Batal antar-karyawan: hasil yang sudah selesai tetap sah.
			cancelled = true
			break feed
		case jobs <- emp:
		}
	}
	close(jobs)
	wg.Wait()
	close(outcomes)

	res := BatchResultResponse{TotalEmployees: len(employees), Cancelled: cancelled}
	for o := range outcomes {
		switch {
		case o.err == nil:
			res.Generated++
		case o.needsReview:
			res.Generated++
			res.NeedsReview++
		default:
			res.Failed++
			res.FailedIDs = append(res.FailedIDs, o.employeeID)
			s.logger.Warn("batch payroll employee failed",
				zap.String("employee_id", o.employeeID),
				zap.Error(o.err),
			)
		}
	}

	s.logger.Info("batch payroll run finished",
		zap.Int("total", res.TotalEmployees),
		zap.Int("generated", res.Generated),
		zap.Int("needs_review", res.NeedsReview),
		zap.Int("failed", res.Failed),
		zap.Bool("cancelled", res.Cancelled),
	)
	return res, nil
}

func (s *service) GetAll(ctx context.Context, page, pageSize int) ([]PayrollResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.repo.FindAll(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}

	res := make([]PayrollResponse, len(rows))
	for i, p := range rows {
		res[i] = mapToResponse(p, false)
	}
	return res, total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayrollResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}
	return mapToResponse(*p, true), nil
}

func (s *service) GetBreakdown(ctx context.Context, id string) (PayrollResponse, []attendance.AttendanceDay, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, nil, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, nil, err
	}

	days, err := s.attendanceRepo.FindByEmployeeWithin(ctx, p.EmployeeID.String(), p.PeriodStart, p.PeriodEnd)
	if err != nil {
		return PayrollResponse{}, nil, err
	}
	return mapToResponse(*p, true), days, nil
}

func (s *service) MarkAsPaid(ctx context.Context, id string) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}
	if p.Status == StatusPaid {
		return PayrollResponse{}, payrollerrors.ErrPayrollAlreadyPaid
	}

	now := time.Now().UTC()
	p.PaidAt = &now
	p.Status = StatusPaid
	if err := qtx.Update(ctx, p); err != nil {
		return PayrollResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll marked as paid", zap.String("payroll_id", id))
	return mapToResponse(*p, true), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payrollerrors.ErrPayrollNotFound
		}
		return err
	}
	if p.Status == StatusPaid {
		return payrollerrors.ErrPayrollAlreadyPaid
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func parsePeriod(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.InvalidField("period_start")
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.InvalidField("period_end")
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, apperror.InvalidField("period_start")
	}
	return start, end, nil
}

func parseExclusions(reqs []ExclusionRequest) ([]DateRange, error) {
	out := make([]DateRange, len(reqs))
	for i, r := range reqs {
		start, err := time.Parse("2006-01-02", r.StartDate)
		if err != nil {
			return nil, apperror.InvalidField("exclusions.start_date")
		}
		end, err := time.Parse("2006-01-02", r.EndDate)
		if err != nil {
			return nil, apperror.InvalidField("exclusions.end_date")
		}
		out[i] = DateRange{Start: start, End: end}
	}
	return out, nil
}

func mapToResponse(p Payroll, withDetails bool) PayrollResponse {
	resp := PayrollResponse{
		ID:            p.ID.String(),
		PayrollNumber: p.PayrollNumber,
		EmployeeID:    p.EmployeeID.String(),
		PeriodType:    string(p.PeriodType),
		PeriodStart:   p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:     p.PeriodEnd.Format("2006-01-02"),

		BasePay:         p.BasePay,
		OvertimePay:     p.OvertimePay,
		MealAllowance:   p.MealAllowance,
		Premium:         p.Premium,
		TotalEarnings:   p.TotalEarnings,
		TotalDeductions: p.TotalDeductions,
		NetPay:          p.NetPay,

		DaysPresent:        p.DaysPresent,
		DaysLate:           p.DaysLate,
		DaysLeave:          p.DaysLeave,
		DaysUnexcused:      p.DaysUnexcused,
		TotalOvertimeHours: p.TotalOvertimeHours,
		AttendanceRate:     p.AttendanceRate,

		Status: p.Status,
	}
	if p.PaidAt != nil {
		v := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	if withDetails {
		resp.Details = make([]DetailGajiResponse, len(p.Details))
		for i, d := range p.Details {
			resp.Details[i] = DetailGajiResponse{
				Kind:   string(d.Kind),
				Label:  d.Label,
				Amount: d.Amount,
			}
		}
	}
	return resp
}
