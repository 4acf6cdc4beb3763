package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-gaji/internal/attendance/errors"
	"go-gaji/internal/employee"
	"go-gaji/internal/holiday"
	"go-gaji/internal/leave"
	"go-gaji/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	// ImportScan menerima satu event scan fingerprint. Event scan masuk dan
	// scan pulang untuk tanggal yang sama digabung ke satu record.
	ImportScan(ctx context.Context, req ImportScanRequest) (AttendanceResponse, error)
	ManualEntry(ctx context.Context, req ManualEntryRequest) (AttendanceResponse, error)
	Reclassify(ctx context.Context, id string) (AttendanceResponse, error)
	GetByEmployeeAndPeriod(ctx context.Context, employeeID, startDate, endDate string) ([]AttendanceResponse, error)
	GetAllByDate(ctx context.Context, date string, page, pageSize int) ([]AttendanceResponse, int64, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	holidayRepo  holiday.Repository
	leaveRepo    leave.Repository
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	holidayRepo holiday.Repository,
	leaveRepo leave.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		holidayRepo:  holidayRepo,
		leaveRepo:    leaveRepo,
		logger:       l,
	}
}

func (s *service) ImportScan(ctx context.Context, req ImportScanRequest) (AttendanceResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return AttendanceResponse{}, apperror.InvalidField("date")
	}

	scanIn, err := parseScanClock(date, req.ScanIn)
	if err != nil {
		return AttendanceResponse{}, apperror.InvalidField("scan_in")
	}
	scanOut, err := parseScanClock(date, req.ScanOut)
	if err != nil {
		return AttendanceResponse{}, apperror.InvalidField("scan_out")
	}

	emp, err := s.employeeRepo.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrEmployeeNotFound
		}
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	day, err := qtx.FindByEmployeeAndDate(ctx, req.EmployeeID, date)
	existing := true
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, err
		}
		existing = false
		day = &AttendanceDay{
			ID:         uuid.New(),
			EmployeeID: emp.ID,
			Date:       date,
		}
	}
	if day.Finalized {
		return AttendanceResponse{}, attendanceerrors.ErrAttendanceFinalized
	}

	if scanIn != nil {
		day.ScanIn = scanIn
	}
	if scanOut != nil {
		day.ScanOut = scanOut
	}
	day.Source = req.Source
	if day.Source == "" {
		day.Source = "FINGERPRINT"
	}

	if err := s.classifyInto(ctx, day, emp); err != nil {
		return AttendanceResponse{}, err
	}

	if existing {
		err = qtx.Update(ctx, day)
	} else {
		err = qtx.Create(ctx, day)
	}
	if err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("attendance scan imported",
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
		zap.String("status", string(day.Status)),
	)
	return mapToResponse(*day), nil
}

func (s *service) ManualEntry(ctx context.Context, req ManualEntryRequest) (AttendanceResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return AttendanceResponse{}, apperror.InvalidField("date")
	}

	status := Status(req.Status)
	if !status.Valid() {
		return AttendanceResponse{}, apperror.InvalidField("status")
	}
	if status.HasScans() && req.ScanIn == nil {
		return AttendanceResponse{}, attendanceerrors.ErrScanRequired
	}
	if !status.HasScans() && (req.ScanIn != nil || req.ScanOut != nil) {
		return AttendanceResponse{}, attendanceerrors.ErrScanNotAllowed
	}

	scanIn, err := parseScanClock(date, req.ScanIn)
	if err != nil {
		return AttendanceResponse{}, apperror.InvalidField("scan_in")
	}
	scanOut, err := parseScanClock(date, req.ScanOut)
	if err != nil {
		return AttendanceResponse{}, apperror.InvalidField("scan_out")
	}

	emp, err := s.employeeRepo.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrEmployeeNotFound
		}
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	day, err := qtx.FindByEmployeeAndDate(ctx, req.EmployeeID, date)
	existing := true
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, err
		}
		existing = false
		day = &AttendanceDay{
			ID:         uuid.New(),
			EmployeeID: emp.ID,
			Date:       date,
		}
	}
	if day.Finalized {
		return AttendanceResponse{}, attendanceerrors.ErrAttendanceFinalized
	}

	isHoliday, err := s.holidayRepo.ExistsOnDate(ctx, date)
	if err != nil {
		return AttendanceResponse{}, err
	}

	day.ScanIn = scanIn
	day.ScanOut = scanOut
	day.Status = status
	day.DayKind = dayKindOf(date, isHoliday)
	day.Source = "MANUAL"
	day.Note = req.Note
	day.OvertimeMinutes = 0
	day.OvertimeHours = 0
	if status.HasScans() && scanOut != nil {
		shiftEnd := atClock(date, emp.JamKerjaPulang)
		if scanOut.After(shiftEnd) {
			day.OvertimeMinutes = int(scanOut.Sub(shiftEnd) / time.Minute)
			day.OvertimeHours = day.OvertimeMinutes / 60
		}
	}
	resetPay(day)

	if existing {
		err = qtx.Update(ctx, day)
	} else {
		err = qtx.Create(ctx, day)
	}
	if err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	return mapToResponse(*day), nil
}

func (s *service) Reclassify(ctx context.Context, id string) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	day, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrAttendanceNotFound
		}
		return AttendanceResponse{}, err
	}
	if day.Finalized {
		return AttendanceResponse{}, attendanceerrors.ErrAttendanceFinalized
	}

	emp, err := s.employeeRepo.FindByID(ctx, day.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrEmployeeNotFound
		}
		return AttendanceResponse{}, err
	}

	if err := s.classifyInto(ctx, day, emp); err != nil {
		return AttendanceResponse{}, err
	}
	if err := qtx.Update(ctx, day); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	return mapToResponse(*day), nil
}

func (s *service) GetByEmployeeAndPeriod(ctx context.Context, employeeID, startDate, endDate string) ([]AttendanceResponse, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, apperror.InvalidField("start_date")
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, apperror.InvalidField("end_date")
	}

	rows, err := s.repo.FindByEmployeeWithin(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) GetAllByDate(ctx context.Context, date string, page, pageSize int) ([]AttendanceResponse, int64, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, 0, apperror.InvalidField("date")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	total, err := s.repo.CountByDate(ctx, d)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.repo.FindAllByDate(ctx, d, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, total, nil
}

// classifyInto menjalankan klasifikasi ulang atas scan yang tersimpan di day
// dan menulis hasilnya kembali. Komponen pay direset karena klasifikasi baru
// membatalkan perhitungan lama; payroll run berikutnya menghitung ulang.
func (s *service) classifyInto(ctx context.Context, day *AttendanceDay, emp *employee.Employee) error {
	isHoliday, err := s.holidayRepo.ExistsOnDate(ctx, day.Date)
	if err != nil {
		return err
	}

	auth := LeaveNone
	if day.ScanIn == nil && day.ScanOut == nil {
		l, err := s.leaveRepo.FindApprovedByEmployeeAndDate(ctx, day.EmployeeID.String(), day.Date)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			switch l.LeaveType {
			case leave.TypeCuti:
				auth = LeaveCuti
			case leave.TypeIzin:
				auth = LeaveIzin
			}
		}
	}

	res := Classify(ClassifyInput{
		Date:            day.Date,
		ScanIn:          day.ScanIn,
		ScanOut:         day.ScanOut,
		IsPublicHoliday: isHoliday,
		Leave:           auth,
		ShiftStart:      emp.JamKerjaMasuk,
		ShiftEnd:        emp.JamKerjaPulang,
		GraceMinutes:    emp.GraceMinutes,
	})

	day.Status = res.Status
	day.DayKind = res.DayKind
	day.OvertimeMinutes = res.OvertimeMinutes
	day.OvertimeHours = res.OvertimeHours
	if res.Note != nil {
		day.Note = res.Note
		s.logger.Warn("attendance classified with ambiguity",
			zap.String("employee_id", day.EmployeeID.String()),
			zap.String("date", day.Date.Format("2006-01-02")),
			zap.String("note", *res.Note),
		)
	}
	resetPay(day)
	return nil
}

func resetPay(day *AttendanceDay) {
	day.OvertimePay = 0
	day.MealAllowance = 0
	day.Premium = 0
	day.TotalSupplementalPay = 0
	day.SixDayStreak = false
}

// parseScanClock menggabungkan jam "HH:mm" dengan tanggal absensi.
func parseScanClock(date time.Time, clock *string) (*time.Time, error) {
	if clock == nil || *clock == "" {
		return nil, nil
	}
	t, err := time.Parse("15:04", *clock)
	if err != nil {
		return nil, err
	}
	combined := time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
	return &combined, nil
}

func mapToResponse(day AttendanceDay) AttendanceResponse {
	resp := AttendanceResponse{
		ID:                   day.ID.String(),
		EmployeeID:           day.EmployeeID.String(),
		Date:                 day.Date.Format("2006-01-02"),
		Status:               string(day.Status),
		DayKind:              string(day.DayKind),
		Source:               day.Source,
		OvertimeMinutes:      day.OvertimeMinutes,
		OvertimeHours:        day.OvertimeHours,
		OvertimePay:          day.OvertimePay,
		MealAllowance:        day.MealAllowance,
		Premium:              day.Premium,
		TotalSupplementalPay: day.TotalSupplementalPay,
		SixDayStreak:         day.SixDayStreak,
		Finalized:            day.Finalized,
		Note:                 day.Note,
	}
	if day.ScanIn != nil {
		v := day.ScanIn.Format("15:04")
		resp.ScanIn = &v
	}
	if day.ScanOut != nil {
		v := day.ScanOut.Format("15:04")
		resp.ScanOut = &v
	}
	return resp
}
