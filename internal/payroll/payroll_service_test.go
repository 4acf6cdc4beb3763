package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"go-gaji/internal/attendance"
	"go-gaji/internal/employee"
	"go-gaji/internal/events"
	"go-gaji/internal/holiday"
	"go-gaji/internal/messaging/kafka"
	"go-gaji/internal/paypolicy"
	paypolicyerrors "go-gaji/internal/paypolicy/errors"
	payrollerrors "go-gaji/internal/payroll/errors"
)

type fakePayrollRepo struct {
	byID       map[string]*Payroll
	overlapFor map[string]bool
	seq        int64
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{byID: map[string]*Payroll{}, overlapFor: map[string]bool{}}
}

func (f *fakePayrollRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakePayrollRepo) Create(ctx context.Context, p *Payroll) error {
	cp := *p
	f.byID[p.ID.String()] = &cp
	return nil
}

func (f *fakePayrollRepo) FindAll(ctx context.Context, limit, offset int) ([]Payroll, error) {
	var out []Payroll
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePayrollRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

func (f *fakePayrollRepo) FindByID(ctx context.Context, id string) (*Payroll, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePayrollRepo) FindByEmployee(ctx context.Context, employeeID string) ([]Payroll, error) {
	return nil, nil
}

func (f *fakePayrollRepo) HasOverlappingPeriod(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) (bool, error) {
	return f.overlapFor[employeeID], nil
}

func (f *fakePayrollRepo) Update(ctx context.Context, p *Payroll) error {
	cp := *p
	f.byID[p.ID.String()] = &cp
	return nil
}

func (f *fakePayrollRepo) Delete(ctx context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakePayrollRepo) NextPayrollNumber(ctx context.Context) (int64, error) {
	f.seq++
	return f.seq, nil
}

type fakeAttnRepo struct {
	byKey map[string]*attendance.AttendanceDay
}

func newFakeAttnRepo() *fakeAttnRepo {
	return &fakeAttnRepo{byKey: map[string]*attendance.AttendanceDay{}}
}

func attnKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttnRepo) seed(d attendance.AttendanceDay) {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	f.byKey[attnKey(d.EmployeeID.String(), d.Date)] = &d
}

func (f *fakeAttnRepo) WithTx(tx *sql.Tx) attendance.Repository { return f }

func (f *fakeAttnRepo) Create(ctx context.Context, d *attendance.AttendanceDay) error {
	cp := *d
	cp.CreatedAt = time.Now()
	f.byKey[attnKey(d.EmployeeID.String(), d.Date)] = &cp
	return nil
}

func (f *fakeAttnRepo) Update(ctx context.Context, d *attendance.AttendanceDay) error {
	cp := *d
	f.byKey[attnKey(d.EmployeeID.String(), d.Date)] = &cp
	return nil
}

func (f *fakeAttnRepo) FindByID(ctx context.Context, id string) (*attendance.AttendanceDay, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttnRepo) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceDay, error) {
	d, ok := f.byKey[attnKey(employeeID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeAttnRepo) FindByEmployeeWithin(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceDay, error) {
	var out []attendance.AttendanceDay
	for _, d := range f.byKey {
		if d.EmployeeID.String() == employeeID && !d.Date.Before(start) && !d.Date.After(end) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeAttnRepo) FindAllByDate(ctx context.Context, date time.Time, limit, offset int) ([]attendance.AttendanceDay, error) {
	return nil, nil
}

func (f *fakeAttnRepo) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeAttnRepo) FinalizeWithin(ctx context.Context, employeeID string, start, end time.Time) error {
	for _, d := range f.byKey {
		if d.EmployeeID.String() == employeeID && !d.Date.Before(start) && !d.Date.After(end) {
			d.Finalized = true
		}
	}
	return nil
}

type fakeEmployeeRepo struct {
	byID map[string]*employee.Employee
}

func newFakeEmployeeRepo(emps ...employee.Employee) *fakeEmployeeRepo {
	f := &fakeEmployeeRepo{byID: map[string]*employee.Employee{}}
	for i := range emps {
		f.byID[emps[i].ID.String()] = &emps[i]
	}
	return f
}

func (f *fakeEmployeeRepo) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepo) Create(ctx context.Context, empl *employee.Employee) error { return nil }

func (f *fakeEmployeeRepo) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEmployeeRepo) FindAllEmployedWithin(ctx context.Context, periodStart, periodEnd time.Time) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.byID {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeNumber < out[j].EmployeeNumber })
	return out, nil
}

type fakePolicySvc struct {
	policy paypolicy.PayPolicyVersion
	err    error
}

func (f *fakePolicySvc) CreateVersion(ctx context.Context, req paypolicy.CreatePolicyVersionRequest) (paypolicy.PolicyVersionResponse, error) {
	return paypolicy.PolicyVersionResponse{}, nil
}

func (f *fakePolicySvc) Activate(ctx context.Context, versionID string) (paypolicy.PolicyVersionResponse, error) {
	return paypolicy.PolicyVersionResponse{}, nil
}

func (f *fakePolicySvc) GetActive(ctx context.Context) (paypolicy.PolicyVersionResponse, error) {
	return paypolicy.PolicyVersionResponse{}, nil
}

func (f *fakePolicySvc) ListHistory(ctx context.Context, page, pageSize int) ([]paypolicy.PolicyVersionResponse, int64, error) {
	return nil, 0, nil
}

func (f *fakePolicySvc) ActiveSnapshot(ctx context.Context) (paypolicy.PayPolicyVersion, error) {
	return f.policy, f.err
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type payrollDeps struct {
	repo     *fakePayrollRepo
	attnRepo *fakeAttnRepo
	empRepo  *fakeEmployeeRepo
	policies *fakePolicySvc
	outbox   *fakeOutbox
}

func newTestPayrollService(db *sql.DB, emps ...employee.Employee) (Service, *payrollDeps) {
	deps := &payrollDeps{
		repo:     newFakePayrollRepo(),
		attnRepo: newFakeAttnRepo(),
		empRepo:  newFakeEmployeeRepo(emps...),
		policies: &fakePolicySvc{policy: testPolicy()},
		outbox:   &fakeOutbox{},
	}
	svc := NewService(db, deps.repo, deps.attnRepo, deps.empRepo, &fakeHolidayRepo{}, deps.policies, deps.outbox)
	return svc, deps
}

type fakeHolidayRepo struct {
	dates map[string]bool
}

func (f *fakeHolidayRepo) WithTx(tx *sql.Tx) holiday.Repository { return f }

func (f *fakeHolidayRepo) Create(ctx context.Context, h *holiday.PublicHoliday) error { return nil }

func (f *fakeHolidayRepo) FindAllByYear(ctx context.Context, year int) ([]holiday.PublicHoliday, error) {
	return nil, nil
}

func (f *fakeHolidayRepo) FindDatesWithin(ctx context.Context, start, end time.Time) (map[string]bool, error) {
	if f.dates == nil {
		return map[string]bool{}, nil
	}
	return f.dates, nil
}

func (f *fakeHolidayRepo) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	return f.dates[date.Format("2006-01-02")], nil
}

func (f *fakeHolidayRepo) Delete(ctx context.Context, id string) error { return nil }

func dailyWorker() employee.Employee {
	return employee.Employee{
		ID:             uuid.New(),
		EmployeeNumber: "EMP-001",
		FullName:       "Budi Santoso",
		RoleKaryawan:   employee.RoleProduksi,
		JamKerjaMasuk:  "08:00",
		JamKerjaPulang: "17:00",
		SalaryCategory: employee.SalaryDaily,
		DailyRate:      150000,
		HireDate:       time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func presentDay(empID uuid.UUID, date time.Time) attendance.AttendanceDay {
	in := time.Date(date.Year(), date.Month(), date.Day(), 8, 0, 0, 0, time.UTC)
	out := time.Date(date.Year(), date.Month(), date.Day(), 17, 0, 0, 0, time.UTC)
	return attendance.AttendanceDay{
		ID:         uuid.New(),
		EmployeeID: empID,
		Date:       date,
		ScanIn:     &in,
		ScanOut:    &out,
		Status:     attendance.StatusPresent,
		DayKind:    attendance.DayWeekday,
		Source:     "FINGERPRINT",
	}
}

func weekRequest(empID uuid.UUID) GeneratePayrollRequest {
	return GeneratePayrollRequest{
		EmployeeID:  empID.String(),
		PeriodType:  string(PeriodWeekly),
		PeriodStart: "2025-06-02",
		PeriodEnd:   "2025-06-06",
	}
}

func TestGeneratePeriod_PipelinePersistsSlipAndLocksDays(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	emp := dailyWorker()
	svc, deps := newTestPayrollService(db, emp)

	// Senin dan Selasa hadir, sisa minggu tanpa record
	deps.attnRepo.seed(presentDay(emp.ID, time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)))
	deps.attnRepo.seed(presentDay(emp.ID, time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)))

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.GeneratePeriod(context.Background(), weekRequest(emp.ID))
	assert.NoError(t, err)

	assert.Equal(t, "PAY-000001", resp.PayrollNumber)
	assert.Equal(t, int64(2*150000), resp.BasePay)
	assert.Equal(t, 2, resp.DaysPresent)
	assert.Equal(t, 3, resp.DaysUnexcused)
	assert.Equal(t, 40, resp.AttendanceRate)
	assert.Equal(t, StatusDraft, resp.Status)

	assert.Len(t, deps.repo.byID, 1)

	// Gap weekday tersintesis dan seluruh periode terkunci
	days, _ := deps.attnRepo.FindByEmployeeWithin(context.Background(), emp.ID.String(),
		time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC))
	assert.Len(t, days, 5)
	for _, d := range days {
		assert.True(t, d.Finalized)
	}
	assert.Equal(t, attendance.StatusUnexcused, days[2].Status)
	assert.Equal(t, "SYNTHESIZED", days[2].Source)

	assert.Len(t, deps.outbox.events, 1)
	assert.Equal(t, events.PayrollGeneratedTopic, deps.outbox.events[0].Topic)
	var event events.PayrollGeneratedEvent
	assert.NoError(t, json.Unmarshal(deps.outbox.events[0].Payload, &event))
	assert.Equal(t, resp.NetPay, event.NetPay)
	assert.False(t, event.NeedsReview)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeneratePeriod_NoActivePolicyTouchesNothing(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	emp := dailyWorker()
	svc, deps := newTestPayrollService(db, emp)
	deps.policies.err = paypolicyerrors.ErrNoActivePolicy

	deps.attnRepo.seed(presentDay(emp.ID, time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)))

	_, err = svc.GeneratePeriod(context.Background(), weekRequest(emp.ID))
	assert.ErrorIs(t, err, paypolicyerrors.ErrNoActivePolicy)

	// Tidak ada transaksi dan tidak ada record yang tersentuh
	assert.Empty(t, deps.repo.byID)
	for _, d := range deps.attnRepo.byKey {
		assert.False(t, d.Finalized)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeneratePeriod_RefusesOverlappingPeriod(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	emp := dailyWorker()
	svc, deps := newTestPayrollService(db, emp)
	deps.repo.overlapFor[emp.ID.String()] = true

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = svc.GeneratePeriod(context.Background(), weekRequest(emp.ID))
	assert.ErrorIs(t, err, payrollerrors.ErrPeriodOverlap)
	assert.Empty(t, deps.repo.byID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeneratePeriod_NegativeNetPayPersistedAndSurfaced(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	emp := dailyWorker()
	svc, deps := newTestPayrollService(db, emp)
	deps.attnRepo.seed(presentDay(emp.ID, time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)))

	req := weekRequest(emp.ID)
	req.Deductions = []DeductionRequest{{Label: "Potongan Pinjaman", Amount: 1000000}}

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.GeneratePeriod(context.Background(), req)
	assert.ErrorIs(t, err, payrollerrors.ErrNegativeNetPay)

	// Record tetap tersimpan dengan status untuk ditinjau
	assert.Equal(t, StatusNeedsReview, resp.Status)
	assert.Negative(t, resp.NetPay)
	assert.Len(t, deps.repo.byID, 1)
	stored := deps.repo.byID[resp.ID]
	assert.Equal(t, StatusNeedsReview, stored.Status)

	assert.Len(t, deps.outbox.events, 1)
	var event events.PayrollGeneratedEvent
	assert.NoError(t, json.Unmarshal(deps.outbox.events[0].Payload, &event))
	assert.True(t, event.NeedsReview)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeneratePeriod_RejectsInvertedPeriod(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	emp := dailyWorker()
	svc, _ := newTestPayrollService(db, emp)

	req := weekRequest(emp.ID)
	req.PeriodStart = "2025-06-10"
	req.PeriodEnd = "2025-06-06"

	_, err = svc.GeneratePeriod(context.Background(), req)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunBatch_IsolatesPerEmployeeFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	empA := dailyWorker()
	empB := dailyWorker()
	empB.EmployeeNumber = "EMP-002"
	empC := dailyWorker()
	empC.EmployeeNumber = "EMP-003"

	svc, deps := newTestPayrollService(db, empA, empB, empC)
	deps.repo.overlapFor[empB.ID.String()] = true

	// Satu worker agar urutan transaksi deterministik
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	res, err := svc.RunBatch(context.Background(), BatchGenerateRequest{
		PeriodType:  string(PeriodWeekly),
		PeriodStart: "2025-06-02",
		PeriodEnd:   "2025-06-06",
		Workers:     1,
	})
	assert.NoError(t, err)

	assert.Equal(t, 3, res.TotalEmployees)
	assert.Equal(t, 2, res.Generated)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{empB.ID.String()}, res.FailedIDs)
	assert.False(t, res.Cancelled)
	assert.Len(t, deps.repo.byID, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunBatch_CancelledBeforeFeedKeepsNothingRunning(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	emp := dailyWorker()
	svc, deps := newTestPayrollService(db, emp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.RunBatch(ctx, BatchGenerateRequest{
		PeriodType:  string(PeriodWeekly),
		PeriodStart: "2025-06-02",
		PeriodEnd:   "2025-06-06",
		Workers:     1,
	})
	assert.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Equal(t, 0, res.Generated)
	assert.Empty(t, deps.repo.byID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAsPaid_SetsPaidAtOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	emp := dailyWorker()
	svc, deps := newTestPayrollService(db, emp)

	p := &Payroll{
		ID:            uuid.New(),
		PayrollNumber: "PAY-000007",
		EmployeeID:    emp.ID,
		PeriodType:    PeriodWeekly,
		PeriodStart:   time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		PeriodEnd:     time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC),
		NetPay:        300000,
		Status:        StatusDraft,
	}
	deps.repo.byID[p.ID.String()] = p

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.MarkAsPaid(context.Background(), p.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusPaid, resp.Status)
	assert.NotNil(t, resp.PaidAt)

	// Pembayaran kedua ditolak
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = svc.MarkAsPaid(context.Background(), p.ID.String())
	assert.ErrorIs(t, err, payrollerrors.ErrPayrollAlreadyPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_RefusesPaidPayroll(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	emp := dailyWorker()
	svc, deps := newTestPayrollService(db, emp)

	now := time.Now().UTC()
	p := &Payroll{
		ID:         uuid.New(),
		EmployeeID: emp.ID,
		Status:     StatusPaid,
		PaidAt:     &now,
	}
	deps.repo.byID[p.ID.String()] = p

	mock.ExpectBegin()
	mock.ExpectRollback()

	err = svc.Delete(context.Background(), p.ID.String())
	assert.ErrorIs(t, err, payrollerrors.ErrPayrollAlreadyPaid)
	assert.Len(t, deps.repo.byID, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
