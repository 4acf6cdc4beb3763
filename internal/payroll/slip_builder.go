package payroll

import (
	"time"

	"go-gaji/internal/employee"
	payrollerrors "go-gaji/internal/payroll/errors"

	"github.com/google/uuid"
)

// DeductionEntry satu potongan eksternal (pinjaman, pajak, dll).
type DeductionEntry struct {
	Label  string
	Amount int64
}

// BuildSlip menyusun record payroll final dari total periode, terms gaji
// pokok karyawan dan daftar potongan. Jika potongan melebihi pendapatan,
// record tetap disusun dengan status NEEDS_REVIEW dan ErrNegativeNetPay
// dikembalikan agar operator meninjaunya, bukan dipotong diam-diam ke nol.
func BuildSlip(
	emp employee.Employee,
	periodType PeriodType,
	start, end time.Time,
	totals PeriodTotals,
	pieceRateEarning int64,
	deductions []DeductionEntry,
) (Payroll, error) {
	for _, d := range deductions {
		if d.Amount < 0 {
			return Payroll{}, payrollerrors.ErrNegativeDeduction
		}
	}

	var basePay int64
	switch emp.SalaryCategory {
	case employee.SalaryMonthly:
		basePay = emp.MonthlySalary
	case employee.SalaryDaily:
		basePay = emp.DailyRate * int64(totals.DaysPresent)
	case employee.SalaryPieceRate:
		basePay = pieceRateEarning
	}

	p := Payroll{
		ID:          uuid.New(),
		EmployeeID:  emp.ID,
		PeriodType:  periodType,
		PeriodStart: start,
		PeriodEnd:   end,

		BasePay:       basePay,
		OvertimePay:   totals.OvertimePay,
		MealAllowance: totals.MealAllowance,
		Premium:       totals.Premium,

		DaysPresent:        totals.DaysPresent,
		DaysLate:           totals.DaysLate,
		DaysLeave:          totals.DaysLeave,
		DaysUnexcused:      totals.DaysUnexcused,
		TotalOvertimeHours: totals.OvertimeHours,
		AttendanceRate:     totals.AttendanceRate,

		Status: StatusDraft,
	}

	addLine := func(kind DetailKind, label string, amount int64) {
		p.Details = append(p.Details, DetailGaji{
			ID:        uuid.New(),
			PayrollID: p.ID,
			Kind:      kind,
			Label:     label,
			Amount:    amount,
		})
	}

	addLine(KindEarning, "Gaji Pokok", basePay)
	if totals.OvertimePay > 0 {
		addLine(KindEarning, "Lembur", totals.OvertimePay)
	}
	if totals.MealAllowance > 0 {
		addLine(KindEarning, "Uang Makan", totals.MealAllowance)
	}
	if totals.Premium > 0 {
		addLine(KindEarning, "Premi Kehadiran", totals.Premium)
	}
	for _, d := range deductions {
		addLine(KindDeduction, d.Label, d.Amount)
	}

	for _, line := range p.Details {
		switch line.Kind {
		case KindEarning:
			p.TotalEarnings += line.Amount
		case KindDeduction:
			p.TotalDeductions += line.Amount
		}
	}
	p.NetPay = p.TotalEarnings - p.TotalDeductions

	if p.NetPay < 0 {
		p.Status = StatusNeedsReview
		return p, payrollerrors.ErrNegativeNetPay
	}
	return p, nil
}
