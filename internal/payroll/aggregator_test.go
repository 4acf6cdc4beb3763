package payroll

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"go-gaji/internal/attendance"
)

func attendedDay(date time.Time, status attendance.Status) attendance.AttendanceDay {
	return attendance.AttendanceDay{
		ID:         uuid.New(),
		EmployeeID: uuid.New(),
		Date:       date,
		Status:     status,
		DayKind:    attendance.DayWeekday,
	}
}

func datesFrom(start time.Time, statuses []attendance.Status) []attendance.AttendanceDay {
	days := make([]attendance.AttendanceDay, len(statuses))
	for i, s := range statuses {
		days[i] = attendedDay(start.AddDate(0, 0, i), s)
	}
	return days
}

func TestMarkStreaks_SixConsecutiveDaysFlagged(t *testing.T) {
	start := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	days := datesFrom(start, []attendance.Status{
		attendance.StatusPresent,
		attendance.StatusPresent,
		attendance.StatusLate,
		attendance.StatusPresent,
		attendance.StatusPresent,
		attendance.StatusPresent,
	})

	MarkStreaks(days)
	for i := range days {
		assert.True(t, days[i].SixDayStreak, "hari ke-%d", i)
	}
}

func TestMarkStreaks_FiveDaysNotFlagged(t *testing.T) {
	start := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	days := datesFrom(start, []attendance.Status{
		attendance.StatusPresent,
		attendance.StatusPresent,
		attendance.StatusPresent,
		attendance.StatusPresent,
		attendance.StatusPresent,
	})

	MarkStreaks(days)
	for i := range days {
		assert.False(t, days[i].SixDayStreak)
	}
}

func TestMarkStreaks_BrokenByAbsence(t *testing.T) {
	start := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	days := datesFrom(start, []attendance.Status{
		attendance.StatusPresent,
		attendance.StatusPresent,
		attendance.StatusPresent,
		attendance.StatusUnexcused, // memutus run
		attendance.StatusPresent,
		attendance.StatusPresent,
		attendance.StatusPresent,
	})

	MarkStreaks(days)
	for i := range days {
		assert.False(t, days[i].SixDayStreak, "hari ke-%d", i)
	}
}

func TestMarkStreaks_BrokenByDateGap(t *testing.T) {
	start := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	days := datesFrom(start, []attendance.Status{
		attendance.StatusPresent,
		attendance.StatusPresent,
		attendance.StatusPresent,
	})
	// tiga hari lagi tapi tanggalnya loncat dua hari
	days = append(days, datesFrom(start.AddDate(0, 0, 5), []attendance.Status{
		attendance.StatusPresent,
		attendance.StatusPresent,
		attendance.StatusPresent,
	})...)

	MarkStreaks(days)
	for i := range days {
		assert.False(t, days[i].SixDayStreak, "hari ke-%d", i)
	}
}

func TestSynthesizeGaps_FillsMissingWeekdayAsUnexcused(t *testing.T) {
	employeeID := uuid.New()
	start := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)  // senin
	end := time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)    // jumat

	days := []attendance.AttendanceDay{
		{ID: uuid.New(), EmployeeID: employeeID, Date: start, Status: attendance.StatusPresent, DayKind: attendance.DayWeekday},
		{ID: uuid.New(), EmployeeID: employeeID, Date: start.AddDate(0, 0, 1), Status: attendance.StatusPresent, DayKind: attendance.DayWeekday},
		// rabu hilang
		{ID: uuid.New(), EmployeeID: employeeID, Date: start.AddDate(0, 0, 3), Status: attendance.StatusPresent, DayKind: attendance.DayWeekday},
		{ID: uuid.New(), EmployeeID: employeeID, Date: start.AddDate(0, 0, 4), Status: attendance.StatusPresent, DayKind: attendance.DayWeekday},
	}

	out := SynthesizeGaps(days, employeeID, start, end, nil, nil)
	assert.Len(t, out, 5)
	assert.Equal(t, attendance.StatusUnexcused, out[2].Status)
	assert.Equal(t, attendance.DayWeekday, out[2].DayKind)
	assert.Equal(t, "SYNTHESIZED", out[2].Source)
}

func TestSynthesizeGaps_WeekendAndHolidayNotUnexcused(t *testing.T) {
	employeeID := uuid.New()
	start := time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC) // jumat
	end := time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)   // senin

	holidays := map[string]bool{"2025-06-09": true}

	out := SynthesizeGaps(nil, employeeID, start, end, holidays, nil)
	assert.Len(t, out, 4)
	assert.Equal(t, attendance.StatusUnexcused, out[0].Status) // jumat
	assert.Equal(t, attendance.StatusHoliday, out[1].Status)   // sabtu
	assert.Equal(t, attendance.StatusHoliday, out[2].Status)   // minggu
	assert.Equal(t, attendance.StatusHoliday, out[3].Status)   // senin libur
	assert.Equal(t, attendance.DayPublicHoliday, out[3].DayKind)
}

func TestSynthesizeGaps_ExclusionWindowSkipped(t *testing.T) {
	employeeID := uuid.New()
	start := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)

	exclusions := []DateRange{{
		Start: start.AddDate(0, 0, 1),
		End:   start.AddDate(0, 0, 3),
	}}

	out := SynthesizeGaps(nil, employeeID, start, end, nil, exclusions)
	assert.Len(t, out, 2)
	assert.Equal(t, start, out[0].Date)
	assert.Equal(t, end, out[1].Date)
}

func TestAggregatePeriod_Totals(t *testing.T) {
	start := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)

	days := datesFrom(start, []attendance.Status{
		attendance.StatusPresent,
		attendance.StatusLate,
		attendance.StatusPaidLeave,
		attendance.StatusUnexcused,
		attendance.StatusPresent,
	})
	days[0].OvertimeHours = 2
	days[0].OvertimePay = 60000
	days[1].MealAllowance = 15000
	days[4].Premium = 20000

	totals := AggregatePeriod(days, start, end, nil)
	assert.Equal(t, 2, totals.DaysPresent)
	assert.Equal(t, 1, totals.DaysLate)
	assert.Equal(t, 1, totals.DaysLeave)
	assert.Equal(t, 1, totals.DaysUnexcused)
	assert.Equal(t, 2, totals.OvertimeHours)
	assert.Equal(t, int64(60000), totals.OvertimePay)
	assert.Equal(t, int64(15000), totals.MealAllowance)
	assert.Equal(t, int64(20000), totals.Premium)
	// (2 hadir + 1 telat) dari 5 hari kerja = 60%
	assert.Equal(t, 60, totals.AttendanceRate)
}

func TestAggregatePeriod_ZeroWeekdaysNoDivisionFault(t *testing.T) {
	// Periode sabtu-minggu saja: tidak ada hari kerja, rate 0, tanpa panic.
	start := time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC)

	days := []attendance.AttendanceDay{
		{Date: start, Status: attendance.StatusHoliday, DayKind: attendance.DayWeekend},
		{Date: end, Status: attendance.StatusHoliday, DayKind: attendance.DayWeekend},
	}

	totals := AggregatePeriod(days, start, end, nil)
	assert.Equal(t, 0, totals.AttendanceRate)
}

func TestAggregatePeriod_AllHolidayWeekNoDivisionFault(t *testing.T) {
	start := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)

	holidays := map[string]bool{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		holidays[d.Format("2006-01-02")] = true
	}

	totals := AggregatePeriod(nil, start, end, holidays)
	assert.Equal(t, 0, totals.AttendanceRate)
}
