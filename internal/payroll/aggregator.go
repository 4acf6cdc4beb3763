package payroll

import (
	"math"
	"time"

	"go-gaji/internal/attendance"

	"github.com/google/uuid"
)

// streakLength panjang minimal run kehadiran berurutan agar hari-harinya
// memenuhi syarat premi.
const streakLength = 6

// PeriodTotals hasil agregasi hari absensi satu karyawan dalam satu periode.
type PeriodTotals struct {
	DaysPresent   int
	DaysLate      int
	DaysLeave     int
	DaysUnexcused int

	OvertimeHours int
	OvertimePay   int64
	MealAllowance int64
	Premium       int64

	// AttendanceRate = (present + late) / jumlah weekday periode, persen bulat.
	AttendanceRate int
}

// DateRange rentang tanggal inklusif.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// MarkStreaks menandai setiap hari yang merupakan bagian dari run kehadiran
// (PRESENT atau LATE) pada tanggal kalender berurutan sepanjang minimal enam
// hari. Run dievaluasi dalam periode, reset di batas periode. Input harus
// urut tanggal naik.
func MarkStreaks(days []attendance.AttendanceDay) {
	for i := range days {
		days[i].SixDayStreak = false
	}

	runStart := -1
	for i := range days {
		if !days[i].Status.HasScans() {
			flagRun(days, runStart, i)
			runStart = -1
			continue
		}
		if runStart < 0 {
			runStart = i
			continue
		}
		if !days[i-1].Date.AddDate(0, 0, 1).Equal(days[i].Date) {
			// tanggal loncat, run lama berakhir
			flagRun(days, runStart, i)
			runStart = i
		}
	}
	flagRun(days, runStart, len(days))
}

func flagRun(days []attendance.AttendanceDay, start, end int) {
	if start < 0 || end-start < streakLength {
		return
	}
	for i := start; i < end; i++ {
		days[i].SixDayStreak = true
	}
}

// SynthesizeGaps melengkapi tanggal yang hilang dalam [start, end]: tanggal
// tanpa record dianggap mangkir (UNEXCUSED) pada weekday, atau HOLIDAY pada
// akhir pekan/libur nasional. Rentang dalam exclusions (cuti di luar
// tanggungan, terminasi di tengah periode) dilewati tanpa disintesis.
// Input dan output urut tanggal naik.
func SynthesizeGaps(
	days []attendance.AttendanceDay,
	employeeID uuid.UUID,
	start, end time.Time,
	holidays map[string]bool,
	exclusions []DateRange,
) []attendance.AttendanceDay {
	byDate := make(map[string]bool, len(days))
	for _, d := range days {
		byDate[d.Date.Format("2006-01-02")] = true
	}

	out := make([]attendance.AttendanceDay, 0, len(days))
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		if byDate[key] {
			for i < len(days) && !days[i].Date.After(d) {
				out = append(out, days[i])
				i++
			}
			continue
		}
		if excluded(d, exclusions) {
			continue
		}

		day := attendance.AttendanceDay{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			Date:       d,
			Source:     "SYNTHESIZED",
		}
		isHoliday := holidays[key]
		switch {
		case isHoliday:
			day.DayKind = attendance.DayPublicHoliday
			day.Status = attendance.StatusHoliday
		case d.Weekday() == time.Saturday || d.Weekday() == time.Sunday:
			day.DayKind = attendance.DayWeekend
			day.Status = attendance.StatusHoliday
		default:
			day.DayKind = attendance.DayWeekday
			day.Status = attendance.StatusUnexcused
			note := "tidak ada record absensi, dianggap mangkir"
			day.Note = &note
		}
		out = append(out, day)
	}
	out = append(out, days[i:]...)
	return out
}

func excluded(d time.Time, exclusions []DateRange) bool {
	for _, r := range exclusions {
		if r.Contains(d) {
			return true
		}
	}
	return false
}

// AggregatePeriod menjumlahkan hari-hari satu karyawan menjadi total periode.
// Komponen pay per hari harus sudah terisi (lihat CalcDailyPay).
func AggregatePeriod(days []attendance.AttendanceDay, start, end time.Time, holidays map[string]bool) PeriodTotals {
	var t PeriodTotals

	for _, d := range days {
		switch d.Status {
		case attendance.StatusPresent:
			t.DaysPresent++
		case attendance.StatusLate:
			t.DaysLate++
		case attendance.StatusLeave, attendance.StatusPaidLeave:
			t.DaysLeave++
		case attendance.StatusUnexcused:
			t.DaysUnexcused++
		}
		t.OvertimeHours += d.OvertimeHours
		t.OvertimePay += d.OvertimePay
		t.MealAllowance += d.MealAllowance
		t.Premium += d.Premium
	}

	weekdays := countWeekdays(start, end, holidays)
	if weekdays > 0 {
		t.AttendanceRate = int(math.Round(float64(t.DaysPresent+t.DaysLate) / float64(weekdays) * 100))
	}

	return t
}

func countWeekdays(start, end time.Time, holidays map[string]bool) int {
	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if holidays[d.Format("2006-01-02")] {
			continue
		}
		n++
	}
	return n
}
