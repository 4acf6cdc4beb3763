package payroll

import (
	"fmt"
	"time"

	"go-gaji/internal/attendance"
	"go-gaji/internal/employee"
	"go-gaji/internal/paypolicy"
)

// mealEveningCutoff jam scan pulang minimal agar uang makan weekday dibayar.
const mealEveningCutoff = "19:00"

// DailyPay adalah komponen pay tambahan hasil perhitungan satu hari.
type DailyPay struct {
	OvertimePay   int64
	MealAllowance int64
	Premium       int64
	Total         int64
}

// CalcDailyPay menghitung lembur, uang makan dan premi satu hari absensi
// terklasifikasi terhadap satu versi policy. Fungsi murni; snapshot policy
// diberikan caller sehingga satu batch tidak pernah mencampur dua tabel tarif.
func CalcDailyPay(day attendance.AttendanceDay, role employee.Role, policy paypolicy.PayPolicyVersion) DailyPay {
	var pay DailyPay

	offDay := day.DayKind == attendance.DayWeekend || day.DayKind == attendance.DayPublicHoliday

	if day.Status.HasScans() {
		rate := policy.LemburStaffPerJam
		if role == employee.RoleProduksi {
			rate = policy.LemburProduksiPerJam
		}
		multiplier := int64(1)
		if offDay {
			// Lembur hari libur dibayar dua kali lipat, aturan tetap,
			// bukan bagian dari policy.
			multiplier = 2
		}
		pay.OvertimePay = int64(day.OvertimeHours) * rate * multiplier
	}

	pay.MealAllowance = mealAllowanceFor(day, role, policy, offDay)

	if day.SixDayStreak && day.Status == attendance.StatusPresent {
		if role == employee.RoleProduksi {
			pay.Premium = policy.PremiProduksi
		} else {
			pay.Premium = policy.PremiStaff
		}
	}

	pay.Total = pay.OvertimePay + pay.MealAllowance + pay.Premium
	return pay
}

func mealAllowanceFor(day attendance.AttendanceDay, role employee.Role, policy paypolicy.PayPolicyVersion, offDay bool) int64 {
	if !day.Status.HasScans() {
		return 0
	}

	if !offDay {
		// Weekday: dibayar hanya jika kerja sampai malam.
		if day.ScanOut == nil || !scanAtOrAfter(*day.ScanOut, mealEveningCutoff) {
			return 0
		}
		if role == employee.RoleProduksi {
			return policy.UangMakanProduksiWeekday
		}
		return policy.UangMakanStaffWeekday
	}

	switch {
	case day.OvertimeHours >= 5 && day.OvertimeHours < 10:
		if role == employee.RoleProduksi {
			return policy.UangMakanProduksiWeekendShort
		}
		return policy.UangMakanStaffWeekendShort
	case day.OvertimeHours >= 10 && day.OvertimeHours < 20:
		if role == employee.RoleProduksi {
			return policy.UangMakanProduksiWeekendLong
		}
		return policy.UangMakanStaffWeekendLong
	}
	return 0
}

// scanAtOrAfter membandingkan jam scan dengan patokan "HH:mm" pada hari yang sama.
func scanAtOrAfter(scan time.Time, clock string) bool {
	var h, m int
	if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
		return false
	}
	scanMinutes := scan.Hour()*60 + scan.Minute()
	return scanMinutes >= h*60+m
}
