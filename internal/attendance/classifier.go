package attendance

import (
	"fmt"
	"time"
)

// LeaveAuthorization jenis otorisasi absen yang sudah disetujui untuk
// tanggal tersebut, jika ada.
type LeaveAuthorization string

const (
	LeaveNone LeaveAuthorization = ""
	LeaveIzin LeaveAuthorization = "IZIN"
	LeaveCuti LeaveAuthorization = "CUTI"
)

// ClassifyInput adalah satu hari mentah sebelum klasifikasi: pasangan scan
// plus konteks kalender dan jam kerja karyawan.
type ClassifyInput struct {
	Date            time.Time
	ScanIn          *time.Time
	ScanOut         *time.Time
	IsPublicHoliday bool
	Leave           LeaveAuthorization

	// Jam kerja nominal, format "HH:mm"
	ShiftStart   string
	ShiftEnd     string
	GraceMinutes int
}

type ClassifyResult struct {
	Status          Status
	DayKind         DayKind
	OvertimeMinutes int
	OvertimeHours   int
	Note            *string
}

// Classify menentukan status dan jenis hari dari satu pasangan scan.
// Fungsi murni: tidak membaca DB, jam dinding, maupun policy tarif.
func Classify(in ClassifyInput) ClassifyResult {
	res := ClassifyResult{DayKind: dayKindOf(in.Date, in.IsPublicHoliday)}

	if in.ScanIn == nil && in.ScanOut == nil {
		switch {
		case in.Leave == LeaveCuti:
			res.Status = StatusPaidLeave
		case in.Leave == LeaveIzin:
			res.Status = StatusLeave
		case res.DayKind == DayWeekday:
			res.Status = StatusUnexcused
		default:
			res.Status = StatusHoliday
		}
		return res
	}

	res.Status = StatusPresent
	if in.ScanIn != nil {
		threshold := atClock(in.Date, in.ShiftStart).Add(time.Duration(in.GraceMinutes) * time.Minute)
		if in.ScanIn.After(threshold) {
			res.Status = StatusLate
		}
	} else {
		// Scan pulang tanpa scan masuk: keterlambatan tidak bisa dinilai,
		// dicatat sebagai Present dengan catatan untuk ditinjau.
		note := "scan masuk tidak ditemukan, keterlambatan tidak dapat dinilai"
		res.Note = &note
	}

	if in.ScanOut != nil {
		shiftEnd := atClock(in.Date, in.ShiftEnd)
		if in.ScanOut.After(shiftEnd) {
			res.OvertimeMinutes = int(in.ScanOut.Sub(shiftEnd) / time.Minute)
			// Lembur dibayar per jam penuh; sisa menit tetap tercatat.
			res.OvertimeHours = res.OvertimeMinutes / 60
		}
	}

	return res
}

func dayKindOf(date time.Time, isPublicHoliday bool) DayKind {
	if isPublicHoliday {
		return DayPublicHoliday
	}
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return DayWeekend
	}
	return DayWeekday
}

// atClock menggabungkan tanggal dengan jam "HH:mm" pada lokasi tanggal itu.
// Input jam yang rusak jatuh ke 00:00 agar klasifikasi tetap jalan;
// validasi format jam kerja ada di master karyawan, bukan di sini.
func atClock(date time.Time, clock string) time.Time {
	var h, m int
	if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
		h, m = 0, 0
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location())
}
