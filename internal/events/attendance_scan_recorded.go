package events

import "time"

const AttendanceScanRecordedTopic = "hr.attendance.scan.v1"

// AttendanceScanRecordedEvent datang dari kolektor mesin fingerprint.
// Jam scan memakai format "15:04"; keduanya opsional (hari tanpa scan
// tetap diimpor agar bisa diklasifikasi sebagai izin/alpha).
type AttendanceScanRecordedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"` // YYYY-MM-DD
	ScanIn     *string   `json:"scan_in,omitempty"`
	ScanOut    *string   `json:"scan_out,omitempty"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`
}
