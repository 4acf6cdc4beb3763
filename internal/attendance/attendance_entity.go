package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status hasil klasifikasi satu hari absensi.
type Status string

const (
	StatusPresent   Status = "PRESENT"
	StatusLate      Status = "LATE"
	StatusLeave     Status = "LEAVE"
	StatusPaidLeave Status = "PAID_LEAVE"
	StatusUnexcused Status = "UNEXCUSED"
	StatusHoliday   Status = "HOLIDAY"
)

// HasScans melaporkan apakah status ini wajib disertai jam scan.
// Scan ada jika dan hanya jika statusnya PRESENT atau LATE.
func (s Status) HasScans() bool {
	return s == StatusPresent || s == StatusLate
}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusLeave, StatusPaidLeave, StatusUnexcused, StatusHoliday:
		return true
	}
	return false
}

// DayKind jenis hari kalender, menentukan tarif lembur dan uang makan.
type DayKind string

const (
	DayWeekday       DayKind = "WEEKDAY"
	DayWeekend       DayKind = "WEEKEND"
	DayPublicHoliday DayKind = "PUBLIC_HOLIDAY"
)

type AttendanceDay struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:idx_attendance_employee_date"`
	Date       time.Time  `gorm:"column:date;type:date;not null;uniqueIndex:idx_attendance_employee_date"`
	ScanIn     *time.Time `gorm:"column:scan_in;type:timestamptz"`
	ScanOut    *time.Time `gorm:"column:scan_out;type:timestamptz"`
	Status     Status     `gorm:"column:status;type:varchar(20);not null"`
	DayKind    DayKind    `gorm:"column:day_kind;type:varchar(20);not null"`
	Source     string     `gorm:"column:source;type:varchar(30);not null;default:MANUAL"`

	OvertimeMinutes int   `gorm:"column:overtime_minutes;not null;default:0"`
	OvertimeHours   int   `gorm:"column:overtime_hours;not null;default:0"`
	OvertimePay     int64 `gorm:"column:overtime_pay;type:bigint;not null;default:0"`
	MealAllowance   int64 `gorm:"column:meal_allowance;type:bigint;not null;default:0"`
	Premium         int64 `gorm:"column:premium;type:bigint;not null;default:0"`
	// TotalSupplementalPay selalu = OvertimePay + MealAllowance + Premium.
	TotalSupplementalPay int64 `gorm:"column:total_supplemental_pay;type:bigint;not null;default:0"`

	SixDayStreak bool `gorm:"column:six_day_streak;not null;default:false"`
	// Finalized terkunci setelah payroll periode ini digenerate.
	Finalized bool    `gorm:"column:finalized;not null;default:false;index"`
	Note      *string `gorm:"column:note;type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (AttendanceDay) TableName() string {
	return "attendance_days"
}
