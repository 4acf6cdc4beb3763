package payroll

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PeriodType string

const (
	PeriodDaily   PeriodType = "DAILY"
	PeriodWeekly  PeriodType = "WEEKLY"
	PeriodMonthly PeriodType = "MONTHLY"
)

func (p PeriodType) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

const (
	StatusDraft = "DRAFT"
	// StatusNeedsReview dipakai saat net pay negatif: record tetap dibuat
	// tapi harus ditinjau manusia, tidak otomatis disetujui.
	StatusNeedsReview = "NEEDS_REVIEW"
	StatusApproved    = "APPROVED"
	StatusPaid        = "PAID"
)

type DetailKind string

const (
	KindEarning   DetailKind = "EARNING"
	KindDeduction DetailKind = "DEDUCTION"
)

type Payroll struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	PayrollNumber string     `gorm:"column:payroll_number;type:varchar(20);uniqueIndex;not null"`
	EmployeeID    uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;index"`
	PeriodType    PeriodType `gorm:"column:period_type;type:varchar(10);not null"`
	PeriodStart   time.Time  `gorm:"column:period_start;type:date;not null"`
	PeriodEnd     time.Time  `gorm:"column:period_end;type:date;not null"`

	BasePay         int64 `gorm:"column:base_pay;type:bigint;not null;default:0"`
	OvertimePay     int64 `gorm:"column:overtime_pay;type:bigint;not null;default:0"`
	MealAllowance   int64 `gorm:"column:meal_allowance;type:bigint;not null;default:0"`
	Premium         int64 `gorm:"column:premium;type:bigint;not null;default:0"`
	TotalEarnings   int64 `gorm:"column:total_earnings;type:bigint;not null;default:0"`
	TotalDeductions int64 `gorm:"column:total_deductions;type:bigint;not null;default:0"`
	// NetPay selalu = TotalEarnings - TotalDeductions.
	NetPay int64 `gorm:"column:net_pay;type:bigint;not null;default:0"`

	DaysPresent        int `gorm:"column:days_present;not null;default:0"`
	DaysLate           int `gorm:"column:days_late;not null;default:0"`
	DaysLeave          int `gorm:"column:days_leave;not null;default:0"`
	DaysUnexcused      int `gorm:"column:days_unexcused;not null;default:0"`
	TotalOvertimeHours int `gorm:"column:total_overtime_hours;not null;default:0"`
	// AttendanceRate persen bulat 0-100.
	AttendanceRate int `gorm:"column:attendance_rate;not null;default:0"`

	Status string     `gorm:"column:status;type:varchar(20);not null;default:DRAFT;index"`
	PaidAt *time.Time `gorm:"column:paid_at;type:timestamptz"`

	Details []DetailGaji `gorm:"foreignKey:PayrollID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Payroll) TableName() string {
	return "payrolls"
}

type DetailGaji struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	PayrollID uuid.UUID  `gorm:"column:payroll_id;type:uuid;not null;index"`
	Kind      DetailKind `gorm:"column:kind;type:varchar(10);not null"`
	Label     string     `gorm:"column:label;type:varchar(100);not null"`
	// Amount selalu >= 0; tanda tersirat dari Kind.
	Amount    int64 `gorm:"column:amount;type:bigint;not null"`
	CreatedAt time.Time
}

func (DetailGaji) TableName() string {
	return "payroll_details"
}
