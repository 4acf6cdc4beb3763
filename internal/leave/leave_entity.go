package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveType membedakan izin (unpaid) dari cuti (paid).
type LeaveType string

const (
	TypeIzin LeaveType = "IZIN"
	TypeCuti LeaveType = "CUTI"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_employee_period"`
	LeaveType  LeaveType `gorm:"type:varchar(10);not null"`
	StartDate  time.Time `gorm:"type:date;not null;index:idx_leave_employee_period"`
	EndDate    time.Time `gorm:"type:date;not null;index:idx_leave_employee_period"`
	TotalDays  int       `gorm:"not null"`
	Reason     string    `gorm:"type:text"`
	Status     string    `gorm:"type:varchar(20);not null;default:'PENDING';index"`

	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Leave) TableName() string {
	return "leaves"
}
