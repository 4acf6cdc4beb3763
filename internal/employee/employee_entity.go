package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role adalah kategori role karyawan yang menentukan tabel tarif.
type Role string

const (
	RoleProduksi Role = "PRODUKSI"
	RoleStaff    Role = "STAFF"
)

// SalaryCategory menentukan cara gaji pokok dihitung.
type SalaryCategory string

const (
	SalaryMonthly   SalaryCategory = "MONTHLY"
	SalaryDaily     SalaryCategory = "DAILY"
	SalaryPieceRate SalaryCategory = "PIECE_RATE"
)

// Employee adalah read-model master karyawan. Pemeliharaan datanya ada di
// sistem HR lain; engine ini hanya membaca role, jam kerja dan terms gaji.
type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	FullName       string    `gorm:"type:varchar(120);not null"`
	RoleKaryawan   Role      `gorm:"type:varchar(20);not null;index"`

	// Jam kerja nominal, format "HH:mm"
	JamKerjaMasuk  string `gorm:"type:varchar(5);not null;default:'08:00'"`
	JamKerjaPulang string `gorm:"type:varchar(5);not null;default:'17:00'"`
	GraceMinutes   int    `gorm:"not null;default:0"`

	SalaryCategory SalaryCategory `gorm:"type:varchar(20);not null"`
	MonthlySalary  int64          `gorm:"type:bigint;not null;default:0"`
	DailyRate      int64          `gorm:"type:bigint;not null;default:0"`

	HireDate        time.Time  `gorm:"type:date;not null"`
	TerminationDate *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
