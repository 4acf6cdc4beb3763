package paypolicy

import (
	"time"

	"github.com/google/uuid"
)

// PayPolicyVersion adalah satu versi setting gaji. Immutable setelah dibuat;
// "edit" selalu berarti membuat versi baru lalu mengaktifkannya. Paling banyak
// satu versi aktif pada satu waktu (partial unique index di is_active).
type PayPolicyVersion struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	// Premi kehadiran per role
	PremiProduksi int64 `gorm:"type:bigint;not null"`
	PremiStaff    int64 `gorm:"type:bigint;not null"`

	// Uang makan per role per jenis hari
	UangMakanProduksiWeekday      int64 `gorm:"type:bigint;not null"`
	UangMakanProduksiWeekendShort int64 `gorm:"type:bigint;not null"` // lembur 5-10 jam
	UangMakanProduksiWeekendLong  int64 `gorm:"type:bigint;not null"` // lembur 10-20 jam
	UangMakanStaffWeekday         int64 `gorm:"type:bigint;not null"`
	UangMakanStaffWeekendShort    int64 `gorm:"type:bigint;not null"`
	UangMakanStaffWeekendLong     int64 `gorm:"type:bigint;not null"`

	// Tarif lembur per jam per role
	LemburProduksiPerJam int64 `gorm:"type:bigint;not null"`
	LemburStaffPerJam    int64 `gorm:"type:bigint;not null"`

	IsActive  bool `gorm:"not null;default:false;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayPolicyVersion) TableName() string {
	return "pay_policy_versions"
}
