package holiday

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PublicHoliday struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Date      time.Time `gorm:"type:date;uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(120);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (PublicHoliday) TableName() string {
	return "public_holidays"
}
