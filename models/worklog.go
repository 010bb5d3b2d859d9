package models

import (
	"time"

	"gorm.io/gorm"
)

// WorkLog is one finished stretch of paid work. Earnings and
// deduction are derived fields, recomputed whenever duration, rate or
// person change.
type WorkLog struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	FamilyID      string         `json:"family_id" gorm:"size:64;index;not null"`
	Person        string         `json:"person" gorm:"size:16;not null"`
	Date          time.Time      `json:"date" gorm:"index;not null"`
	StartTime     time.Time      `json:"start_time" gorm:"not null"`
	EndTime       *time.Time     `json:"end_time,omitempty"`
	WorkedMinutes int            `json:"worked_minutes" gorm:"not null;default:0"`
	HourlyRate    int64          `json:"hourly_rate" gorm:"not null"`
	Earnings      int64          `json:"earnings" gorm:"not null;default:0"`
	Deduction     int64          `json:"deduction" gorm:"not null;default:0"`
	Activity      string         `json:"activity" gorm:"size:255;not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

func (WorkLog) TableName() string {
	return "work_logs"
}
