package models

import "time"

// TimerState is the per-person work timer. One row per (family, person).
// StartTime is set exactly while IsRunning is true.
type TimerState struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	FamilyID  string     `json:"family_id" gorm:"size:64;index:idx_timer_family_person,unique;not null"`
	Person    string     `json:"person" gorm:"size:16;index:idx_timer_family_person,unique;not null"`
	IsRunning bool       `json:"is_running" gorm:"not null;default:false"`
	StartTime *time.Time `json:"start_time,omitempty"`
	Activity  string     `json:"activity" gorm:"size:255"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (TimerState) TableName() string {
	return "timer_states"
}
