package models

import (
	"time"

	"gorm.io/datatypes"
)

// DaySchedule is one weekday entry of a barber's weekly template.
type DaySchedule struct {
	Working bool   `json:"working"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

// WeeklyTemplate is keyed by weekday, 0 = Sunday .. 6 = Saturday.
type WeeklyTemplate map[int]DaySchedule

type WeeklySchedule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID uint `gorm:"uniqueIndex;not null" json:"barber_id"`
	Barber   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Days datatypes.JSONType[WeeklyTemplate] `json:"days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScheduleException overrides the weekly template for one calendar date.
type ScheduleException struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID uint   `gorm:"uniqueIndex:idx_exception_barber_date;not null" json:"barber_id"`
	Date     string `gorm:"size:10;uniqueIndex:idx_exception_barber_date;not null" json:"date"` // YYYY-MM-DD

	IsAvailable   bool                       `json:"is_available"`
	StartTime     *string                    `gorm:"size:5" json:"start_time"`
	EndTime       *string                    `gorm:"size:5" json:"end_time"`
	ExcludedSlots datatypes.JSONSlice[string] `json:"excluded_slots"`
	Reason        string                     `gorm:"size:255" json:"reason"`

	CreatedByID uint      `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}
