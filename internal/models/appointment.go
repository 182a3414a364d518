package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint `gorm:"index;not null" json:"client_id"`
	Client   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client"`

	BarberID uint `gorm:"index;not null" json:"barber_id"`
	Barber   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"barber"`

	ProcedureID uint      `gorm:"not null" json:"procedure_id"`
	Procedure   Procedure `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"procedure"`

	StartTime       time.Time `gorm:"index;not null" json:"start_time"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`

	Status string `gorm:"size:32;index;not null" json:"status"`
	Notes  string `gorm:"type:text" json:"notes"`

	CancelledAt        *time.Time `json:"cancelled_at"`
	CancellationReason string     `gorm:"size:100" json:"cancellation_reason"`

	ConfirmationToken *string    `gorm:"size:64;uniqueIndex" json:"-"`
	ConfirmedAt       *time.Time `json:"confirmed_at"`
	CompletedAt       *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}
