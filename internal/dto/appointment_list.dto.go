package dto

import "time"

type AppointmentListDTO struct {
	ID                 uint      `json:"id"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	DurationMinutes    int       `json:"duration_minutes"`
	Status             string    `json:"status"`
	ClientName         string    `json:"client_name,omitempty"`
	BarberName         string    `json:"barber_name,omitempty"`
	ProcedureName      string    `json:"procedure_name"`
	Notes              string    `json:"notes,omitempty"`
	CancellationReason string    `json:"cancellation_reason,omitempty"`
}
