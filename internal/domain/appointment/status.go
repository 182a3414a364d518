package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending             Status = "pending"
	StatusPendingConfirmation Status = "pending_confirmation"
	StatusConfirmed           Status = "confirmed"
	StatusNotConfirmed        Status = "not_confirmed"
	StatusCancelled           Status = "cancelled"
	StatusCompleted           Status = "completed"
	StatusNoShow              Status = "no_show"
)

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPendingConfirmation, StatusConfirmed,
		StatusNotConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// Statuses a manager may set on an appointment whose time has elapsed.
var pastStatuses = map[Status]bool{
	StatusCompleted: true,
	StatusNoShow:    true,
	StatusCancelled: true,
}

// Statuses a manager may give the replacement row of a rescheduled appointment.
var rescheduleStatuses = map[Status]bool{
	StatusPending:   true,
	StatusConfirmed: true,
}

// ===============================
// Validations
// ===============================

func CanCancel(ap *models.Appointment, now time.Time) error {
	current := Status(ap.Status)
	if current == StatusCancelled {
		return httperr.ErrBusiness("already_cancelled")
	}
	if current.IsTerminal() {
		return httperr.ErrBusiness("invalid_state")
	}
	if ap.StartTime.Before(now) {
		return httperr.ErrBusiness("appointment_in_past")
	}
	return nil
}

func CanComplete(ap *models.Appointment) error {
	switch Status(ap.Status) {
	case StatusConfirmed:
		return nil
	case StatusCompleted:
		return httperr.ErrBusiness("already_completed")
	case StatusCancelled:
		return httperr.ErrBusiness("already_cancelled")
	default:
		return httperr.ErrBusiness("invalid_state")
	}
}

func CanConfirm(ap *models.Appointment) error {
	if Status(ap.Status) != StatusPendingConfirmation {
		return httperr.ErrBusiness("invalid_token")
	}
	return nil
}

// CanEditFuture guards the manager reschedule path.
func CanEditFuture(ap *models.Appointment, now time.Time) error {
	if !ap.StartTime.After(now) {
		return httperr.ErrBusiness("appointment_in_past")
	}
	if Status(ap.Status).IsTerminal() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanSetPastStatus(ap *models.Appointment, status Status, now time.Time) error {
	if ap.StartTime.After(now) {
		return httperr.ErrBusiness("appointment_not_past")
	}
	if !pastStatuses[status] {
		return httperr.ErrValidation("invalid_status")
	}
	return nil
}

func ValidRescheduleStatus(status Status) bool {
	return rescheduleStatuses[status]
}

// InitialStatus is confirmed for registered clients; guests confirm by email.
func InitialStatus(guest bool) Status {
	if guest {
		return StatusPendingConfirmation
	}
	return StatusConfirmed
}
