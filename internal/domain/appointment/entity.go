package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Actor identifies who cancelled an appointment.
type Actor string

const (
	ActorClient  Actor = "client"
	ActorBarber  Actor = "barber"
	ActorManager Actor = "manager"
	ActorAdmin   Actor = "admin"
)

func CancelReason(actor Actor) string {
	return "cancelled by " + string(actor)
}

func RescheduleReason(actor Actor) string {
	return "rescheduled by " + string(actor)
}

// ActorFor picks the most privileged actor a role set represents.
func ActorFor(roles models.RoleSet) Actor {
	switch {
	case roles.HasAny(models.RoleAdmin | models.RoleSuperAdmin):
		return ActorAdmin
	case roles.Has(models.RoleManager):
		return ActorManager
	case roles.IsBarber():
		return ActorBarber
	default:
		return ActorClient
	}
}

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time, reason string) error {
	if err := CanCancel(ap, now); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.CancellationReason = reason
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(ap); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanConfirm(ap); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	ap.ConfirmationToken = nil
	return nil
}

// MarkNotConfirmed marks a guest booking whose start passed before confirmation.
func MarkNotConfirmed(ap *models.Appointment) {
	ap.Status = string(StatusNotConfirmed)
	ap.ConfirmationToken = nil
}

func SetPastStatus(ap *models.Appointment, status Status, now time.Time) error {
	if err := CanSetPastStatus(ap, status, now); err != nil {
		return err
	}

	ap.Status = string(status)
	switch status {
	case StatusCancelled:
		if ap.CancelledAt == nil {
			ap.CancelledAt = &now
		}
		ap.CancellationReason = CancelReason(ActorManager)
	case StatusCompleted:
		if ap.CompletedAt == nil {
			ap.CompletedAt = &now
		}
	}
	return nil
}
