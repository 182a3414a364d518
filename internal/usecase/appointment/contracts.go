package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// TxManager runs fn in one database transaction carried by ctx.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

// Notifications are fire-and-forget; delivery problems never reach the caller.
type Notifications interface {
	AppointmentConfirmed(ap *models.Appointment)
	GuestConfirmationRequested(ap *models.Appointment)
	AppointmentCancelled(ap *models.Appointment, cancelledBy string)
	AppointmentReminder(ap *models.Appointment)
}
