package notification

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Notification kinds, also used as the metrics "type" label.
const (
	KindConfirmation = "confirmation"
	KindGuestConfirm = "guest_confirmation"
	KindCancellation = "cancellation"
	KindReminder     = "reminder"
)

// Notifier delivers appointment emails synchronously. Appointments passed in
// must have Client, Barber and Procedure loaded.
type Notifier interface {
	SendAppointmentConfirmation(ctx context.Context, ap *models.Appointment) error
	SendGuestConfirmationRequest(ctx context.Context, ap *models.Appointment) error
	SendAppointmentCancellation(ctx context.Context, ap *models.Appointment, cancelledBy string) error
	SendAppointmentReminder(ctx context.Context, ap *models.Appointment) error
}

// NopNotifier is used when SMTP is not configured.
type NopNotifier struct{}

func (NopNotifier) SendAppointmentConfirmation(context.Context, *models.Appointment) error {
	return nil
}

func (NopNotifier) SendGuestConfirmationRequest(context.Context, *models.Appointment) error {
	return nil
}

func (NopNotifier) SendAppointmentCancellation(context.Context, *models.Appointment, string) error {
	return nil
}

func (NopNotifier) SendAppointmentReminder(context.Context, *models.Appointment) error {
	return nil
}
