package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type CompleteAppointment struct {
	repo  domain.Repository
	tx    TxManager
	clock timezone.Clock
	audit Auditor
	log   *zap.Logger
}

func NewCompleteAppointment(
	repo domain.Repository,
	tx TxManager,
	clock timezone.Clock,
	audit Auditor,
	log *zap.Logger,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		tx:    tx,
		clock: clock,
		audit: audit,
		log:   log,
	}
}

// Execute marks a confirmed appointment completed. Only the assigned
// barber may do so.
func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap *models.Appointment
	err := uc.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		ap, err = uc.repo.GetAppointment(ctx, appointmentID)
		if err != nil {
			return err
		}
		if ap.BarberID != barberID {
			return httperr.ErrForbidden("not_your_appointment")
		}

		if err := domain.Complete(ap, uc.clock.Now()); err != nil {
			return err
		}
		return uc.repo.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &barberID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	uc.log.Info("appointment completed", zap.Uint("appointment_id", ap.ID))
	return ap, nil
}
