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

type ConfirmAppointment struct {
	repo   domain.Repository
	tx     TxManager
	clock  timezone.Clock
	audit  Auditor
	notify Notifications
	log    *zap.Logger
}

func NewConfirmAppointment(
	repo domain.Repository,
	tx TxManager,
	clock timezone.Clock,
	audit Auditor,
	notify Notifications,
	log *zap.Logger,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:   repo,
		tx:     tx,
		clock:  clock,
		audit:  audit,
		notify: notify,
		log:    log,
	}
}

// Execute confirms a guest booking by its emailed token. A token used after
// the appointment started marks the booking not_confirmed instead.
func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	token string,
) (*models.Appointment, error) {

	var (
		ap      *models.Appointment
		expired bool
	)

	err := uc.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		ap, err = uc.repo.GetAppointmentByToken(ctx, token)
		if err != nil {
			return err
		}
		if err := domain.CanConfirm(ap); err != nil {
			return err
		}

		now := uc.clock.Now()
		if ap.StartTime.Before(now) {
			domain.MarkNotConfirmed(ap)
			expired = true
		} else if err := domain.Confirm(ap, now); err != nil {
			return err
		}

		return uc.repo.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	action := "appointment_confirmed"
	if expired {
		action = "appointment_not_confirmed"
	}
	uc.audit.Dispatch(audit.Event{
		UserID:   &ap.ClientID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	if expired {
		uc.log.Info("confirmation token used too late", zap.Uint("appointment_id", ap.ID))
		return nil, httperr.ErrBusiness("confirmation_expired")
	}

	uc.notify.AppointmentConfirmed(ap)
	return ap, nil
}
