package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/cache"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// RebookHint points the client back to the booking flow with the
// cancelled appointment's barber and procedure preselected.
type RebookHint struct {
	Cancelled   *models.Appointment `json:"cancelled"`
	BarberID    uint                `json:"barber_id"`
	ProcedureID uint                `json:"procedure_id"`
	Date        string              `json:"date"`
}

type RescheduleAppointment struct {
	repo  domain.Repository
	tx    TxManager
	clock timezone.Clock
	cache cache.AvailabilityCache
	audit Auditor
	log   *zap.Logger
}

func NewRescheduleAppointment(
	repo domain.Repository,
	tx TxManager,
	clock timezone.Clock,
	cache cache.AvailabilityCache,
	audit Auditor,
	log *zap.Logger,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:  repo,
		tx:    tx,
		clock: clock,
		cache: cache,
		audit: audit,
		log:   log,
	}
}

// Execute cancels the client's appointment. The new time is booked through
// the regular booking flow; the original row is never moved.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	clientID uint,
	appointmentID uint,
) (*RebookHint, error) {

	var ap *models.Appointment
	err := uc.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		ap, err = uc.repo.GetAppointment(ctx, appointmentID)
		if err != nil {
			return err
		}
		if ap.ClientID != clientID {
			return httperr.ErrForbidden("not_your_appointment")
		}

		reason := domain.RescheduleReason(domain.ActorClient)
		if err := domain.Cancel(ap, uc.clock.Now(), reason); err != nil {
			return err
		}
		return uc.repo.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.InvalidateDay(ctx, ap.BarberID, dayOf(uc.clock, ap.StartTime))
	metrics.AppointmentsCancelled.WithLabelValues(string(domain.ActorClient)).Inc()

	uc.audit.Dispatch(audit.Event{
		UserID:   &clientID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	uc.log.Info("appointment released for rebooking", zap.Uint("appointment_id", ap.ID))

	return &RebookHint{
		Cancelled:   ap,
		BarberID:    ap.BarberID,
		ProcedureID: ap.ProcedureID,
		Date:        dayOf(uc.clock, ap.StartTime),
	}, nil
}
