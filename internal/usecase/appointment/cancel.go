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

// Caller identifies the authenticated user acting on an appointment.
type Caller struct {
	UserID uint
	Roles  models.RoleSet
}

type CancelAppointment struct {
	repo   domain.Repository
	tx     TxManager
	clock  timezone.Clock
	cache  cache.AvailabilityCache
	audit  Auditor
	notify Notifications
	log    *zap.Logger
}

func NewCancelAppointment(
	repo domain.Repository,
	tx TxManager,
	clock timezone.Clock,
	cache cache.AvailabilityCache,
	audit Auditor,
	notify Notifications,
	log *zap.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		tx:     tx,
		clock:  clock,
		cache:  cache,
		audit:  audit,
		notify: notify,
		log:    log,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	caller Caller,
	appointmentID uint,
) (*models.Appointment, error) {

	var (
		ap    *models.Appointment
		actor domain.Actor
	)

	err := uc.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		ap, err = uc.repo.GetAppointment(ctx, appointmentID)
		if err != nil {
			return err
		}

		actor, err = cancelActor(ap, caller)
		if err != nil {
			return err
		}

		if err := domain.Cancel(ap, uc.clock.Now(), domain.CancelReason(actor)); err != nil {
			return err
		}
		return uc.repo.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.InvalidateDay(ctx, ap.BarberID, dayOf(uc.clock, ap.StartTime))
	metrics.AppointmentsCancelled.WithLabelValues(string(actor)).Inc()

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"reason": ap.CancellationReason},
	})
	uc.notify.AppointmentCancelled(ap, string(actor))

	uc.log.Info("appointment cancelled",
		zap.Uint("appointment_id", ap.ID),
		zap.String("actor", string(actor)),
	)
	return ap, nil
}

// cancelActor decides in which capacity the caller may cancel ap.
// Staff may cancel anything; barbers their own chair; clients their own booking.
func cancelActor(ap *models.Appointment, caller Caller) (domain.Actor, error) {
	switch {
	case caller.Roles.IsStaff():
		return domain.ActorFor(caller.Roles), nil
	case caller.Roles.IsBarber() && ap.BarberID == caller.UserID:
		return domain.ActorBarber, nil
	case ap.ClientID == caller.UserID:
		return domain.ActorClient, nil
	default:
		return "", httperr.ErrForbidden("not_your_appointment")
	}
}
