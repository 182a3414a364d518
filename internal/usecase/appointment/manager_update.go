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

type ManagerUpdateInput struct {
	Manager       Caller
	AppointmentID uint

	BarberID    uint
	ProcedureID uint
	Date        string
	Time        string

	// Status of the replacement row, pending or confirmed. Empty means confirmed.
	Status string
	Notes  *string

	Locale string
}

// ManagerUpdateResult holds both rows of a reschedule.
type ManagerUpdateResult struct {
	Cancelled   *models.Appointment `json:"cancelled"`
	Replacement *models.Appointment `json:"replacement"`
}

type ManagerUpdateAppointment struct {
	repo      domain.Repository
	tx        TxManager
	validator *domain.Validator
	clock     timezone.Clock
	cache     cache.AvailabilityCache
	audit     Auditor
	notify    Notifications
	log       *zap.Logger
}

func NewManagerUpdateAppointment(
	repo domain.Repository,
	tx TxManager,
	validator *domain.Validator,
	clock timezone.Clock,
	cache cache.AvailabilityCache,
	audit Auditor,
	notify Notifications,
	log *zap.Logger,
) *ManagerUpdateAppointment {
	return &ManagerUpdateAppointment{
		repo:      repo,
		tx:        tx,
		validator: validator,
		clock:     clock,
		cache:     cache,
		audit:     audit,
		notify:    notify,
		log:       log,
	}
}

// Execute edits a future appointment by cancelling it and inserting a
// replacement row, so the original stays in the history untouched.
func (uc *ManagerUpdateAppointment) Execute(
	ctx context.Context,
	in ManagerUpdateInput,
) (*ManagerUpdateResult, error) {

	status := domain.StatusConfirmed
	if in.Status != "" {
		status = domain.Status(in.Status)
	}
	if !domain.ValidRescheduleStatus(status) {
		return nil, httperr.ErrValidation("invalid_status")
	}

	start, err := parseStart(uc.clock, in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	var old, repl *models.Appointment

	err = uc.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		old, err = uc.repo.GetAppointment(ctx, in.AppointmentID)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		if err := domain.CanEditFuture(old, now); err != nil {
			return err
		}

		o, err := loadOffer(ctx, uc.repo, in.BarberID, in.ProcedureID, now)
		if err != nil {
			return err
		}

		err = validate(ctx, uc.validator, domain.Candidate{
			ClientID:        old.ClientID,
			BarberID:        in.BarberID,
			Start:           start,
			DurationMinutes: o.duration,
			ExcludeID:       old.ID,
		}, in.Locale)
		if err != nil {
			return err
		}

		// Admins edit through the manager path and share its reason.
		if err := domain.Cancel(old, now, domain.RescheduleReason(domain.ActorManager)); err != nil {
			return err
		}
		if err := uc.repo.UpdateAppointment(ctx, old); err != nil {
			return err
		}

		notes := old.Notes
		if in.Notes != nil {
			notes = *in.Notes
		}

		repl = &models.Appointment{
			ClientID:        old.ClientID,
			BarberID:        in.BarberID,
			ProcedureID:     in.ProcedureID,
			StartTime:       start,
			DurationMinutes: o.duration,
			Status:          string(status),
			Notes:           notes,
		}
		if status == domain.StatusConfirmed {
			repl.ConfirmedAt = &now
		}
		if err := uc.repo.CreateAppointment(ctx, repl); err != nil {
			return err
		}

		repl.Client = old.Client
		repl.Barber = *o.barber
		repl.Procedure = *o.procedure
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.InvalidateDay(ctx, old.BarberID, dayOf(uc.clock, old.StartTime))
	uc.cache.InvalidateDay(ctx, repl.BarberID, dayOf(uc.clock, repl.StartTime))
	metrics.AppointmentsBooked.WithLabelValues("reschedule").Inc()

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Manager.UserID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &old.ID,
		Metadata: map[string]any{
			"replacement_id": repl.ID,
			"barber_id":      repl.BarberID,
			"procedure_id":   repl.ProcedureID,
			"start_time":     repl.StartTime,
			"status":         repl.Status,
		},
	})
	uc.notify.AppointmentConfirmed(repl)

	uc.log.Info("appointment rescheduled by staff",
		zap.Uint("old_id", old.ID),
		zap.Uint("new_id", repl.ID),
	)

	return &ManagerUpdateResult{Cancelled: old, Replacement: repl}, nil
}
