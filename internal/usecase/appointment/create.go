package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/cache"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClientID    uint
	BarberID    uint
	ProcedureID uint

	Date  string
	Time  string
	Notes string

	Locale string
}

type GuestAppointmentInput struct {
	Name  string
	Email string
	Phone string

	BarberID    uint
	ProcedureID uint

	Date  string
	Time  string
	Notes string

	Locale string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo      domain.Repository
	tx        TxManager
	validator *domain.Validator
	clock     timezone.Clock
	cache     cache.AvailabilityCache
	audit     Auditor
	notify    Notifications
	log       *zap.Logger
}

func NewCreateAppointment(
	repo domain.Repository,
	tx TxManager,
	validator *domain.Validator,
	clock timezone.Clock,
	cache cache.AvailabilityCache,
	audit Auditor,
	notify Notifications,
	log *zap.Logger,
) *CreateAppointment {
	return &CreateAppointment{
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

// ======================================================
// EXECUTE
// ======================================================

// Execute books for a registered client; the appointment starts confirmed.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	start, err := parseStart(uc.clock, in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	var ap *models.Appointment
	err = uc.tx.Do(ctx, func(ctx context.Context) error {
		client, err := uc.repo.GetUser(ctx, in.ClientID)
		if err != nil {
			return err
		}

		ap, err = uc.book(ctx, client, in.BarberID, in.ProcedureID, start, in.Notes, in.Locale, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.after(ctx, ap, "registered")
	uc.notify.AppointmentConfirmed(ap)
	return ap, nil
}

// ExecuteGuest books for an unauthenticated visitor. The appointment waits
// in pending_confirmation until the emailed token is used.
func (uc *CreateAppointment) ExecuteGuest(
	ctx context.Context,
	in GuestAppointmentInput,
) (*models.Appointment, error) {

	start, err := parseStart(uc.clock, in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	var ap *models.Appointment
	err = uc.tx.Do(ctx, func(ctx context.Context) error {
		client, err := uc.repo.GetOrCreateGuest(ctx, in.Name, in.Email, in.Phone, in.Locale)
		if err != nil {
			return err
		}

		ap, err = uc.book(ctx, client, in.BarberID, in.ProcedureID, start, in.Notes, in.Locale, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.after(ctx, ap, "guest")
	uc.notify.GuestConfirmationRequested(ap)
	return ap, nil
}

func (uc *CreateAppointment) book(
	ctx context.Context,
	client *models.User,
	barberID uint,
	procedureID uint,
	start time.Time,
	notes string,
	locale string,
	guest bool,
) (*models.Appointment, error) {

	o, err := loadOffer(ctx, uc.repo, barberID, procedureID, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	err = validate(ctx, uc.validator, domain.Candidate{
		ClientID:        client.ID,
		BarberID:        barberID,
		Start:           start,
		DurationMinutes: o.duration,
	}, locale)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		ClientID:        client.ID,
		BarberID:        barberID,
		ProcedureID:     procedureID,
		StartTime:       start,
		DurationMinutes: o.duration,
		Status:          string(domain.InitialStatus(guest)),
		Notes:           notes,
	}
	if guest {
		token := uuid.NewString()
		ap.ConfirmationToken = &token
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	ap.Client = *client
	ap.Barber = *o.barber
	ap.Procedure = *o.procedure
	return ap, nil
}

func (uc *CreateAppointment) after(ctx context.Context, ap *models.Appointment, kind string) {
	uc.cache.InvalidateDay(ctx, ap.BarberID, dayOf(uc.clock, ap.StartTime))
	metrics.AppointmentsBooked.WithLabelValues(kind).Inc()

	uc.audit.Dispatch(audit.Event{
		UserID:   &ap.ClientID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"barber_id":    ap.BarberID,
			"procedure_id": ap.ProcedureID,
			"start_time":   ap.StartTime,
			"status":       ap.Status,
		},
	})

	uc.log.Info("appointment booked",
		zap.Uint("appointment_id", ap.ID),
		zap.Uint("barber_id", ap.BarberID),
		zap.String("kind", kind),
	)
}
