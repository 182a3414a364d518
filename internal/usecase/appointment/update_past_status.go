package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type UpdatePastStatusInput struct {
	ManagerID     uint
	AppointmentID uint
	Status        string
	Notes         *string
}

type UpdatePastStatus struct {
	repo  domain.Repository
	tx    TxManager
	clock timezone.Clock
	audit Auditor
	log   *zap.Logger
}

func NewUpdatePastStatus(
	repo domain.Repository,
	tx TxManager,
	clock timezone.Clock,
	audit Auditor,
	log *zap.Logger,
) *UpdatePastStatus {
	return &UpdatePastStatus{
		repo:  repo,
		tx:    tx,
		clock: clock,
		audit: audit,
		log:   log,
	}
}

// Execute changes status and notes of an elapsed appointment in place.
// Time, barber and procedure stay as they were.
func (uc *UpdatePastStatus) Execute(
	ctx context.Context,
	in UpdatePastStatusInput,
) (*models.Appointment, error) {

	var (
		ap   *models.Appointment
		prev string
	)

	err := uc.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		ap, err = uc.repo.GetAppointment(ctx, in.AppointmentID)
		if err != nil {
			return err
		}

		prev = ap.Status
		if err := domain.SetPastStatus(ap, domain.Status(in.Status), uc.clock.Now()); err != nil {
			return err
		}
		if in.Notes != nil {
			ap.Notes = *in.Notes
		}
		return uc.repo.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ManagerID,
		Action:   "appointment_status_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"from": prev, "to": ap.Status},
	})

	uc.log.Info("past appointment status updated",
		zap.Uint("appointment_id", ap.ID),
		zap.String("from", prev),
		zap.String("to", ap.Status),
	)
	return ap, nil
}
