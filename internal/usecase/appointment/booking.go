package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// offer is a barber able to perform a procedure right now, with the
// duration that applies to the barber's tier.
type offer struct {
	barber    *models.User
	procedure *models.Procedure
	duration  int
}

func loadOffer(
	ctx context.Context,
	repo domain.Repository,
	barberID uint,
	procedureID uint,
	now time.Time,
) (*offer, error) {

	barber, err := repo.GetUser(ctx, barberID)
	if err != nil {
		if httperr.IsBusiness(err, "client_not_found") {
			return nil, httperr.ErrNotFound("barber_not_found")
		}
		return nil, err
	}
	if !barber.Roles.IsBarber() {
		return nil, httperr.ErrNotFound("barber_not_found")
	}

	procedure, err := repo.GetProcedure(ctx, procedureID)
	if err != nil {
		return nil, err
	}
	if !procedure.Available {
		return nil, httperr.ErrBusiness("procedure_unavailable")
	}

	bp, err := repo.FindValidBarberProcedure(ctx, barberID, procedureID, now)
	if err != nil {
		return nil, err
	}
	if bp == nil {
		return nil, httperr.ErrBusiness("procedure_not_offered")
	}

	duration := procedure.DurationFor(barber.Roles.Tier())
	if duration <= 0 {
		return nil, httperr.ErrValidation("invalid_duration")
	}

	return &offer{barber: barber, procedure: procedure, duration: duration}, nil
}

// validate runs the availability validator and turns failures into a
// ValidationFailed error.
func validate(
	ctx context.Context,
	v *domain.Validator,
	c domain.Candidate,
	locale string,
) error {

	errs, err := v.ValidateAppointment(ctx, c, locale)
	if err != nil {
		return err
	}
	if len(errs) == 0 {
		return nil
	}

	for _, e := range errs {
		metrics.ValidationFailures.WithLabelValues(e.Code).Inc()
	}
	return &httperr.ValidationFailed{Errors: errs}
}

func parseStart(clock timezone.Clock, date, hm string) (time.Time, error) {
	start, err := timezone.ParseDateTime(clock, date, hm)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_date_or_time")
	}
	return start, nil
}

// dayOf is t's calendar date in the shop's zone.
func dayOf(clock timezone.Clock, t time.Time) string {
	return t.In(clock.Location()).Format(timezone.DateLayout)
}
