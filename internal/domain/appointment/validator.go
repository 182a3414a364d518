package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/i18n"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// Candidate is an appointment being checked before it is persisted.
type Candidate struct {
	ClientID        uint
	BarberID        uint
	Start           time.Time
	DurationMinutes int

	// ExcludeID skips an existing appointment that the candidate supersedes.
	ExcludeID uint
}

func (c Candidate) End() time.Time {
	return c.Start.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

// Validator checks a candidate against the barber's hours and both
// participants' existing appointments. It never writes.
type Validator struct {
	appointments Finder
	resolver     *schedule.Resolver
	clock        timezone.Clock
}

func NewValidator(appointments Finder, resolver *schedule.Resolver, clock timezone.Clock) *Validator {
	return &Validator{
		appointments: appointments,
		resolver:     resolver,
		clock:        clock,
	}
}

// ValidateAppointment runs every check and returns all failures, localized.
// An empty result means the candidate can be booked. The error return is
// reserved for lookup failures.
func (v *Validator) ValidateAppointment(
	ctx context.Context,
	c Candidate,
	locale string,
) ([]httperr.ValidationError, error) {

	var out []httperr.ValidationError
	add := func(code string) {
		out = append(out, httperr.ValidationError{Code: code, Message: i18n.T(locale, code)})
	}

	if v.IsInPast(c.Start) {
		add("past_time")
	}

	hours, err := v.resolver.WorkingHours(ctx, c.BarberID, c.Start)
	if err != nil {
		return nil, err
	}
	if !hours.Covers(c.Start.Format(timezone.TimeLayout)) {
		add("barber_not_working")
	} else if hours.Blocks(c.Start, c.End()) {
		add("slot_excluded")
	}
	if finishesAfterHours(hours, c) {
		add("ends_after_hours")
	}

	free, err := v.IsBarberAvailable(ctx, c)
	if err != nil {
		return nil, err
	}
	if !free {
		add("barber_busy")
	}

	free, err = v.IsClientAvailable(ctx, c)
	if err != nil {
		return nil, err
	}
	if !free {
		add("client_busy")
	}

	return out, nil
}

func (v *Validator) IsInPast(start time.Time) bool {
	return start.Before(v.clock.Now())
}

func (v *Validator) IsBarberAvailable(ctx context.Context, c Candidate) (bool, error) {
	existing, err := v.appointments.FindByBarberAndDate(ctx, c.BarberID, c.Start)
	if err != nil {
		return false, err
	}
	return !conflicts(existing, c), nil
}

func (v *Validator) IsClientAvailable(ctx context.Context, c Candidate) (bool, error) {
	existing, err := v.appointments.FindByClientAndDate(ctx, c.ClientID, c.Start)
	if err != nil {
		return false, err
	}
	return !conflicts(existing, c), nil
}

func conflicts(existing []models.Appointment, c Candidate) bool {
	end := c.End()
	for i := range existing {
		ap := &existing[i]
		if c.ExcludeID != 0 && ap.ID == c.ExcludeID {
			continue
		}
		if Status(ap.Status) == StatusCancelled {
			continue
		}
		if Overlaps(c.Start, end, ap.StartTime, ap.EndTime()) {
			return true
		}
	}
	return false
}

// finishesAfterHours only applies on working days; a day off is already
// reported by the on-shift check.
func finishesAfterHours(hours *schedule.Hours, c Candidate) bool {
	if hours == nil {
		return false
	}
	end := c.End()
	startDay, nextDay := timezone.DayBounds(c.Start)
	if !end.Before(nextDay) || end.Before(startDay) {
		return true
	}
	return end.Format(timezone.TimeLayout) > hours.End
}
