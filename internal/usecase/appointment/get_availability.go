package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/cache"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type GetAvailability struct {
	repo     domain.Repository
	resolver *schedule.Resolver
	clock    timezone.Clock
	cache    cache.AvailabilityCache
}

func NewGetAvailability(
	repo domain.Repository,
	resolver *schedule.Resolver,
	clock timezone.Clock,
	cache cache.AvailabilityCache,
) *GetAvailability {
	return &GetAvailability{
		repo:     repo,
		resolver: resolver,
		clock:    clock,
		cache:    cache,
	}
}

// Execute lists the start times on in.Date, on a 30-minute grid, where the
// procedure fits inside the barber's hours without touching an excluded
// slot or another appointment. Slots already in the past are dropped.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	day := dayOf(uc.clock, in.Date)

	slots, ok := uc.cache.Get(ctx, in.BarberID, day, in.ProcedureID)
	if !ok {
		var err error
		slots, err = uc.compute(ctx, in, day)
		if err != nil {
			return nil, err
		}
		uc.cache.Set(ctx, in.BarberID, day, in.ProcedureID, slots)
	}

	return uc.dropPast(day, slots), nil
}

func (uc *GetAvailability) compute(
	ctx context.Context,
	in domain.AvailabilityInput,
	day string,
) ([]domain.TimeSlot, error) {

	o, err := loadOffer(ctx, uc.repo, in.BarberID, in.ProcedureID, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	hours, err := uc.resolver.WorkingHours(ctx, in.BarberID, in.Date)
	if err != nil {
		return nil, err
	}
	slots := []domain.TimeSlot{}
	if hours == nil {
		return slots, nil
	}

	open, err := timezone.ParseDateTime(uc.clock, day, hours.Start)
	if err != nil {
		return nil, err
	}
	closing, err := timezone.ParseDateTime(uc.clock, day, hours.End)
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindByBarberAndDate(ctx, in.BarberID, in.Date)
	if err != nil {
		return nil, err
	}

	step := domain.SlotMinutes * time.Minute
	length := time.Duration(o.duration) * time.Minute

	for cur := open; cur.Before(closing); cur = cur.Add(step) {
		end := cur.Add(length)
		if end.After(closing) {
			break
		}
		if hours.Blocks(cur, end) || busy(cur, end, existing) {
			continue
		}

		slots = append(slots, domain.TimeSlot{
			Start: cur.Format(timezone.TimeLayout),
			End:   end.Format(timezone.TimeLayout),
		})
	}

	return slots, nil
}

func busy(start, end time.Time, existing []models.Appointment) bool {
	for i := range existing {
		ap := &existing[i]
		if domain.Status(ap.Status) == domain.StatusCancelled {
			continue
		}
		if domain.Overlaps(start, end, ap.StartTime, ap.EndTime()) {
			return true
		}
	}
	return false
}

func (uc *GetAvailability) dropPast(day string, slots []domain.TimeSlot) []domain.TimeSlot {
	now := uc.clock.Now()

	out := make([]domain.TimeSlot, 0, len(slots))
	for _, s := range slots {
		start, err := timezone.ParseDateTime(uc.clock, day, s.Start)
		if err != nil || start.Before(now) {
			continue
		}
		out = append(out, s)
	}
	return out
}
