package schedule

import (
	"context"
	"slices"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// Hours are the effective working hours of one day. End is exclusive.
type Hours struct {
	Start         string   `json:"start"`
	End           string   `json:"end"`
	ExcludedSlots []string `json:"excluded_slots,omitempty"`
}

// SlotMinutes is the length of one excluded slot and of the booking grid.
const SlotMinutes = 30

// Covers reports whether the "HH:MM" instant falls inside the hours and is
// not an excluded slot.
func (h *Hours) Covers(hm string) bool {
	if h == nil {
		return false
	}
	if hm < h.Start || hm >= h.End {
		return false
	}
	return !slices.Contains(h.ExcludedSlots, hm)
}

// Blocks reports whether [start, end) overlaps any excluded slot, each slot
// being [slot, slot+SlotMinutes) on start's calendar day.
func (h *Hours) Blocks(start, end time.Time) bool {
	if h == nil {
		return false
	}
	y, m, d := start.Date()
	for _, hm := range h.ExcludedSlots {
		t, err := time.Parse(timezone.TimeLayout, hm)
		if err != nil {
			continue
		}
		from := time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, start.Location())
		to := from.Add(SlotMinutes * time.Minute)
		if start.Before(to) && end.After(from) {
			return true
		}
	}
	return false
}

// Resolve layers an optional exception over the template entry for weekday.
// A nil result means the barber is not working that day.
func Resolve(
	template models.WeeklyTemplate,
	exception *models.ScheduleException,
	weekday time.Weekday,
) *Hours {

	day := template[int(weekday)]
	working, start, end := day.Working, day.Start, day.End

	var excluded []string
	if exception != nil {
		if !exception.IsAvailable {
			return nil
		}
		if exception.StartTime != nil && exception.EndTime != nil {
			start, end = *exception.StartTime, *exception.EndTime
			working = true
		}
		excluded = exception.ExcludedSlots
	}

	if !working || start == "" || end == "" {
		return nil
	}

	return &Hours{Start: start, End: end, ExcludedSlots: excluded}
}

type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Template returns the barber's weekly template, or the default one when the
// barber never saved a schedule.
func (r *Resolver) Template(ctx context.Context, barberID uint) (models.WeeklyTemplate, error) {
	ws, err := r.repo.GetWeeklySchedule(ctx, barberID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return DefaultTemplate(), nil
	}
	return ws.Days.Data(), nil
}

// WorkingHours resolves the barber's hours on date's calendar day, nil when off.
func (r *Resolver) WorkingHours(ctx context.Context, barberID uint, date time.Time) (*Hours, error) {
	template, err := r.Template(ctx, barberID)
	if err != nil {
		return nil, err
	}

	exception, err := r.repo.GetException(ctx, barberID, date.Format(timezone.DateLayout))
	if err != nil {
		return nil, err
	}

	return Resolve(template, exception, date.Weekday()), nil
}

func (r *Resolver) IsWorking(ctx context.Context, barberID uint, at time.Time) (bool, error) {
	hours, err := r.WorkingHours(ctx, barberID, at)
	if err != nil {
		return false, err
	}
	return hours.Covers(at.Format(timezone.TimeLayout)), nil
}
