package schedule

import (
	"regexp"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsHHMM reports a zero-padded 24-hour "HH:MM" value, the only format that
// compares correctly as a string.
func IsHHMM(s string) bool {
	return hhmmPattern.MatchString(s)
}

// DefaultTemplate is Mon–Fri 09:00–18:00, Sat 09:00–13:00, Sun off.
func DefaultTemplate() models.WeeklyTemplate {
	t := models.WeeklyTemplate{
		int(time.Sunday):   {Working: false},
		int(time.Saturday): {Working: true, Start: "09:00", End: "13:00"},
	}
	for d := time.Monday; d <= time.Friday; d++ {
		t[int(d)] = models.DaySchedule{Working: true, Start: "09:00", End: "18:00"}
	}
	return t
}

// ValidateTemplate requires all seven weekdays and well-formed hours on
// working days.
func ValidateTemplate(t models.WeeklyTemplate) error {
	for d := 0; d < 7; d++ {
		day, ok := t[d]
		if !ok {
			return httperr.ErrValidation("invalid_schedule")
		}
		if !day.Working {
			continue
		}
		if !IsHHMM(day.Start) || !IsHHMM(day.End) || day.Start >= day.End {
			return httperr.ErrValidation("invalid_schedule")
		}
	}
	for d := range t {
		if d < 0 || d > 6 {
			return httperr.ErrValidation("invalid_schedule")
		}
	}
	return nil
}

func ValidateException(e *models.ScheduleException) error {
	if _, err := time.Parse(time.DateOnly, e.Date); err != nil {
		return httperr.ErrValidation("invalid_date")
	}
	if (e.StartTime == nil) != (e.EndTime == nil) {
		return httperr.ErrValidation("invalid_schedule")
	}
	if e.StartTime != nil {
		if !IsHHMM(*e.StartTime) || !IsHHMM(*e.EndTime) || *e.StartTime >= *e.EndTime {
			return httperr.ErrValidation("invalid_schedule")
		}
	}
	for _, slot := range e.ExcludedSlots {
		if !IsHHMM(slot) {
			return httperr.ErrValidation("invalid_schedule")
		}
	}
	return nil
}
