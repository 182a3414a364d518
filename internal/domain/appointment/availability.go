package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
)

type AvailabilityInput struct {
	BarberID    uint
	ProcedureID uint
	Date        time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SlotMinutes is the grid used for availability listings and exclusion lists.
const SlotMinutes = schedule.SlotMinutes
