package schedule

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Repository lookups return (nil, nil) when nothing is stored.
type Repository interface {
	GetWeeklySchedule(ctx context.Context, barberID uint) (*models.WeeklySchedule, error)
	GetException(ctx context.Context, barberID uint, date string) (*models.ScheduleException, error)
}
