package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type SendReminders struct {
	repo   domain.Repository
	clock  timezone.Clock
	notify Notifications
	log    *zap.Logger
}

func NewSendReminders(
	repo domain.Repository,
	clock timezone.Clock,
	notify Notifications,
	log *zap.Logger,
) *SendReminders {
	return &SendReminders{
		repo:   repo,
		clock:  clock,
		notify: notify,
		log:    log,
	}
}

// Execute queues a reminder for every confirmed appointment on date and
// returns how many were queued.
func (uc *SendReminders) Execute(ctx context.Context, date time.Time) (int, error) {
	start, end := timezone.DayBounds(date.In(uc.clock.Location()))

	apps, err := uc.repo.ListByStatusBetween(ctx, domain.StatusConfirmed, start, end)
	if err != nil {
		return 0, err
	}

	for i := range apps {
		uc.notify.AppointmentReminder(&apps[i])
	}

	uc.log.Info("reminders queued",
		zap.String("date", start.Format(timezone.DateLayout)),
		zap.Int("count", len(apps)),
	)
	return len(apps), nil
}
