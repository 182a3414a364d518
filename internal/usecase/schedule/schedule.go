package schedule

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/cache"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Store is the persistence the schedule use cases need on top of the
// resolver's read side.
type Store interface {
	domain.Repository

	SaveWeeklySchedule(ctx context.Context, ws *models.WeeklySchedule) error
	SaveException(ctx context.Context, e *models.ScheduleException) error
	DeleteException(ctx context.Context, barberID uint, date string) (bool, error)
	ListExceptions(ctx context.Context, barberID uint, from, to string) ([]models.ScheduleException, error)
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

type ExceptionInput struct {
	ActorID  uint
	BarberID uint

	Date          string
	IsAvailable   bool
	StartTime     *string
	EndTime       *string
	ExcludedSlots []string
	Reason        string
}

// Schedules manages a barber's weekly template and per-date exceptions.
// Every write drops the affected cached availability.
type Schedules struct {
	store    Store
	resolver *domain.Resolver
	cache    cache.AvailabilityCache
	audit    Auditor
	log      *zap.Logger
}

func NewSchedules(
	store Store,
	resolver *domain.Resolver,
	cache cache.AvailabilityCache,
	audit Auditor,
	log *zap.Logger,
) *Schedules {
	return &Schedules{
		store:    store,
		resolver: resolver,
		cache:    cache,
		audit:    audit,
		log:      log,
	}
}

// GetWeekly returns the stored template, or the default one.
func (s *Schedules) GetWeekly(ctx context.Context, barberID uint) (models.WeeklyTemplate, error) {
	return s.resolver.Template(ctx, barberID)
}

// SaveWeekly replaces the whole template.
func (s *Schedules) SaveWeekly(
	ctx context.Context,
	actorID uint,
	barberID uint,
	template models.WeeklyTemplate,
) error {

	if err := domain.ValidateTemplate(template); err != nil {
		return err
	}

	ws := &models.WeeklySchedule{
		BarberID: barberID,
		Days:     datatypes.NewJSONType(template),
	}
	if err := s.store.SaveWeeklySchedule(ctx, ws); err != nil {
		return err
	}

	s.cache.InvalidateBarber(ctx, barberID)
	s.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "schedule_updated",
		Entity:   "barber",
		EntityID: &barberID,
		Metadata: template,
	})

	s.log.Info("weekly schedule saved", zap.Uint("barber_id", barberID))
	return nil
}

// SaveException sets the override for one date, replacing any earlier one.
func (s *Schedules) SaveException(ctx context.Context, in ExceptionInput) (*models.ScheduleException, error) {
	e := &models.ScheduleException{
		BarberID:      in.BarberID,
		Date:          in.Date,
		IsAvailable:   in.IsAvailable,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		ExcludedSlots: datatypes.JSONSlice[string](in.ExcludedSlots),
		Reason:        in.Reason,
		CreatedByID:   in.ActorID,
	}
	if err := domain.ValidateException(e); err != nil {
		return nil, err
	}

	if err := s.store.SaveException(ctx, e); err != nil {
		return nil, err
	}

	s.cache.InvalidateDay(ctx, in.BarberID, in.Date)
	s.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "schedule_exception_saved",
		Entity:   "barber",
		EntityID: &in.BarberID,
		Metadata: map[string]any{
			"date":         in.Date,
			"is_available": in.IsAvailable,
			"reason":       in.Reason,
		},
	})

	return e, nil
}

func (s *Schedules) DeleteException(ctx context.Context, actorID, barberID uint, date string) error {
	deleted, err := s.store.DeleteException(ctx, barberID, date)
	if err != nil {
		return err
	}
	if !deleted {
		return httperr.ErrNotFound("exception_not_found")
	}

	s.cache.InvalidateDay(ctx, barberID, date)
	s.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "schedule_exception_deleted",
		Entity:   "barber",
		EntityID: &barberID,
		Metadata: map[string]string{"date": date},
	})
	return nil
}

// ListExceptions returns the exceptions dated within [from, to].
func (s *Schedules) ListExceptions(ctx context.Context, barberID uint, from, to string) ([]models.ScheduleException, error) {
	return s.store.ListExceptions(ctx, barberID, from, to)
}
