package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) GetWeeklySchedule(
	ctx context.Context,
	barberID uint,
) (*models.WeeklySchedule, error) {

	var ws models.WeeklySchedule
	err := conn(ctx, r.db).Where("barber_id = ?", barberID).First(&ws).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// SaveWeeklySchedule replaces the barber's template in place.
func (r *ScheduleGormRepository) SaveWeeklySchedule(
	ctx context.Context,
	ws *models.WeeklySchedule,
) error {
	return conn(ctx, r.db).
		Omit("Barber").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "barber_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"days", "updated_at"}),
		}).
		Create(ws).Error
}

func (r *ScheduleGormRepository) GetException(
	ctx context.Context,
	barberID uint,
	date string,
) (*models.ScheduleException, error) {

	var e models.ScheduleException
	err := conn(ctx, r.db).
		Where("barber_id = ? AND date = ?", barberID, date).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// SaveException stores e, replacing any exception already set for its date.
func (r *ScheduleGormRepository) SaveException(
	ctx context.Context,
	e *models.ScheduleException,
) error {
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "barber_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"is_available", "start_time", "end_time", "excluded_slots",
				"reason", "created_by_id", "created_at",
			}),
		}).
		Create(e).Error
}

// DeleteException reports whether a row was removed.
func (r *ScheduleGormRepository) DeleteException(
	ctx context.Context,
	barberID uint,
	date string,
) (bool, error) {
	res := conn(ctx, r.db).
		Where("barber_id = ? AND date = ?", barberID, date).
		Delete(&models.ScheduleException{})
	return res.RowsAffected > 0, res.Error
}

func (r *ScheduleGormRepository) ListExceptions(
	ctx context.Context,
	barberID uint,
	from string,
	to string,
) ([]models.ScheduleException, error) {

	var out []models.ScheduleException
	err := conn(ctx, r.db).
		Where("barber_id = ? AND date >= ? AND date <= ?", barberID, from, to).
		Order("date ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

var _ schedule.Repository = (*ScheduleGormRepository)(nil)
