package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Conflict finders
// --------------------------------------------------

func (r *AppointmentGormRepository) FindByBarberAndDate(
	ctx context.Context,
	barberID uint,
	date time.Time,
) ([]models.Appointment, error) {
	return r.activeOnDay(ctx, "barber_id", barberID, date)
}

func (r *AppointmentGormRepository) FindByClientAndDate(
	ctx context.Context,
	clientID uint,
	date time.Time,
) ([]models.Appointment, error) {
	return r.activeOnDay(ctx, "client_id", clientID, date)
}

func (r *AppointmentGormRepository) activeOnDay(
	ctx context.Context,
	column string,
	id uint,
	date time.Time,
) ([]models.Appointment, error) {

	start, end := timezone.DayBounds(date)

	var apps []models.Appointment
	if err := conn(ctx, r.db).
		Where(column+" = ? AND status <> ? AND start_time >= ? AND start_time < ?",
			id, string(domain.StatusCancelled), start, end,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := conn(ctx, r.db).
		Preload("Client").
		Preload("Barber").
		Preload("Procedure").
		First(&ap, id).Error; err != nil {
		return nil, notFound(err, "appointment_not_found")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentByToken(
	ctx context.Context,
	token string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := conn(ctx, r.db).
		Preload("Client").
		Preload("Barber").
		Preload("Procedure").
		Where("confirmation_token = ?", token).
		First(&ap).Error; err != nil {
		return nil, notFound(err, "invalid_token")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return conn(ctx, r.db).Omit("Client", "Barber", "Procedure").Create(ap).Error
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return conn(ctx, r.db).Omit("Client", "Barber", "Procedure").Save(ap).Error
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *AppointmentGormRepository) ListForBarber(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := conn(ctx, r.db).
		Preload("Client").
		Preload("Procedure").
		Where("barber_id = ? AND start_time >= ? AND start_time < ?", barberID, start, end).
		Order("start_time ASC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListForClient(
	ctx context.Context,
	clientID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := conn(ctx, r.db).
		Preload("Barber").
		Preload("Procedure").
		Where("client_id = ?", clientID).
		Order("start_time DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListByStatusBetween(
	ctx context.Context,
	status domain.Status,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := conn(ctx, r.db).
		Preload("Client").
		Preload("Barber").
		Preload("Procedure").
		Where("status = ? AND start_time >= ? AND start_time < ?", string(status), start, end).
		Order("start_time ASC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Participants
// --------------------------------------------------

func (r *AppointmentGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := conn(ctx, r.db).First(&u, id).Error; err != nil {
		return nil, notFound(err, "client_not_found")
	}
	return &u, nil
}

// GetOrCreateGuest reuses a previous guest with the same email. An email that
// belongs to a registered account is refused with email_taken.
func (r *AppointmentGormRepository) GetOrCreateGuest(
	ctx context.Context,
	name string,
	email string,
	phone string,
	locale string,
) (*models.User, error) {

	email = strings.ToLower(strings.TrimSpace(email))

	var u models.User
	err := conn(ctx, r.db).Where("email = ?", email).First(&u).Error
	if err == nil {
		if !u.IsGuest() || !u.Roles.Has(models.RoleClient) {
			return nil, httperr.ErrConflict("email_taken")
		}
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	u = models.User{
		Name:   name,
		Email:  email,
		Phone:  phone,
		Roles:  models.RoleClient,
		Locale: locale,
	}
	if err := conn(ctx, r.db).Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// --------------------------------------------------
// Procedure
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProcedure(
	ctx context.Context,
	id uint,
) (*models.Procedure, error) {

	var p models.Procedure
	if err := conn(ctx, r.db).First(&p, id).Error; err != nil {
		return nil, notFound(err, "procedure_not_found")
	}
	return &p, nil
}

// FindValidBarberProcedure returns a mapping that lets the barber perform
// the procedure at now, (nil, nil) when none does. Several rows may exist
// per pair; the most recently started valid one wins.
func (r *AppointmentGormRepository) FindValidBarberProcedure(
	ctx context.Context,
	barberID uint,
	procedureID uint,
	now time.Time,
) (*models.BarberProcedure, error) {

	var bp models.BarberProcedure
	err := conn(ctx, r.db).
		Where("barber_id = ? AND procedure_id = ?", barberID, procedureID).
		Where("can_perform = ? AND valid_from <= ?", true, now).
		Where("valid_until IS NULL OR valid_until > ?", now).
		Order("valid_from DESC").
		First(&bp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bp, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
