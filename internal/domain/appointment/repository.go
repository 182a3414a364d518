package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Finders used by the availability validator. Both return the
// non-cancelled appointments starting on the calendar day of date.
type Finder interface {
	FindByBarberAndDate(ctx context.Context, barberID uint, date time.Time) ([]models.Appointment, error)
	FindByClientAndDate(ctx context.Context, clientID uint, date time.Time) ([]models.Appointment, error)
}

type Repository interface {
	Finder

	// -------- Appointment --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	GetAppointmentByToken(ctx context.Context, token string) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	ListForBarber(ctx context.Context, barberID uint, start, end time.Time) ([]models.Appointment, error)
	ListForClient(ctx context.Context, clientID uint) ([]models.Appointment, error)
	ListByStatusBetween(ctx context.Context, status Status, start, end time.Time) ([]models.Appointment, error)

	// -------- Participants --------
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetOrCreateGuest(ctx context.Context, name, email, phone, locale string) (*models.User, error)

	// -------- Procedure --------
	GetProcedure(ctx context.Context, id uint) (*models.Procedure, error)
	FindValidBarberProcedure(ctx context.Context, barberID, procedureID uint, now time.Time) (*models.BarberProcedure, error)
}
