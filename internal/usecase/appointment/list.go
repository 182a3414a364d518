package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type ListAppointments struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewListAppointments(
	repo domain.Repository,
	clock timezone.Clock,
) *ListAppointments {
	return &ListAppointments{
		repo:  repo,
		clock: clock,
	}
}

// ByDate lists the barber's appointments of one calendar day, cancelled ones included.
func (uc *ListAppointments) ByDate(
	ctx context.Context,
	barberID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	start, end := timezone.DayBounds(date.In(uc.clock.Location()))
	return uc.forBarber(ctx, barberID, start, end)
}

func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	barberID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, uc.clock.Location())
	return uc.forBarber(ctx, barberID, start, start.AddDate(0, 1, 0))
}

// ForClient lists the client's bookings, newest first.
func (uc *ListAppointments) ForClient(
	ctx context.Context,
	clientID uint,
) ([]dto.AppointmentListDTO, error) {

	apps, err := uc.repo.ListForClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return uc.toDTO(apps), nil
}

func (uc *ListAppointments) forBarber(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]dto.AppointmentListDTO, error) {

	apps, err := uc.repo.ListForBarber(ctx, barberID, start, end)
	if err != nil {
		return nil, err
	}
	return uc.toDTO(apps), nil
}

func (uc *ListAppointments) toDTO(apps []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(apps))
	for i := range apps {
		ap := &apps[i]
		out = append(out, dto.AppointmentListDTO{
			ID:                 ap.ID,
			StartTime:          ap.StartTime.In(uc.clock.Location()),
			EndTime:            ap.EndTime().In(uc.clock.Location()),
			DurationMinutes:    ap.DurationMinutes,
			Status:             ap.Status,
			ClientName:         ap.Client.Name,
			BarberName:         ap.Barber.Name,
			ProcedureName:      ap.Procedure.Name,
			Notes:              ap.Notes,
			CancellationReason: ap.CancellationReason,
		})
	}
	return out
}
