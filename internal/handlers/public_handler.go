package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	usecase "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the unauthenticated booking flow: catalog,
// availability, guest booking and the emailed confirmation link.
type PublicHandler struct {
	db     *gorm.DB
	clock  timezone.Clock
	photos PhotoStorage

	availability *usecase.GetAvailability
	create       *usecase.CreateAppointment
	confirm      *usecase.ConfirmAppointment

	log *zap.Logger
}

func NewPublicHandler(
	db *gorm.DB,
	clock timezone.Clock,
	photos PhotoStorage,
	availability *usecase.GetAvailability,
	create *usecase.CreateAppointment,
	confirm *usecase.ConfirmAppointment,
	log *zap.Logger,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		clock:        clock,
		photos:       photos,
		availability: availability,
		create:       create,
		confirm:      confirm,
		log:          log,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type GuestAppointmentRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required,max=20"`
	BarberID    uint   `json:"barber_id" binding:"required"`
	ProcedureID uint   `json:"procedure_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	Notes       string `json:"notes" binding:"max=500"`
}

type barberOffer struct {
	ProcedureID     uint    `json:"procedure_id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

type publicBarber struct {
	ID         uint          `json:"id"`
	Name       string        `json:"name"`
	Tier       models.Tier   `json:"tier"`
	PhotoURL   string        `json:"photo_url,omitempty"`
	Procedures []barberOffer `json:"procedures"`
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListProcedures(c *gin.Context) {
	q := h.db.Where("available = ?", true)

	if query := strings.TrimSpace(strings.ToLower(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var procedures []models.Procedure
	if err := q.Order("name ASC").Find(&procedures).Error; err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, procedures)
}

// ListBarbers returns every barber with the procedures they currently
// perform, priced and timed for their tier. ?procedure_id= narrows the list
// to barbers offering that procedure.
func (h *PublicHandler) ListBarbers(c *gin.Context) {
	var procedureID uint
	if c.Query("procedure_id") != "" {
		id, ok := queryID(c, "procedure_id")
		if !ok {
			return
		}
		procedureID = id
	}

	var barbers []models.User
	if err := h.db.
		Where("roles & ? <> 0", models.RolesBarber).
		Order("name ASC").
		Find(&barbers).Error; err != nil {
		fail(c, h.log, err)
		return
	}

	ids := make([]uint, 0, len(barbers))
	for _, b := range barbers {
		ids = append(ids, b.ID)
	}

	var mappings []models.BarberProcedure
	if len(ids) > 0 {
		if err := h.db.
			Preload("Procedure").
			Where("barber_id IN ? AND can_perform = ?", ids, true).
			Find(&mappings).Error; err != nil {
			fail(c, h.log, err)
			return
		}
	}

	now := h.clock.Now()
	offers := make(map[uint][]models.BarberProcedure)
	for _, m := range mappings {
		if m.IsCurrentlyValid(now) && m.Procedure.Available {
			offers[m.BarberID] = append(offers[m.BarberID], m)
		}
	}

	out := make([]publicBarber, 0, len(barbers))
	for _, b := range barbers {
		tier := b.Roles.Tier()
		pb := publicBarber{
			ID:         b.ID,
			Name:       b.Name,
			Tier:       tier,
			Procedures: []barberOffer{},
		}
		if b.PhotoKey != "" && h.photos != nil {
			pb.PhotoURL = h.photos.URL(b.PhotoKey)
		}

		offered := false
		seen := make(map[uint]bool)
		for _, m := range offers[b.ID] {
			if seen[m.ProcedureID] {
				continue
			}
			seen[m.ProcedureID] = true
			offered = offered || m.ProcedureID == procedureID

			pb.Procedures = append(pb.Procedures, barberOffer{
				ProcedureID:     m.ProcedureID,
				Name:            m.Procedure.Name,
				DurationMinutes: m.Procedure.DurationFor(tier),
				Price:           m.Procedure.PriceFor(tier),
			})
		}

		if procedureID != 0 && !offered {
			continue
		}
		out = append(out, pb)
	}

	c.JSON(http.StatusOK, out)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

// Availability lists free start times for /availability/:date?barber_id=&procedure_id=.
func (h *PublicHandler) Availability(c *gin.Context) {
	date, err := parseDay(h.clock, c.Param("date"))
	if err != nil {
		fail(c, h.log, err)
		return
	}

	barberID, ok := queryID(c, "barber_id")
	if !ok {
		return
	}
	procedureID, ok := queryID(c, "procedure_id")
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarberID:    barberID,
		ProcedureID: procedureID,
		Date:        date,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":      c.Param("date"),
		"barber_id": barberID,
		"slots":     slots,
	})
}

////////////////////////////////////////////////////////
// GUEST BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateGuest(c *gin.Context) {
	var req GuestAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	ap, err := h.create.ExecuteGuest(c.Request.Context(), usecase.GuestAppointmentInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		BarberID:    req.BarberID,
		ProcedureID: req.ProcedureID,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
		Locale:      middleware.LocaleFrom(c),
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         ap.ID,
		"status":     ap.Status,
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime(),
	})
}

// Confirm is the target of the emailed link.
func (h *PublicHandler) Confirm(c *gin.Context) {
	ap, err := h.confirm.Execute(c.Request.Context(), c.Param("token"))
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         ap.ID,
		"status":     ap.Status,
		"start_time": ap.StartTime,
	})
}
