package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	usecase "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// AppointmentUseCases groups the use cases behind the appointment routes.
type AppointmentUseCases struct {
	Create        *usecase.CreateAppointment
	Cancel        *usecase.CancelAppointment
	Complete      *usecase.CompleteAppointment
	Reschedule    *usecase.RescheduleAppointment
	ManagerUpdate *usecase.ManagerUpdateAppointment
	PastStatus    *usecase.UpdatePastStatus
	List          *usecase.ListAppointments
	Reminders     *usecase.SendReminders
}

type AppointmentHandler struct {
	uc    AppointmentUseCases
	clock timezone.Clock
	log   *zap.Logger
}

func NewAppointmentHandler(uc AppointmentUseCases, clock timezone.Clock, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{uc: uc, clock: clock, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	BarberID    uint   `json:"barber_id" binding:"required"`
	ProcedureID uint   `json:"procedure_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Notes       string `json:"notes" binding:"max=500"`
}

type ManagerUpdateRequest struct {
	BarberID    uint    `json:"barber_id" binding:"required"`
	ProcedureID uint    `json:"procedure_id" binding:"required"`
	Date        string  `json:"date" binding:"required"`
	Time        string  `json:"time" binding:"required"`
	Status      string  `json:"status" binding:"omitempty,oneof=pending confirmed"`
	Notes       *string `json:"notes" binding:"omitempty,max=500"`
}

type PastStatusRequest struct {
	Status string  `json:"status" binding:"required,oneof=completed no_show cancelled"`
	Notes  *string `json:"notes" binding:"omitempty,max=500"`
}

type RemindersRequest struct {
	Date string `json:"date" binding:"required,isodate"`
}

// ======================================================
// CLIENT
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	ap, err := h.uc.Create.Execute(c.Request.Context(), usecase.CreateAppointmentInput{
		ClientID:    middleware.UserIDFrom(c),
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

	c.JSON(http.StatusCreated, ap)
}

func (h *AppointmentHandler) My(c *gin.Context) {
	list, err := h.uc.List.ForClient(c.Request.Context(), middleware.UserIDFrom(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.List(c, list)
}

// Cancel is shared by clients, barbers and staff; ownership is checked
// against the caller's roles.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.uc.Cancel.Execute(c.Request.Context(), callerOf(c), id)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	hint, err := h.uc.Reschedule.Execute(c.Request.Context(), middleware.UserIDFrom(c), id)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, hint)
}

// ======================================================
// BARBER
// ======================================================

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.uc.Complete.Execute(c.Request.Context(), middleware.UserIDFrom(c), id)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ByDate lists the calling barber's day, ?date=YYYY-MM-DD, today by default.
func (h *AppointmentHandler) ByDate(c *gin.Context) {
	date := h.clock.Now()
	if s := c.Query("date"); s != "" {
		d, err := parseDay(h.clock, s)
		if err != nil {
			fail(c, h.log, err)
			return
		}
		date = d
	}

	list, err := h.uc.List.ByDate(c.Request.Context(), middleware.UserIDFrom(c), date)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.List(c, list)
}

// ByMonth lists ?year=&month=, the current month by default.
func (h *AppointmentHandler) ByMonth(c *gin.Context) {
	now := h.clock.Now()
	year, month := now.Year(), int(now.Month())

	if s := c.Query("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 2000 || y > 9999 {
			invalidRequest(c)
			return
		}
		year = y
	}
	if s := c.Query("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			invalidRequest(c)
			return
		}
		month = m
	}

	list, err := h.uc.List.ByMonth(c.Request.Context(), middleware.UserIDFrom(c), year, month)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.List(c, list)
}

// ======================================================
// MANAGER
// ======================================================

func (h *AppointmentHandler) ManagerUpdate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ManagerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	res, err := h.uc.ManagerUpdate.Execute(c.Request.Context(), usecase.ManagerUpdateInput{
		Manager:       callerOf(c),
		AppointmentID: id,
		BarberID:      req.BarberID,
		ProcedureID:   req.ProcedureID,
		Date:          req.Date,
		Time:          req.Time,
		Status:        req.Status,
		Notes:         req.Notes,
		Locale:        middleware.LocaleFrom(c),
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AppointmentHandler) PastStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req PastStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	ap, err := h.uc.PastStatus.Execute(c.Request.Context(), usecase.UpdatePastStatusInput{
		ManagerID:     middleware.UserIDFrom(c),
		AppointmentID: id,
		Status:        req.Status,
		Notes:         req.Notes,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Reminders(c *gin.Context) {
	var req RemindersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	date, err := parseDay(h.clock, req.Date)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	queued, err := h.uc.Reminders.Execute(c.Request.Context(), date)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"date": req.Date, "queued": queued})
}
