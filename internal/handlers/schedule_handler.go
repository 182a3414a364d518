package handlers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/schedule"
)

const defaultExceptionWindowDays = 60

// ScheduleHandler edits a barber's weekly template and date exceptions.
// Barber routes act on the caller; manager routes carry the barber in :id.
type ScheduleHandler struct {
	db        *gorm.DB
	schedules *schedule.Schedules
	clock     timezone.Clock
	log       *zap.Logger
}

func NewScheduleHandler(db *gorm.DB, schedules *schedule.Schedules, clock timezone.Clock, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{db: db, schedules: schedules, clock: clock, log: log}
}

type WorkingDayConfig struct {
	Weekday *int   `json:"weekday" binding:"required,weekday"`
	Working bool   `json:"working"`
	Start   string `json:"start" binding:"omitempty,hhmm"`
	End     string `json:"end" binding:"omitempty,hhmm"`
}

type WeeklyScheduleRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,len=7,dive"`
}

type ExceptionRequest struct {
	Date          string   `json:"date" binding:"required,isodate"`
	IsAvailable   bool     `json:"is_available"`
	StartTime     *string  `json:"start_time" binding:"omitempty,hhmm"`
	EndTime       *string  `json:"end_time" binding:"omitempty,hhmm"`
	ExcludedSlots []string `json:"excluded_slots" binding:"omitempty,dive,hhmm"`
	Reason        string   `json:"reason" binding:"max=255"`
}

// ------------------------------------------------------
// Weekly
// ------------------------------------------------------

func (h *ScheduleHandler) GetWeekly(c *gin.Context) {
	barberID, ok := h.targetBarber(c)
	if !ok {
		return
	}

	template, err := h.schedules.GetWeekly(c.Request.Context(), barberID)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"barber_id": barberID, "days": toDays(template)})
}

func (h *ScheduleHandler) UpdateWeekly(c *gin.Context) {
	barberID, ok := h.targetBarber(c)
	if !ok {
		return
	}

	var req WeeklyScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	template := make(models.WeeklyTemplate, len(req.Days))
	for _, d := range req.Days {
		day := models.DaySchedule{Working: d.Working}
		if d.Working {
			day.Start, day.End = d.Start, d.End
		}
		template[*d.Weekday] = day
	}

	err := h.schedules.SaveWeekly(c.Request.Context(), middleware.UserIDFrom(c), barberID, template)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"barber_id": barberID, "days": toDays(template)})
}

// ------------------------------------------------------
// Exceptions
// ------------------------------------------------------

// ListExceptions takes ?from=&to= (YYYY-MM-DD), defaulting to the next 60 days.
func (h *ScheduleHandler) ListExceptions(c *gin.Context) {
	barberID, ok := h.targetBarber(c)
	if !ok {
		return
	}

	today := h.clock.Now()
	from := c.DefaultQuery("from", today.Format(timezone.DateLayout))
	to := c.DefaultQuery("to", today.AddDate(0, 0, defaultExceptionWindowDays).Format(timezone.DateLayout))

	for _, s := range []string{from, to} {
		if _, err := parseDay(h.clock, s); err != nil {
			fail(c, h.log, err)
			return
		}
	}

	list, err := h.schedules.ListExceptions(c.Request.Context(), barberID, from, to)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *ScheduleHandler) SaveException(c *gin.Context) {
	barberID, ok := h.targetBarber(c)
	if !ok {
		return
	}

	var req ExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	e, err := h.schedules.SaveException(c.Request.Context(), schedule.ExceptionInput{
		ActorID:       middleware.UserIDFrom(c),
		BarberID:      barberID,
		Date:          req.Date,
		IsAvailable:   req.IsAvailable,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		ExcludedSlots: req.ExcludedSlots,
		Reason:        req.Reason,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, e)
}

func (h *ScheduleHandler) DeleteException(c *gin.Context) {
	barberID, ok := h.targetBarber(c)
	if !ok {
		return
	}

	date := c.Param("date")
	if _, err := parseDay(h.clock, date); err != nil {
		fail(c, h.log, err)
		return
	}

	if err := h.schedules.DeleteException(c.Request.Context(), middleware.UserIDFrom(c), barberID, date); err != nil {
		fail(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ------------------------------------------------------
// Helpers
// ------------------------------------------------------

func (h *ScheduleHandler) targetBarber(c *gin.Context) (uint, bool) {
	if c.Param("id") == "" {
		return middleware.UserIDFrom(c), true
	}

	id, ok := paramID(c, "id")
	if !ok {
		return 0, false
	}

	var barber models.User
	err := h.db.Select("id", "roles").First(&barber, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !barber.Roles.IsBarber()) {
		fail(c, h.log, httperr.ErrNotFound("barber_not_found"))
		return 0, false
	}
	if err != nil {
		fail(c, h.log, err)
		return 0, false
	}
	return id, true
}

type dayView struct {
	Weekday int    `json:"weekday"`
	Working bool   `json:"working"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

func toDays(t models.WeeklyTemplate) []dayView {
	out := make([]dayView, 0, len(t))
	for wd, d := range t {
		out = append(out, dayView{Weekday: wd, Working: d.Working, Start: d.Start, End: d.End})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out
}
