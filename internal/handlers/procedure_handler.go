package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/cache"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ProcedureHandler is the manager's catalog: procedures and which barber
// performs which. Nothing here is hard-deleted.
type ProcedureHandler struct {
	db    *gorm.DB
	clock timezone.Clock
	cache cache.AvailabilityCache
	audit Auditor
	log   *zap.Logger
}

func NewProcedureHandler(
	db *gorm.DB,
	clock timezone.Clock,
	cache cache.AvailabilityCache,
	auditor Auditor,
	log *zap.Logger,
) *ProcedureHandler {
	return &ProcedureHandler{db: db, clock: clock, cache: cache, audit: auditor, log: log}
}

// --------- Requests ---------

type CreateProcedureRequest struct {
	Name           string  `json:"name" binding:"required,max=100"`
	Description    string  `json:"description" binding:"max=255"`
	PriceMaster    float64 `json:"price_master" binding:"min=0"`
	DurationMaster int     `json:"duration_master" binding:"required,min=1"`
	PriceJunior    float64 `json:"price_junior" binding:"min=0"`
	DurationJunior int     `json:"duration_junior" binding:"required,min=1"`
}

type UpdateProcedureRequest struct {
	Name           *string  `json:"name,omitempty" binding:"omitempty,max=100"`
	Description    *string  `json:"description,omitempty" binding:"omitempty,max=255"`
	PriceMaster    *float64 `json:"price_master,omitempty" binding:"omitempty,min=0"`
	DurationMaster *int     `json:"duration_master,omitempty" binding:"omitempty,min=1"`
	PriceJunior    *float64 `json:"price_junior,omitempty" binding:"omitempty,min=0"`
	DurationJunior *int     `json:"duration_junior,omitempty" binding:"omitempty,min=1"`
	Available      *bool    `json:"available,omitempty"`
}

type AssignProcedureRequest struct {
	BarberID    uint   `json:"barber_id" binding:"required"`
	ProcedureID uint   `json:"procedure_id" binding:"required"`
	ValidFrom   string `json:"valid_from" binding:"omitempty,isodate"`
}

// --------- Procedures ---------

// List takes optional ?available=true|false and ?query=.
func (h *ProcedureHandler) List(c *gin.Context) {
	q := h.db.Model(&models.Procedure{})

	switch strings.TrimSpace(c.Query("available")) {
	case "true":
		q = q.Where("available = ?", true)
	case "false":
		q = q.Where("available = ?", false)
	}

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var procedures []models.Procedure
	if err := q.Order("id ASC").Find(&procedures).Error; err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, procedures)
}

func (h *ProcedureHandler) Create(c *gin.Context) {
	var req CreateProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	p := models.Procedure{
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		PriceMaster:    req.PriceMaster,
		DurationMaster: req.DurationMaster,
		PriceJunior:    req.PriceJunior,
		DurationJunior: req.DurationJunior,
		Available:      true,
		AddedAt:        h.clock.Now(),
	}

	if err := h.db.Create(&p).Error; err != nil {
		fail(c, h.log, err)
		return
	}

	writeAudit(c, h.audit, "procedure_created", "procedure", p.ID, p)
	c.JSON(http.StatusCreated, p)
}

// Update patches a procedure. Setting available=false stops it and stamps
// stopped_at; setting it back clears the stamp.
func (h *ProcedureHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	var p models.Procedure
	if err := h.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = httperr.ErrNotFound("procedure_not_found")
		}
		fail(c, h.log, err)
		return
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.PriceMaster != nil {
		p.PriceMaster = *req.PriceMaster
	}
	if req.DurationMaster != nil {
		p.DurationMaster = *req.DurationMaster
	}
	if req.PriceJunior != nil {
		p.PriceJunior = *req.PriceJunior
	}
	if req.DurationJunior != nil {
		p.DurationJunior = *req.DurationJunior
	}
	if req.Available != nil && *req.Available != p.Available {
		p.Available = *req.Available
		if p.Available {
			p.StoppedAt = nil
		} else {
			now := h.clock.Now()
			p.StoppedAt = &now
		}
	}

	if err := h.db.Save(&p).Error; err != nil {
		fail(c, h.log, err)
		return
	}

	if req.DurationMaster != nil || req.DurationJunior != nil || req.Available != nil {
		h.invalidateOfferers(c, p.ID)
	}

	writeAudit(c, h.audit, "procedure_updated", "procedure", p.ID, req)
	c.JSON(http.StatusOK, p)
}

// --------- Barber procedures ---------

func (h *ProcedureHandler) Assign(c *gin.Context) {
	var req AssignProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	validFrom := h.clock.Now()
	if req.ValidFrom != "" {
		d, err := parseDay(h.clock, req.ValidFrom)
		if err != nil {
			fail(c, h.log, err)
			return
		}
		validFrom = d
	}

	var barber models.User
	if err := h.db.First(&barber, req.BarberID).Error; err != nil || !barber.Roles.IsBarber() {
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			err = httperr.ErrNotFound("barber_not_found")
		}
		fail(c, h.log, err)
		return
	}

	var p models.Procedure
	if err := h.db.First(&p, req.ProcedureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = httperr.ErrNotFound("procedure_not_found")
		}
		fail(c, h.log, err)
		return
	}

	bp := models.BarberProcedure{
		BarberID:    barber.ID,
		ProcedureID: p.ID,
		CanPerform:  true,
		ValidFrom:   validFrom,
	}
	if err := h.db.Omit("Barber", "Procedure").Create(&bp).Error; err != nil {
		fail(c, h.log, err)
		return
	}
	bp.Procedure = p

	h.cache.InvalidateBarber(c.Request.Context(), barber.ID)
	writeAudit(c, h.audit, "barber_procedure_assigned", "barber_procedure", bp.ID, req)

	c.JSON(http.StatusCreated, bp)
}

// Deactivate ends a barber-procedure mapping; the row stays as history.
func (h *ProcedureHandler) Deactivate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var bp models.BarberProcedure
	if err := h.db.First(&bp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = httperr.ErrNotFound("procedure_not_offered")
		}
		fail(c, h.log, err)
		return
	}

	now := h.clock.Now()
	bp.CanPerform = false
	bp.ValidUntil = &now

	if err := h.db.Model(&bp).Select("can_perform", "valid_until").Updates(&bp).Error; err != nil {
		fail(c, h.log, err)
		return
	}

	h.cache.InvalidateBarber(c.Request.Context(), bp.BarberID)
	writeAudit(c, h.audit, "barber_procedure_deactivated", "barber_procedure", bp.ID, nil)

	c.JSON(http.StatusOK, bp)
}

func (h *ProcedureHandler) invalidateOfferers(c *gin.Context, procedureID uint) {
	var barberIDs []uint
	if err := h.db.Model(&models.BarberProcedure{}).
		Where("procedure_id = ?", procedureID).
		Distinct().
		Pluck("barber_id", &barberIDs).Error; err != nil {
		h.log.Warn("list procedure barbers", zap.Uint("procedure_id", procedureID), zap.Error(err))
		return
	}

	for _, id := range barberIDs {
		h.cache.InvalidateBarber(c.Request.Context(), id)
	}
}
