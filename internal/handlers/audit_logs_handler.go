package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db    *gorm.DB
	clock timezone.Clock
	log   *zap.Logger
}

func NewAuditLogsHandler(db *gorm.DB, clock timezone.Clock, log *zap.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, clock: clock, log: log}
}

// List filters by ?action=, ?entity=, ?entity_id=, ?user_id= and the
// ?from=/?to= date range, newest first.
func (h *AuditLogsHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	q := h.db.Model(&models.AuditLog{})

	// --------------------------------------------------
	// Filters
	// --------------------------------------------------

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}

	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if s := c.Query("entity_id"); s != "" {
		if id, err := strconv.ParseUint(s, 10, 64); err == nil {
			q = q.Where("entity_id = ?", id)
		}
	}

	if s := c.Query("user_id"); s != "" {
		if id, err := strconv.ParseUint(s, 10, 64); err == nil {
			q = q.Where("user_id = ?", id)
		}
	}

	if s := c.Query("from"); s != "" {
		if from, err := timezone.ParseDate(h.clock, s); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}

	if s := c.Query("to"); s != "" {
		if to, err := timezone.ParseDate(h.clock, s); err == nil {
			q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
		}
	}

	// --------------------------------------------------
	// Total + page
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		fail(c, h.log, err)
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
