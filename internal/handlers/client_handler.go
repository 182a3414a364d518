package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ClientHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewClientHandler(db *gorm.DB, log *zap.Logger) *ClientHandler {
	return &ClientHandler{db: db, log: log}
}

type clientView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Guest bool   `json:"guest"`
}

// ======================================================
// LIST CLIENTS (MANAGER)
// ======================================================

// List searches clients by ?query= over name, phone and email, paged by
// ?page=&limit=.
func (h *ClientHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	q := h.db.Model(&models.User{}).Where("roles & ? <> 0", models.RoleClient)

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		fail(c, h.log, err)
		return
	}

	var clients []models.User
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&clients).Error; err != nil {
		fail(c, h.log, err)
		return
	}

	out := make([]clientView, 0, len(clients))
	for _, u := range clients {
		out = append(out, clientView{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
			Phone: u.Phone,
			Guest: u.IsGuest(),
		})
	}

	httpresp.Page(c, out, page, limit, total)
}
