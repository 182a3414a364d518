package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/cache"
	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

var tierRoles = map[models.Tier]models.RoleSet{
	models.TierJunior:   models.RoleBarberJunior,
	models.TierStandard: models.RoleBarber,
	models.TierSenior:   models.RoleBarberSenior,
}

// StaffHandler lets managers create barber accounts and change their tier.
type StaffHandler struct {
	db     *gorm.DB
	cache  cache.AvailabilityCache
	audit  Auditor
	photos PhotoStorage
	log    *zap.Logger
}

func NewStaffHandler(
	db *gorm.DB,
	cache cache.AvailabilityCache,
	auditor Auditor,
	photos PhotoStorage,
	log *zap.Logger,
) *StaffHandler {
	return &StaffHandler{db: db, cache: cache, audit: auditor, photos: photos, log: log}
}

type CreateBarberRequest struct {
	Name     string      `json:"name" binding:"required,max=100"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Phone    string      `json:"phone" binding:"max=20"`
	Tier     models.Tier `json:"tier" binding:"required,oneof=junior standard senior"`
	Locale   string      `json:"locale" binding:"omitempty,oneof=bg en"`
}

type UpdateTierRequest struct {
	Tier models.Tier `json:"tier" binding:"required,oneof=junior standard senior"`
}

// CreateBarber adds the account together with the default weekly schedule.
func (h *StaffHandler) CreateBarber(c *gin.Context) {
	var req CreateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	locale := req.Locale
	if locale == "" {
		locale = middleware.LocaleFrom(c)
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Roles:        tierRoles[req.Tier],
		Locale:       locale,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrConflict("email_taken")
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		ws := models.WeeklySchedule{
			BarberID: user.ID,
			Days:     datatypes.NewJSONType(schedule.DefaultTemplate()),
		}
		return tx.Omit("Barber").Create(&ws).Error
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	writeAudit(c, h.audit, "barber_created", "user", user.ID, gin.H{"tier": req.Tier})
	h.log.Info("barber created", zap.Uint("barber_id", user.ID), zap.String("tier", string(req.Tier)))

	c.JSON(http.StatusCreated, gin.H{"user": userView(&user, h.photos)})
}

func (h *StaffHandler) ListBarbers(c *gin.Context) {
	var barbers []models.User
	if err := h.db.
		Where("roles & ? <> 0", models.RolesBarber).
		Order("name ASC").
		Find(&barbers).Error; err != nil {
		fail(c, h.log, err)
		return
	}

	out := make([]gin.H, 0, len(barbers))
	for i := range barbers {
		out = append(out, userView(&barbers[i], h.photos))
	}
	c.JSON(http.StatusOK, out)
}

// UpdateTier swaps the barber role bits, leaving any other role untouched.
// Durations of future bookings are not recomputed.
func (h *StaffHandler) UpdateTier(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil || !user.Roles.IsBarber() {
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			err = httperr.ErrNotFound("barber_not_found")
		}
		fail(c, h.log, err)
		return
	}

	user.Roles = user.Roles&^models.RolesBarber | tierRoles[req.Tier]
	if err := h.db.Model(&user).Update("roles", user.Roles).Error; err != nil {
		fail(c, h.log, err)
		return
	}

	h.cache.InvalidateBarber(c.Request.Context(), user.ID)
	writeAudit(c, h.audit, "barber_tier_updated", "user", user.ID, gin.H{"tier": req.Tier})

	c.JSON(http.StatusOK, gin.H{"user": userView(&user, h.photos)})
}
