package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/i18n"
	"github.com/BruksfildServices01/barber-booking/internal/media"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type MeHandler struct {
	db     *gorm.DB
	photos PhotoStorage
	audit  Auditor
	log    *zap.Logger
}

// NewMeHandler accepts a nil photos store when uploads are not configured.
func NewMeHandler(db *gorm.DB, photos PhotoStorage, auditor Auditor, log *zap.Logger) *MeHandler {
	return &MeHandler{db: db, photos: photos, audit: auditor, log: log}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userView(user, h.photos)})
}

// UploadPhoto replaces the calling barber's photo. Expects a multipart
// "photo" field with a JPEG, PNG or WebP image.
func (h *MeHandler) UploadPhoto(c *gin.Context) {
	if h.photos == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "photos_disabled",
			i18n.T(middleware.LocaleFrom(c), "photos_disabled"))
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadBytes+(1<<20))

	fh, err := c.FormFile("photo")
	if err != nil {
		fail(c, h.log, httperr.ErrValidation("invalid_image"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.log, httperr.ErrValidation("invalid_image"))
		return
	}
	defer f.Close()

	key, err := h.photos.UploadBarberPhoto(c.Request.Context(), user.ID, f)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	if err := h.db.Model(user).Update("photo_key", key).Error; err != nil {
		fail(c, h.log, err)
		return
	}
	user.PhotoKey = key

	writeAudit(c, h.audit, "barber_photo_updated", "user", user.ID, gin.H{"photo_key": key})

	c.JSON(http.StatusOK, gin.H{
		"photo_key": key,
		"photo_url": h.photos.URL(key),
	})
}

func (h *MeHandler) currentUser(c *gin.Context) (*models.User, bool) {
	var user models.User
	if err := h.db.First(&user, middleware.UserIDFrom(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = httperr.ErrNotFound("client_not_found")
		}
		fail(c, h.log, err)
		return nil, false
	}
	return &user, true
}
