package handlers

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/i18n"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	usecase "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

// PhotoStorage is the barber photo backend; handlers treat a nil one as disabled.
type PhotoStorage interface {
	UploadBarberPhoto(ctx context.Context, barberID uint, r io.Reader) (string, error)
	URL(key string) string
}

// --------------------------------------------------
// Errors
// --------------------------------------------------

func fail(c *gin.Context, log *zap.Logger, err error) {
	httperr.Respond(c, log, err, middleware.LocaleFrom(c))
}

func invalidRequest(c *gin.Context) {
	httperr.BadRequest(c, "invalid_request", i18n.T(middleware.LocaleFrom(c), "invalid_request"))
}

// --------------------------------------------------
// Params
// --------------------------------------------------

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		invalidRequest(c)
		return 0, false
	}
	return uint(id), true
}

func queryID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil || id == 0 {
		invalidRequest(c)
		return 0, false
	}
	return uint(id), true
}

// parseDay reads a "YYYY-MM-DD" in the clock's zone.
func parseDay(clock timezone.Clock, s string) (time.Time, error) {
	d, err := timezone.ParseDate(clock, s)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_date")
	}
	return d, nil
}

func callerOf(c *gin.Context) usecase.Caller {
	return usecase.Caller{
		UserID: middleware.UserIDFrom(c),
		Roles:  middleware.RolesFrom(c),
	}
}

// --------------------------------------------------
// Views
// --------------------------------------------------

func userView(u *models.User, photos PhotoStorage) gin.H {
	view := gin.H{
		"id":     u.ID,
		"name":   u.Name,
		"email":  u.Email,
		"phone":  u.Phone,
		"roles":  u.Roles.Names(),
		"locale": u.Locale,
	}
	if u.Roles.IsBarber() {
		view["tier"] = u.Roles.Tier()
	}
	if u.PhotoKey != "" && photos != nil {
		view["photo_url"] = photos.URL(u.PhotoKey)
	}
	return view
}

func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return page, limit
}
