package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/i18n"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

type AuthConfig struct {
	JWTSecret string
	JWTTTL    time.Duration

	// EmailDomainOK defaults to an MX/A lookup of the address domain.
	EmailDomainOK func(email string) bool
}

type AuthHandler struct {
	db    *gorm.DB
	cfg   AuthConfig
	clock timezone.Clock
	log   *zap.Logger
}

func NewAuthHandler(db *gorm.DB, cfg AuthConfig, clock timezone.Clock, log *zap.Logger) *AuthHandler {
	if cfg.EmailDomainOK == nil {
		cfg.EmailDomainOK = validators.IsEmailDomainValid
	}
	return &AuthHandler{db: db, cfg: cfg, clock: clock, log: log}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"max=20"`
	Locale   string `json:"locale"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register creates a client account. An email already used for a guest
// booking is claimed by setting a password on that user.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !h.cfg.EmailDomainOK(email) {
		fail(c, h.log, httperr.ErrValidation("invalid_email_domain"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	locale := i18n.Normalize(req.Locale, middleware.LocaleFrom(c))

	var user models.User
	err = h.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", email).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.User{
				Name:         strings.TrimSpace(req.Name),
				Email:        email,
				PasswordHash: string(hashed),
				Phone:        req.Phone,
				Roles:        models.RoleClient,
				Locale:       locale,
			}
			return tx.Create(&user).Error
		case err != nil:
			return err
		case !user.IsGuest():
			return httperr.ErrConflict("email_taken")
		}

		user.Name = strings.TrimSpace(req.Name)
		user.PasswordHash = string(hashed)
		user.Locale = locale
		if req.Phone != "" {
			user.Phone = req.Phone
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	token, err := middleware.IssueToken(h.cfg.JWTSecret, h.cfg.JWTTTL, &user, h.clock.Now())
	if err != nil {
		fail(c, h.log, err)
		return
	}

	h.log.Info("client registered", zap.Uint("user_id", user.ID))

	c.JSON(http.StatusCreated, gin.H{
		"user":  userView(&user, nil),
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	locale := middleware.LocaleFrom(c)

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", i18n.T(locale, "invalid_credentials"))
			return
		}
		fail(c, h.log, err)
		return
	}

	if user.IsGuest() ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		httperr.Unauthorized(c, "invalid_credentials", i18n.T(locale, "invalid_credentials"))
		return
	}

	token, err := middleware.IssueToken(h.cfg.JWTSecret, h.cfg.JWTTTL, &user, h.clock.Now())
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userView(&user, nil),
		"token": token,
	})
}
