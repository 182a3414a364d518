package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/cache"
	domainAppointment "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	domainSchedule "github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	ucSchedule "github.com/BruksfildServices01/barber-booking/internal/usecase/schedule"
)

// Deps are the process-wide singletons built in main.
type Deps struct {
	DB  *gorm.DB
	Log *zap.Logger

	JWTSecret     string
	JWTTTL        time.Duration
	DefaultLocale string
	Serializable  bool

	// EmailDomainOK overrides the registration MX check; nil keeps the default.
	EmailDomainOK func(email string) bool

	Clock  timezone.Clock
	Cache  cache.AvailabilityCache
	Audit  handlers.Auditor
	Notify ucAppointment.Notifications
	Photos handlers.PhotoStorage
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.CORSMiddleware(),
		middleware.RequestLogger(d.Log),
		metrics.Middleware(),
		middleware.Locale(d.DefaultLocale),
	)

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	scheduleRepo := infraRepo.NewScheduleGormRepository(d.DB)
	tx := infraRepo.NewTxManager(d.DB, d.Serializable)

	resolver := domainSchedule.NewResolver(scheduleRepo)
	validator := domainAppointment.NewValidator(appointmentRepo, resolver, d.Clock)

	// ======================================================
	// USE CASES
	// ======================================================
	createUC := ucAppointment.NewCreateAppointment(appointmentRepo, tx, validator, d.Clock, d.Cache, d.Audit, d.Notify, d.Log)
	confirmUC := ucAppointment.NewConfirmAppointment(appointmentRepo, tx, d.Clock, d.Audit, d.Notify, d.Log)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, resolver, d.Clock, d.Cache)

	appointmentUCs := handlers.AppointmentUseCases{
		Create:        createUC,
		Cancel:        ucAppointment.NewCancelAppointment(appointmentRepo, tx, d.Clock, d.Cache, d.Audit, d.Notify, d.Log),
		Complete:      ucAppointment.NewCompleteAppointment(appointmentRepo, tx, d.Clock, d.Audit, d.Log),
		Reschedule:    ucAppointment.NewRescheduleAppointment(appointmentRepo, tx, d.Clock, d.Cache, d.Audit, d.Log),
		ManagerUpdate: ucAppointment.NewManagerUpdateAppointment(appointmentRepo, tx, validator, d.Clock, d.Cache, d.Audit, d.Notify, d.Log),
		PastStatus:    ucAppointment.NewUpdatePastStatus(appointmentRepo, tx, d.Clock, d.Audit, d.Log),
		List:          ucAppointment.NewListAppointments(appointmentRepo, d.Clock),
		Reminders:     ucAppointment.NewSendReminders(appointmentRepo, d.Clock, d.Notify, d.Log),
	}

	schedules := ucSchedule.NewSchedules(scheduleRepo, resolver, d.Cache, d.Audit, d.Log)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, handlers.AuthConfig{
		JWTSecret:     d.JWTSecret,
		JWTTTL:        d.JWTTTL,
		EmailDomainOK: d.EmailDomainOK,
	}, d.Clock, d.Log)
	meHandler := handlers.NewMeHandler(d.DB, d.Photos, d.Audit, d.Log)
	publicHandler := handlers.NewPublicHandler(d.DB, d.Clock, d.Photos, availabilityUC, createUC, confirmUC, d.Log)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentUCs, d.Clock, d.Log)
	scheduleHandler := handlers.NewScheduleHandler(d.DB, schedules, d.Clock, d.Log)
	procedureHandler := handlers.NewProcedureHandler(d.DB, d.Clock, d.Cache, d.Audit, d.Log)
	staffHandler := handlers.NewStaffHandler(d.DB, d.Cache, d.Audit, d.Photos, d.Log)
	clientHandler := handlers.NewClientHandler(d.DB, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, d.Clock, d.Log)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// ======================================================
	// PUBLIC
	// ======================================================
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	api.GET("/procedures", publicHandler.ListProcedures)
	api.GET("/barbers", publicHandler.ListBarbers)

	public := api.Group("/appointment")
	{
		public.GET("/api/availability/:date", publicHandler.Availability)
		public.POST("/guest", publicHandler.CreateGuest)
		public.GET("/confirm/:token", publicHandler.Confirm)
	}

	// ======================================================
	// AUTHENTICATED
	// ======================================================
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(d.JWTSecret))

	authed.GET("/me", meHandler.GetMe)
	authed.POST("/me/photo", middleware.RequireRole(models.RolesBarber), meHandler.UploadPhoto)

	appointments := authed.Group("/appointment")
	{
		appointments.POST("", middleware.RequireRole(models.RoleClient), appointmentHandler.Create)
		appointments.GET("/my", appointmentHandler.My)
		appointments.POST("/:id/cancel", appointmentHandler.Cancel)
		appointments.POST("/:id/reschedule", middleware.RequireRole(models.RoleClient), appointmentHandler.Reschedule)
		appointments.POST("/:id/complete", middleware.RequireRole(models.RolesBarber), appointmentHandler.Complete)
	}

	// ======================================================
	// BARBER
	// ======================================================
	barber := authed.Group("/barber")
	barber.Use(middleware.RequireRole(models.RolesBarber))
	{
		barber.GET("/appointments", appointmentHandler.ByDate)
		barber.GET("/appointments/month", appointmentHandler.ByMonth)

		barber.GET("/schedule", scheduleHandler.GetWeekly)
		barber.PUT("/schedule", scheduleHandler.UpdateWeekly)
		barber.GET("/schedule/exceptions", scheduleHandler.ListExceptions)
		barber.POST("/schedule/exceptions", scheduleHandler.SaveException)
		barber.DELETE("/schedule/exceptions/:date", scheduleHandler.DeleteException)
	}

	// ======================================================
	// MANAGER / ADMIN
	// ======================================================
	manager := authed.Group("/manager")
	manager.Use(middleware.RequireRole(models.RolesStaff))
	{
		manager.POST("/appointment/:id/update", appointmentHandler.ManagerUpdate)
		manager.POST("/appointment/:id/status", appointmentHandler.PastStatus)
		manager.POST("/appointment/:id/cancel", appointmentHandler.Cancel)

		manager.GET("/barbers", staffHandler.ListBarbers)
		manager.POST("/barbers", staffHandler.CreateBarber)
		manager.PATCH("/barbers/:id/tier", staffHandler.UpdateTier)
		manager.GET("/barbers/:id/schedule", scheduleHandler.GetWeekly)
		manager.PUT("/barbers/:id/schedule", scheduleHandler.UpdateWeekly)
		manager.GET("/barbers/:id/schedule/exceptions", scheduleHandler.ListExceptions)
		manager.POST("/barbers/:id/schedule/exceptions", scheduleHandler.SaveException)
		manager.DELETE("/barbers/:id/schedule/exceptions/:date", scheduleHandler.DeleteException)

		manager.GET("/procedures", procedureHandler.List)
		manager.POST("/procedures", procedureHandler.Create)
		manager.PATCH("/procedures/:id", procedureHandler.Update)
		manager.POST("/barber-procedures", procedureHandler.Assign)
		manager.DELETE("/barber-procedures/:id", procedureHandler.Deactivate)

		manager.GET("/clients", clientHandler.List)
		manager.GET("/audit-logs", auditLogsHandler.List)
		manager.POST("/reminders", appointmentHandler.Reminders)
	}
}
