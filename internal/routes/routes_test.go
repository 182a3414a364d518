package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/cache"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

const jwtSecret = "routes-test"

// Monday 2025-12-08 08:00 UTC.
var testNow = time.Date(2025, 12, 8, 8, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validators.RegisterBindings(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type recordingAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *recordingAudit) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, ev.Action)
}

type recordingNotify struct {
	mu    sync.Mutex
	kinds []string
}

func (n *recordingNotify) add(kind string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
}

func (n *recordingNotify) AppointmentConfirmed(*models.Appointment)       { n.add("confirmation") }
func (n *recordingNotify) GuestConfirmationRequested(*models.Appointment) { n.add("guest") }
func (n *recordingNotify) AppointmentCancelled(*models.Appointment, string) {
	n.add("cancellation")
}
func (n *recordingNotify) AppointmentReminder(*models.Appointment) { n.add("reminder") }

type server struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	audit  *recordingAudit
	notify *recordingNotify

	client  models.User
	other   models.User
	barber  models.User
	junior  models.User
	manager models.User
	haircut models.Procedure
	retired models.Procedure
}

func newServer(t *testing.T) *server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	s := &server{
		t:      t,
		db:     db,
		router: gin.New(),
		audit:  &recordingAudit{},
		notify: &recordingNotify{},
	}

	RegisterRoutes(s.router, Deps{
		DB:            db,
		Log:           zap.NewNop(),
		JWTSecret:     jwtSecret,
		JWTTTL:        time.Hour,
		DefaultLocale: "bg",
		EmailDomainOK: func(string) bool { return true },
		Clock:         timezone.FixedClock{At: testNow},
		Cache:         cache.NopAvailabilityCache{},
		Audit:         s.audit,
		Notify:        s.notify,
	})

	s.client = s.user("Ivan", "ivan@example.com", "secret1", models.RoleClient)
	s.other = s.user("Maria", "maria@example.com", "secret1", models.RoleClient)
	s.barber = s.user("Georgi", "georgi@example.com", "secret1", models.RoleBarber)
	s.junior = s.user("Petar", "petar@example.com", "secret1", models.RoleBarberJunior)
	s.manager = s.user("Elena", "elena@example.com", "secret1", models.RoleManager)

	s.haircut = s.procedure("Haircut", true)
	s.retired = s.procedure("Old style", false)

	s.offer(s.barber, s.haircut)
	s.offer(s.junior, s.haircut)

	return s
}

func (s *server) user(name, email, password string, roles models.RoleSet) models.User {
	s.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(s.t, err)

	u := models.User{Name: name, Email: email, PasswordHash: string(hash), Roles: roles, Locale: "en"}
	require.NoError(s.t, s.db.Create(&u).Error)
	return u
}

func (s *server) procedure(name string, available bool) models.Procedure {
	s.t.Helper()
	p := models.Procedure{
		Name:           name,
		PriceMaster:    30,
		DurationMaster: 60,
		PriceJunior:    20,
		DurationJunior: 90,
		Available:      true,
		AddedAt:        testNow.AddDate(-1, 0, 0),
	}
	require.NoError(s.t, s.db.Create(&p).Error)
	if !available {
		require.NoError(s.t, s.db.Model(&p).Update("available", false).Error)
		p.Available = false
	}
	return p
}

func (s *server) offer(barber models.User, p models.Procedure) {
	s.t.Helper()
	bp := models.BarberProcedure{
		BarberID:    barber.ID,
		ProcedureID: p.ID,
		CanPerform:  true,
		ValidFrom:   testNow.AddDate(0, -1, 0),
	}
	require.NoError(s.t, s.db.Omit("Barber", "Procedure").Create(&bp).Error)
}

func (s *server) token(u models.User) string {
	s.t.Helper()
	tok, err := middleware.IssueToken(jwtSecret, time.Hour, &u, time.Now())
	require.NoError(s.t, err)
	return tok
}

// do sends a JSON request, authenticated as `as` unless it is nil.
func (s *server) do(method, path string, as *models.User, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en")
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(*as))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Errors  []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

type apBody struct {
	ID                 uint   `json:"id"`
	Status             string `json:"status"`
	CancellationReason string `json:"cancellation_reason"`
	DurationMinutes    int    `json:"duration_minutes"`
}

func (s *server) book(as models.User, barber models.User, date, hm string) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, "/api/appointment", &as, gin.H{
		"barber_id":    barber.ID,
		"procedure_id": s.haircut.ID,
		"date":         date,
		"time":         hm,
	})
}

// ======================================================
// OPS / AUTH
// ======================================================

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "barber_booking_http_requests_total")
}

func TestRegisterAndLogin(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/auth/register", nil, gin.H{
		"name":     "Nikola",
		"email":    "Nikola@Example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode[struct {
		User struct {
			Email string   `json:"email"`
			Roles []string `json:"roles"`
		} `json:"user"`
		Token string `json:"token"`
	}](t, w)
	assert.Equal(t, "nikola@example.com", body.User.Email)
	assert.Equal(t, []string{"client"}, body.User.Roles)
	assert.NotEmpty(t, body.Token)

	w = s.do(http.MethodPost, "/api/auth/register", nil, gin.H{
		"name": "Again", "email": "nikola@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email_taken", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPost, "/api/auth/login", nil, gin.H{
		"email": "nikola@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", nil, gin.H{
		"email": "nikola@example.com", "password": "wrong-one",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password.", decode[errorBody](t, w).Message)
}

func TestRegister_ClaimsGuestAccount(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/appointment/guest", nil, gin.H{
		"name": "Guest", "email": "guest@example.com", "phone": "+359888000111",
		"barber_id": s.barber.ID, "procedure_id": s.haircut.ID,
		"date": "2025-12-09", "time": "10:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/login", nil, gin.H{
		"email": "guest@example.com", "password": "anything",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/register", nil, gin.H{
		"name": "Guest Person", "email": "guest@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var count int64
	s.db.Model(&models.User{}).Where("email = ?", "guest@example.com").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestMe(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/api/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/me", &s.junior, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tier":"junior"`)

	// uploads are disabled without S3
	w = s.do(http.MethodPost, "/api/me/photo", &s.barber, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(http.MethodPost, "/api/me/photo", &s.client, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// ======================================================
// PUBLIC CATALOG
// ======================================================

func TestCatalog(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/api/procedures", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	procs := decode[[]models.Procedure](t, w)
	require.Len(t, procs, 1)
	assert.Equal(t, "Haircut", procs[0].Name)

	w = s.do(http.MethodGet, "/api/barbers", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	barbers := decode[[]struct {
		ID         uint   `json:"id"`
		Tier       string `json:"tier"`
		Procedures []struct {
			DurationMinutes int     `json:"duration_minutes"`
			Price           float64 `json:"price"`
		} `json:"procedures"`
	}](t, w)
	require.Len(t, barbers, 2)

	byID := map[uint]int{}
	for _, b := range barbers {
		require.Len(t, b.Procedures, 1)
		byID[b.ID] = b.Procedures[0].DurationMinutes
	}
	assert.Equal(t, 60, byID[s.barber.ID])
	assert.Equal(t, 90, byID[s.junior.ID])

	w = s.do(http.MethodGet, "/api/barbers?procedure_id=999", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestAvailability(t *testing.T) {
	s := newServer(t)

	path := "/api/appointment/api/availability/2025-12-09?barber_id=" + itoa(s.barber.ID) +
		"&procedure_id=" + itoa(s.haircut.ID)

	w := s.do(http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	before := decode[struct {
		Slots []struct {
			Start string `json:"start"`
		} `json:"slots"`
	}](t, w)
	require.NotEmpty(t, before.Slots)
	assert.Equal(t, "09:00", before.Slots[0].Start)

	require.Equal(t, http.StatusCreated, s.book(s.client, s.barber, "2025-12-09", "09:00").Code)

	w = s.do(http.MethodGet, path, nil, nil)
	after := decode[struct {
		Slots []struct {
			Start string `json:"start"`
		} `json:"slots"`
	}](t, w)
	for _, slot := range after.Slots {
		assert.NotEqual(t, "09:00", slot.Start)
		assert.NotEqual(t, "09:30", slot.Start)
	}

	w = s.do(http.MethodGet, "/api/appointment/api/availability/09-12-2025?barber_id=1&procedure_id=1", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date", decode[errorBody](t, w).Code)

	w = s.do(http.MethodGet, "/api/appointment/api/availability/2025-12-09", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ======================================================
// BOOKING
// ======================================================

func TestBooking_DoubleBookingRejected(t *testing.T) {
	s := newServer(t)

	w := s.book(s.client, s.barber, "2025-12-09", "10:00")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", decode[apBody](t, w).Status)

	w = s.book(s.other, s.barber, "2025-12-09", "10:30")
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "validation_failed", body.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "barber_busy", body.Errors[0].Code)
	assert.Equal(t, "The barber is busy at this time.", body.Errors[0].Message)

	// back-to-back is fine
	w = s.book(s.other, s.barber, "2025-12-09", "11:00")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.book(s.barber, s.barber, "2025-12-09", "14:00")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGuestBookingAndConfirmation(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/appointment/guest", nil, gin.H{
		"name": "Guest", "email": "guest@example.com", "phone": "+359888000111",
		"barber_id": s.barber.ID, "procedure_id": s.haircut.ID,
		"date": "2025-12-09", "time": "12:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[apBody](t, w)
	assert.Equal(t, "pending_confirmation", created.Status)

	var ap models.Appointment
	require.NoError(t, s.db.First(&ap, created.ID).Error)
	require.NotNil(t, ap.ConfirmationToken)

	w = s.do(http.MethodGet, "/api/appointment/confirm/"+*ap.ConfirmationToken, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", decode[apBody](t, w).Status)

	w = s.do(http.MethodGet, "/api/appointment/confirm/"+*ap.ConfirmationToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "invalid_token", decode[errorBody](t, w).Code)
}

func TestCancelAndReschedule(t *testing.T) {
	s := newServer(t)

	first := decode[apBody](t, s.book(s.client, s.barber, "2025-12-09", "10:00"))
	second := decode[apBody](t, s.book(s.client, s.barber, "2025-12-10", "10:00"))

	w := s.do(http.MethodPost, "/api/appointment/"+itoa(first.ID)+"/cancel", &s.other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "not_your_appointment", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPost, "/api/appointment/"+itoa(first.ID)+"/cancel", &s.client, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cancelled := decode[apBody](t, w)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, "cancelled by client", cancelled.CancellationReason)

	w = s.do(http.MethodPost, "/api/appointment/"+itoa(first.ID)+"/cancel", &s.client, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "already_cancelled", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPost, "/api/appointment/"+itoa(second.ID)+"/reschedule", &s.client, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	hint := decode[struct {
		BarberID    uint   `json:"barber_id"`
		ProcedureID uint   `json:"procedure_id"`
		Date        string `json:"date"`
	}](t, w)
	assert.Equal(t, s.barber.ID, hint.BarberID)
	assert.Equal(t, "2025-12-10", hint.Date)

	w = s.do(http.MethodGet, "/api/appointment/my", &s.client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)

	w = s.do(http.MethodPost, "/api/appointment/abc/cancel", &s.client, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ======================================================
// BARBER
// ======================================================

func TestBarberRoutes(t *testing.T) {
	s := newServer(t)

	require.Equal(t, http.StatusCreated, s.book(s.client, s.barber, "2025-12-09", "10:00").Code)

	w := s.do(http.MethodGet, "/api/barber/appointments?date=2025-12-09", &s.client, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/barber/appointments?date=2025-12-09", &s.barber, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
	assert.Contains(t, w.Body.String(), `"client_name":"Ivan"`)

	w = s.do(http.MethodGet, "/api/barber/appointments/month?year=2025&month=12", &s.barber, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = s.do(http.MethodGet, "/api/barber/appointments/month?month=13", &s.barber, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleRoutes(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/api/barber/schedule", &s.barber, nil)
	require.Equal(t, http.StatusOK, w.Code)
	weekly := decode[struct {
		Days []struct {
			Weekday int    `json:"weekday"`
			Working bool   `json:"working"`
			Start   string `json:"start"`
		} `json:"days"`
	}](t, w)
	require.Len(t, weekly.Days, 7)
	assert.False(t, weekly.Days[0].Working)
	assert.Equal(t, "09:00", weekly.Days[1].Start)

	days := make([]gin.H, 0, 7)
	for d := 0; d < 7; d++ {
		days = append(days, gin.H{"weekday": d, "working": d != 0, "start": "10:00", "end": "16:00"})
	}
	w = s.do(http.MethodPut, "/api/barber/schedule", &s.barber, gin.H{"days": days})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, s.audit.actions, "schedule_updated")

	// 09:00 is now before opening
	w = s.book(s.client, s.barber, "2025-12-09", "09:00")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "barber_not_working", decode[errorBody](t, w).Errors[0].Code)

	days[1]["start"] = "9:00"
	w = s.do(http.MethodPut, "/api/barber/schedule", &s.barber, gin.H{"days": days})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPost, "/api/barber/schedule/exceptions", &s.barber, gin.H{
		"date": "2025-12-10", "is_available": false, "reason": "holiday",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/barber/schedule/exceptions?from=2025-12-01&to=2025-12-31", &s.barber, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reason":"holiday"`)

	w = s.book(s.client, s.barber, "2025-12-10", "11:00")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/api/barber/schedule/exceptions/2025-12-10", &s.barber, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, "/api/barber/schedule/exceptions/2025-12-10", &s.barber, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "exception_not_found", decode[errorBody](t, w).Code)
}

// ======================================================
// MANAGER
// ======================================================

func TestManagerUpdateAndPastStatus(t *testing.T) {
	s := newServer(t)

	booked := decode[apBody](t, s.book(s.client, s.barber, "2025-12-09", "10:00"))

	w := s.do(http.MethodPost, "/api/manager/appointment/"+itoa(booked.ID)+"/update", &s.client, gin.H{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/manager/appointment/"+itoa(booked.ID)+"/update", &s.manager, gin.H{
		"barber_id": s.junior.ID, "procedure_id": s.haircut.ID, "date": "2025-12-09", "time": "10:00",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[struct {
		Cancelled   apBody `json:"cancelled"`
		Replacement apBody `json:"replacement"`
	}](t, w)
	assert.Equal(t, "cancelled", res.Cancelled.Status)
	assert.Equal(t, "rescheduled by manager", res.Cancelled.CancellationReason)
	assert.Equal(t, "confirmed", res.Replacement.Status)
	assert.Equal(t, 90, res.Replacement.DurationMinutes)

	var count int64
	s.db.Model(&models.Appointment{}).Count(&count)
	assert.Equal(t, int64(2), count)

	// a past appointment only takes a status change
	past := models.Appointment{
		ClientID: s.client.ID, BarberID: s.barber.ID, ProcedureID: s.haircut.ID,
		StartTime: testNow.Add(-24 * time.Hour), DurationMinutes: 60, Status: "confirmed",
	}
	require.NoError(t, s.db.Omit("Client", "Barber", "Procedure").Create(&past).Error)

	w = s.do(http.MethodPost, "/api/manager/appointment/"+itoa(past.ID)+"/update", &s.manager, gin.H{
		"barber_id": s.barber.ID, "procedure_id": s.haircut.ID, "date": "2025-12-09", "time": "15:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "appointment_in_past", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPost, "/api/manager/appointment/"+itoa(past.ID)+"/status", &s.manager, gin.H{"status": "no_show"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "no_show", decode[apBody](t, w).Status)

	w = s.do(http.MethodPost, "/api/manager/appointment/"+itoa(past.ID)+"/status", &s.manager, gin.H{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestManagerCatalog(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/manager/procedures", &s.manager, gin.H{
		"name": "Shave", "duration_master": 30, "duration_junior": 45, "price_master": 15, "price_junior": 10,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	shave := decode[models.Procedure](t, w)
	assert.True(t, shave.Available)

	w = s.do(http.MethodPost, "/api/manager/barber-procedures", &s.manager, gin.H{
		"barber_id": s.barber.ID, "procedure_id": shave.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	mapping := decode[models.BarberProcedure](t, w)

	w = s.do(http.MethodPost, "/api/manager/barber-procedures", &s.manager, gin.H{
		"barber_id": s.client.ID, "procedure_id": shave.ID,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "barber_not_found", decode[errorBody](t, w).Code)

	w = s.do(http.MethodDelete, "/api/manager/barber-procedures/"+itoa(mapping.ID), &s.manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stored models.BarberProcedure
	require.NoError(t, s.db.First(&stored, mapping.ID).Error)
	assert.False(t, stored.CanPerform)
	require.NotNil(t, stored.ValidUntil)

	w = s.do(http.MethodPatch, "/api/manager/procedures/"+itoa(shave.ID), &s.manager, gin.H{"available": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	patched := decode[models.Procedure](t, w)
	assert.False(t, patched.Available)
	assert.NotNil(t, patched.StoppedAt)

	w = s.do(http.MethodGet, "/api/manager/procedures?available=false", &s.manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Procedure](t, w), 2)

	w = s.do(http.MethodPatch, "/api/manager/procedures/999", &s.manager, gin.H{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Contains(t, s.audit.actions, "procedure_created")
	assert.Contains(t, s.audit.actions, "barber_procedure_deactivated")
}

func TestManagerStaff(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/manager/barbers", &s.manager, gin.H{
		"name": "Stoyan", "email": "stoyan@example.com", "password": "secret1", "tier": "senior",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		User struct {
			ID    uint     `json:"id"`
			Roles []string `json:"roles"`
		} `json:"user"`
	}](t, w)
	assert.Equal(t, []string{"barber_senior"}, created.User.Roles)

	var ws models.WeeklySchedule
	require.NoError(t, s.db.Where("barber_id = ?", created.User.ID).First(&ws).Error)
	assert.Len(t, ws.Days.Data(), 7)

	w = s.do(http.MethodGet, "/api/manager/barbers/"+itoa(created.User.ID)+"/schedule", &s.manager, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/manager/barbers/"+itoa(s.client.ID)+"/schedule", &s.manager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPatch, "/api/manager/barbers/"+itoa(created.User.ID)+"/tier", &s.manager, gin.H{"tier": "junior"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tier":"junior"`)

	w = s.do(http.MethodPost, "/api/manager/barbers", &s.manager, gin.H{
		"name": "Dup", "email": "stoyan@example.com", "password": "secret1", "tier": "standard",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/manager/barbers", &s.manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 3)
}

func TestManagerClientsAuditAndReminders(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/api/manager/clients?query=mar", &s.manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	clients := decode[struct {
		Total   int64 `json:"total"`
		Data  []struct {
			Name string `json:"name"`
		} `json:"data"`
	}](t, w)
	assert.Equal(t, int64(1), clients.Total)
	assert.Equal(t, "Maria", clients.Data[0].Name)

	entityID := s.barber.ID
	require.NoError(t, s.db.Create(&models.AuditLog{
		UserID: &s.manager.ID, Action: "schedule_updated", Entity: "barber", EntityID: &entityID,
		Metadata: datatypes.JSON(`{}`), CreatedAt: testNow,
	}).Error)
	require.NoError(t, s.db.Create(&models.AuditLog{
		Action: "appointment_created", Entity: "appointment", CreatedAt: testNow,
	}).Error)

	w = s.do(http.MethodGet, "/api/manager/audit-logs?action=schedule_updated", &s.manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	require.Equal(t, http.StatusCreated, s.book(s.client, s.barber, "2025-12-09", "10:00").Code)
	require.Equal(t, http.StatusCreated, s.book(s.other, s.junior, "2025-12-09", "10:00").Code)

	w = s.do(http.MethodPost, "/api/manager/reminders", &s.manager, gin.H{"date": "2025-12-09"})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"queued":2`)

	w = s.do(http.MethodPost, "/api/manager/reminders", &s.manager, gin.H{"date": "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestGuestBooking_RegisteredEmailConflicts(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/appointment/guest", nil, gin.H{
		"name": "Someone", "email": s.client.Email, "phone": "+359888000222",
		"barber_id": s.barber.ID, "procedure_id": s.haircut.ID,
		"date": "2025-12-09", "time": "10:00",
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "email_taken", decode[errorBody](t, w).Code)

	w = s.do(http.MethodGet, "/api/appointment/my", &s.client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":0`)
}
