package appointment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// Monday 2025-12-08 08:00 UTC. The default template has the barber working
// 09:00-18:00 on weekdays.
var testNow = time.Date(2025, 12, 8, 8, 0, 0, 0, time.UTC)

type fakeAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (f *fakeAudit) Dispatch(ev audit.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Action)
	}
	return out
}

type fakeNotify struct {
	calls []string
}

func (f *fakeNotify) AppointmentConfirmed(ap *models.Appointment) {
	f.calls = append(f.calls, fmt.Sprintf("confirmed:%d", ap.ID))
}

func (f *fakeNotify) GuestConfirmationRequested(ap *models.Appointment) {
	f.calls = append(f.calls, fmt.Sprintf("guest:%d", ap.ID))
}

func (f *fakeNotify) AppointmentCancelled(ap *models.Appointment, by string) {
	f.calls = append(f.calls, fmt.Sprintf("cancelled:%d:%s", ap.ID, by))
}

func (f *fakeNotify) AppointmentReminder(ap *models.Appointment) {
	f.calls = append(f.calls, fmt.Sprintf("reminder:%d", ap.ID))
}

type memCache struct {
	entries     map[string][]domain.TimeSlot
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]domain.TimeSlot{}}
}

func (c *memCache) key(barberID uint, date string, procedureID uint) string {
	return fmt.Sprintf("%d:%s:%d", barberID, date, procedureID)
}

func (c *memCache) Get(_ context.Context, barberID uint, date string, procedureID uint) ([]domain.TimeSlot, bool) {
	s, ok := c.entries[c.key(barberID, date, procedureID)]
	return s, ok
}

func (c *memCache) Set(_ context.Context, barberID uint, date string, procedureID uint, slots []domain.TimeSlot) {
	c.entries[c.key(barberID, date, procedureID)] = slots
}

func (c *memCache) InvalidateDay(_ context.Context, barberID uint, date string) {
	c.invalidated = append(c.invalidated, fmt.Sprintf("%d:%s", barberID, date))
	prefix := fmt.Sprintf("%d:%s:", barberID, date)
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

func (c *memCache) InvalidateBarber(context.Context, uint) {
	c.entries = map[string][]domain.TimeSlot{}
}

type env struct {
	db        *gorm.DB
	repo      *repository.AppointmentGormRepository
	schedules *repository.ScheduleGormRepository
	tx        *repository.TxManager
	clock     timezone.FixedClock
	resolver  *schedule.Resolver
	validator *domain.Validator
	audit     *fakeAudit
	notify    *fakeNotify
	cache     *memCache

	client    models.User
	other     models.User
	barber    models.User
	junior    models.User
	manager   models.User
	haircut   models.Procedure
	retired   models.Procedure
	beardOnly models.Procedure
}

func newEnv(t *testing.T) *env {
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

	e := &env{
		db:        db,
		repo:      repository.NewAppointmentGormRepository(db),
		schedules: repository.NewScheduleGormRepository(db),
		tx:        repository.NewTxManager(db, false),
		clock:     timezone.FixedClock{At: testNow},
		audit:     &fakeAudit{},
		notify:    &fakeNotify{},
		cache:     newMemCache(),
	}
	e.resolver = schedule.NewResolver(e.schedules)
	e.validator = domain.NewValidator(e.repo, e.resolver, e.clock)

	e.client = e.user(t, "Ivan", "ivan@example.com", models.RoleClient)
	e.other = e.user(t, "Maria", "maria@example.com", models.RoleClient)
	e.barber = e.user(t, "Georgi", "georgi@example.com", models.RoleBarber)
	e.junior = e.user(t, "Petar", "petar@example.com", models.RoleBarberJunior)
	e.manager = e.user(t, "Elena", "elena@example.com", models.RoleManager)

	e.haircut = e.procedure(t, "Haircut", true)
	e.retired = e.procedure(t, "Old style", false)
	e.beardOnly = e.procedure(t, "Beard", true)

	e.offer(t, e.barber, e.haircut)
	e.offer(t, e.junior, e.haircut)
	e.offer(t, e.barber, e.retired)

	return e
}

func (e *env) user(t *testing.T, name, email string, roles models.RoleSet) models.User {
	t.Helper()
	u := models.User{Name: name, Email: email, PasswordHash: "hash", Roles: roles, Locale: "en"}
	require.NoError(t, e.db.Create(&u).Error)
	return u
}

func (e *env) procedure(t *testing.T, name string, available bool) models.Procedure {
	t.Helper()
	p := models.Procedure{
		Name:           name,
		PriceMaster:    30,
		DurationMaster: 60,
		PriceJunior:    20,
		DurationJunior: 90,
		Available:      available,
		AddedAt:        testNow.AddDate(-1, 0, 0),
	}
	require.NoError(t, e.db.Create(&p).Error)
	return p
}

func (e *env) offer(t *testing.T, barber models.User, p models.Procedure) {
	t.Helper()
	bp := models.BarberProcedure{
		BarberID:    barber.ID,
		ProcedureID: p.ID,
		CanPerform:  true,
		ValidFrom:   testNow.AddDate(0, -1, 0),
	}
	require.NoError(t, e.db.Omit("Barber", "Procedure").Create(&bp).Error)
}

func (e *env) seed(t *testing.T, client, barber models.User, start time.Time, minutes int, status domain.Status) models.Appointment {
	t.Helper()
	ap := models.Appointment{
		ClientID:        client.ID,
		BarberID:        barber.ID,
		ProcedureID:     e.haircut.ID,
		StartTime:       start,
		DurationMinutes: minutes,
		Status:          string(status),
	}
	require.NoError(t, e.db.Omit("Client", "Barber", "Procedure").Create(&ap).Error)
	return ap
}

func (e *env) count(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Appointment{}).Count(&n).Error)
	return n
}

func (e *env) reload(t *testing.T, id uint) models.Appointment {
	t.Helper()
	var ap models.Appointment
	require.NoError(t, e.db.First(&ap, id).Error)
	return ap
}

func (e *env) at(clock timezone.FixedClock) *env {
	c := *e
	c.clock = clock
	c.validator = domain.NewValidator(e.repo, e.resolver, clock)
	return &c
}

func (e *env) createUC() *CreateAppointment {
	return NewCreateAppointment(e.repo, e.tx, e.validator, e.clock, e.cache, e.audit, e.notify, zap.NewNop())
}

func (e *env) cancelUC() *CancelAppointment {
	return NewCancelAppointment(e.repo, e.tx, e.clock, e.cache, e.audit, e.notify, zap.NewNop())
}

func (e *env) managerUC() *ManagerUpdateAppointment {
	return NewManagerUpdateAppointment(e.repo, e.tx, e.validator, e.clock, e.cache, e.audit, e.notify, zap.NewNop())
}

func day(d, h, m int) time.Time {
	return time.Date(2025, 12, d, h, m, 0, 0, time.UTC)
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}
