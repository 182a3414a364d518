package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func testMailer(sent *[]*gomail.Message) *SMTPMailer {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25, From: "shop@example.com"},
		"https://shop.example.com/", "bg", time.UTC)
	m.send = func(msg *gomail.Message) error {
		*sent = append(*sent, msg)
		return nil
	}
	return m
}

func testAppointment() *models.Appointment {
	token := "tok-123"
	return &models.Appointment{
		ID:                7,
		Client:            models.User{ID: 1, Name: "Ivan", Email: "ivan@example.com", Locale: "en"},
		Barber:            models.User{ID: 2, Name: "Georgi", Email: "georgi@example.com"},
		Procedure:         models.Procedure{Name: "Haircut"},
		StartTime:         time.Date(2025, 12, 10, 10, 30, 0, 0, time.UTC),
		DurationMinutes:   30,
		ConfirmationToken: &token,
	}
}

func TestSMTPMailer_ComposeGuestConfirmation(t *testing.T) {
	var sent []*gomail.Message
	m := testMailer(&sent)
	ap := testAppointment()

	msg, err := m.compose(KindGuestConfirm, ap, &ap.Client, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Please confirm your appointment"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"shop@example.com"}, msg.GetHeader("From"))
}

func TestSMTPMailer_RenderLinkAndLocale(t *testing.T) {
	m := testMailer(new([]*gomail.Message))
	ap := testAppointment()

	subject, body, err := m.render(KindGuestConfirm, ap, &ap.Client, "")
	require.NoError(t, err)
	assert.Equal(t, "Please confirm your appointment", subject)
	assert.Contains(t, body, "https://shop.example.com/api/appointment/confirm/tok-123")
	assert.Contains(t, body, "Haircut with Georgi on 10.12.2025 10:30")

	// no locale on the user falls back to the shop default
	subject, _, err = m.render(KindReminder, ap, &models.User{Name: "X", Email: "x@example.com"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Напомняне за час", subject)

	assert.Equal(t, "Потвърдете своя час", lookup(KindGuestConfirm, "de").subject)
}

func TestSMTPMailer_CancellationByClientAlsoMailsBarber(t *testing.T) {
	var sent []*gomail.Message
	m := testMailer(&sent)
	ap := testAppointment()

	require.NoError(t, m.SendAppointmentCancellation(context.Background(), ap, "client"))
	assert.Len(t, sent, 2)

	sent = nil
	require.NoError(t, m.SendAppointmentCancellation(context.Background(), ap, "barber"))
	assert.Len(t, sent, 1)
}

func TestSMTPMailer_Errors(t *testing.T) {
	var sent []*gomail.Message
	m := testMailer(&sent)

	ap := testAppointment()
	ap.ConfirmationToken = nil
	assert.Error(t, m.SendGuestConfirmationRequest(context.Background(), ap))

	ap = testAppointment()
	ap.Client.Email = ""
	assert.Error(t, m.SendAppointmentConfirmation(context.Background(), ap))

	m.send = func(*gomail.Message) error { return errors.New("smtp down") }
	assert.EqualError(t, m.SendAppointmentReminder(context.Background(), testAppointment()), "smtp down")
	assert.Empty(t, sent)
}

func TestSMTPMailer_GivesUpWhenContextEnds(t *testing.T) {
	m := testMailer(new([]*gomail.Message))
	release := make(chan struct{})
	defer close(release)
	m.send = func(*gomail.Message) error {
		<-release
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := m.SendAppointmentReminder(ctx, testAppointment())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
