package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/i18n"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const whenLayout = "02.01.2006 15:04"

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPMailer renders localized plain-text emails and sends them over SMTP.
type SMTPMailer struct {
	from          string
	baseURL       string
	defaultLocale string
	loc           *time.Location

	send func(m *gomail.Message) error
}

func NewSMTPMailer(
	cfg SMTPConfig,
	baseURL string,
	defaultLocale string,
	loc *time.Location,
) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)

	return &SMTPMailer{
		from:          cfg.From,
		baseURL:       strings.TrimRight(baseURL, "/"),
		defaultLocale: defaultLocale,
		loc:           loc,
		send:          func(msg *gomail.Message) error { return dialer.DialAndSend(msg) },
	}
}

func (m *SMTPMailer) SendAppointmentConfirmation(ctx context.Context, ap *models.Appointment) error {
	return m.deliver(ctx, KindConfirmation, ap, &ap.Client, "")
}

func (m *SMTPMailer) SendGuestConfirmationRequest(ctx context.Context, ap *models.Appointment) error {
	if ap.ConfirmationToken == nil {
		return fmt.Errorf("appointment %d has no confirmation token", ap.ID)
	}
	return m.deliver(ctx, KindGuestConfirm, ap, &ap.Client, "")
}

// SendAppointmentCancellation mails the client, and the barber too when the
// client cancelled.
func (m *SMTPMailer) SendAppointmentCancellation(
	ctx context.Context,
	ap *models.Appointment,
	cancelledBy string,
) error {
	if err := m.deliver(ctx, KindCancellation, ap, &ap.Client, cancelledBy); err != nil {
		return err
	}
	if cancelledBy == string(domain.ActorClient) && ap.Barber.Email != "" {
		return m.deliver(ctx, KindCancellation, ap, &ap.Barber, cancelledBy)
	}
	return nil
}

func (m *SMTPMailer) SendAppointmentReminder(ctx context.Context, ap *models.Appointment) error {
	return m.deliver(ctx, KindReminder, ap, &ap.Client, "")
}

func (m *SMTPMailer) deliver(ctx context.Context, kind string, ap *models.Appointment, to *models.User, cancelledBy string) error {
	if to.Email == "" {
		return fmt.Errorf("user %d has no email", to.ID)
	}

	msg, err := m.compose(kind, ap, to, cancelledBy)
	if err != nil {
		return err
	}
	return sendContext(ctx, m.send, msg)
}

// sendContext gives up on a blocking SMTP exchange once ctx is done. The
// abandoned send finishes or fails on its own goroutine.
func sendContext(ctx context.Context, send func(*gomail.Message) error, msg *gomail.Message) error {
	done := make(chan error, 1)
	go func() { done <- send(msg) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}

func (m *SMTPMailer) compose(
	kind string,
	ap *models.Appointment,
	to *models.User,
	cancelledBy string,
) (*gomail.Message, error) {

	subject, body, err := m.render(kind, ap, to, cancelledBy)
	if err != nil {
		return nil, err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetAddressHeader("To", to.Email, to.Name)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg, nil
}

func (m *SMTPMailer) render(
	kind string,
	ap *models.Appointment,
	to *models.User,
	cancelledBy string,
) (string, string, error) {

	tpl := lookup(kind, i18n.Normalize(to.Locale, m.defaultLocale))

	data := mailData{
		ClientName:    ap.Client.Name,
		BarberName:    ap.Barber.Name,
		ProcedureName: ap.Procedure.Name,
		When:          ap.StartTime.In(m.loc).Format(whenLayout),
		CancelledBy:   cancelledBy,
	}
	if ap.ConfirmationToken != nil {
		data.Link = m.baseURL + "/api/appointment/confirm/" + *ap.ConfirmationToken
	}

	var body strings.Builder
	if err := tpl.body.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("render %s mail: %w", kind, err)
	}
	return tpl.subject, body.String(), nil
}
