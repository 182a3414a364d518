package notification

import (
	"text/template"

	"github.com/BruksfildServices01/barber-booking/internal/i18n"
)

type mailTemplate struct {
	subject string
	body    *template.Template
}

// mailData is what every body template renders from.
type mailData struct {
	ClientName    string
	BarberName    string
	ProcedureName string
	When          string
	CancelledBy   string
	Link          string
}

var templates = map[string]map[string]mailTemplate{
	KindConfirmation: {
		i18n.Bulgarian: parse("Потвърден час", `Здравейте, {{.ClientName}},

Вашият час за {{.ProcedureName}} при {{.BarberName}} на {{.When}} е потвърден.

Очакваме Ви!
`),
		i18n.English: parse("Appointment confirmed", `Hello {{.ClientName}},

Your {{.ProcedureName}} appointment with {{.BarberName}} on {{.When}} is confirmed.

See you soon!
`),
	},
	KindGuestConfirm: {
		i18n.Bulgarian: parse("Потвърдете своя час", `Здравейте, {{.ClientName}},

Запазихте час за {{.ProcedureName}} при {{.BarberName}} на {{.When}}.
Моля, потвърдете го от този линк:

{{.Link}}

Ако не сте правили резервация, игнорирайте това писмо.
`),
		i18n.English: parse("Please confirm your appointment", `Hello {{.ClientName}},

You booked {{.ProcedureName}} with {{.BarberName}} on {{.When}}.
Please confirm it using this link:

{{.Link}}

If you did not make this booking, ignore this email.
`),
	},
	KindCancellation: {
		i18n.Bulgarian: parse("Отменен час", `Здравейте, {{.ClientName}},

Часът за {{.ProcedureName}} при {{.BarberName}} на {{.When}} беше отменен ({{.CancelledBy}}).
`),
		i18n.English: parse("Appointment cancelled", `Hello {{.ClientName}},

The {{.ProcedureName}} appointment with {{.BarberName}} on {{.When}} was cancelled ({{.CancelledBy}}).
`),
	},
	KindReminder: {
		i18n.Bulgarian: parse("Напомняне за час", `Здравейте, {{.ClientName}},

Напомняме Ви за часа за {{.ProcedureName}} при {{.BarberName}} на {{.When}}.
`),
		i18n.English: parse("Appointment reminder", `Hello {{.ClientName}},

A reminder of your {{.ProcedureName}} appointment with {{.BarberName}} on {{.When}}.
`),
	},
}

func parse(subject, body string) mailTemplate {
	return mailTemplate{
		subject: subject,
		body:    template.Must(template.New(subject).Parse(body)),
	}
}

func lookup(kind, locale string) mailTemplate {
	byLocale := templates[kind]
	if t, ok := byLocale[locale]; ok {
		return t
	}
	return byLocale[i18n.Bulgarian]
}
