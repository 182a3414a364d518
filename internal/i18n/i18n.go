package i18n

import (
	"fmt"
	"strings"
)

const (
	Bulgarian = "bg"
	English   = "en"
)

var catalog = map[string]map[string]string{
	// Availability validation.
	"past_time": {
		Bulgarian: "Не можете да запазите час в миналото.",
		English:   "You cannot book an appointment in the past.",
	},
	"barber_not_working": {
		Bulgarian: "Бръснарят не работи в този час.",
		English:   "The barber does not work at this hour.",
	},
	"slot_excluded": {
		Bulgarian: "Процедурата застъпва блокиран час на бръснаря.",
		English:   "The procedure overlaps a blocked slot in the barber's day.",
	},
	"ends_after_hours": {
		Bulgarian: "Процедурата няма да приключи преди края на работното време на бръснаря.",
		English:   "The procedure will not finish before the barber's working hours end.",
	},
	"barber_busy": {
		Bulgarian: "Бръснарят е зает в този час.",
		English:   "The barber is busy at this time.",
	},
	"client_busy": {
		Bulgarian: "Вече имате час по това време.",
		English:   "You already have an appointment at that time.",
	},

	// Lifecycle.
	"appointment_not_found": {
		Bulgarian: "Часът не е намерен.",
		English:   "Appointment not found.",
	},
	"already_cancelled": {
		Bulgarian: "Часът вече е отменен.",
		English:   "The appointment is already cancelled.",
	},
	"already_completed": {
		Bulgarian: "Часът вече е отбелязан като завършен.",
		English:   "The appointment is already completed.",
	},
	"invalid_state": {
		Bulgarian: "Действието не е позволено за текущия статус на часа.",
		English:   "This action is not allowed for the appointment's current status.",
	},
	"appointment_in_past": {
		Bulgarian: "Часът вече е минал и не може да бъде променян.",
		English:   "The appointment has already started and cannot be changed.",
	},
	"appointment_not_past": {
		Bulgarian: "Статусът може да се променя само за минали часове.",
		English:   "Only past appointments can have their status updated.",
	},
	"invalid_status": {
		Bulgarian: "Невалиден статус.",
		English:   "Invalid status.",
	},
	"not_your_appointment": {
		Bulgarian: "Нямате право да променяте този час.",
		English:   "You are not allowed to change this appointment.",
	},
	"booking_conflict": {
		Bulgarian: "Часът току-що беше зает. Моля, опитайте отново.",
		English:   "The slot was just taken. Please try again.",
	},
	"invalid_token": {
		Bulgarian: "Невалиден или използван линк за потвърждение.",
		English:   "Invalid or already used confirmation link.",
	},
	"confirmation_expired": {
		Bulgarian: "Линкът за потвърждение е изтекъл.",
		English:   "The confirmation link has expired.",
	},

	// Booking inputs.
	"barber_not_found": {
		Bulgarian: "Бръснарят не е намерен.",
		English:   "Barber not found.",
	},
	"client_not_found": {
		Bulgarian: "Клиентът не е намерен.",
		English:   "Client not found.",
	},
	"procedure_not_found": {
		Bulgarian: "Процедурата не е намерена.",
		English:   "Procedure not found.",
	},
	"procedure_unavailable": {
		Bulgarian: "Процедурата в момента не се предлага.",
		English:   "The procedure is currently unavailable.",
	},
	"procedure_not_offered": {
		Bulgarian: "Бръснарят не извършва тази процедура.",
		English:   "The barber does not perform this procedure.",
	},
	"invalid_date_or_time": {
		Bulgarian: "Невалидна дата или час.",
		English:   "Invalid date or time.",
	},
	"invalid_date": {
		Bulgarian: "Невалидна дата.",
		English:   "Invalid date.",
	},
	"invalid_duration": {
		Bulgarian: "Продължителността трябва да е положителна.",
		English:   "Duration must be positive.",
	},

	// Schedule.
	"invalid_schedule": {
		Bulgarian: "Невалиден работен график.",
		English:   "Invalid working schedule.",
	},
	"exception_not_found": {
		Bulgarian: "Няма изключение за тази дата.",
		English:   "No schedule exception for this date.",
	},

	// Generic.
	"invalid_request": {
		Bulgarian: "Невалидни данни.",
		English:   "Invalid request data.",
	},
	"unauthorized": {
		Bulgarian: "Необходим е вход в системата.",
		English:   "Authentication required.",
	},
	"forbidden": {
		Bulgarian: "Нямате достъп.",
		English:   "Access denied.",
	},
	"email_taken": {
		Bulgarian: "Имейлът вече е регистриран.",
		English:   "The email is already registered.",
	},
	"invalid_email_domain": {
		Bulgarian: "Домейнът на имейла не изглежда валиден.",
		English:   "The email domain does not look valid.",
	},
	"invalid_credentials": {
		Bulgarian: "Грешен имейл или парола.",
		English:   "Invalid email or password.",
	},
	"photos_disabled": {
		Bulgarian: "Качването на снимки не е налично.",
		English:   "Photo upload is not available.",
	},
	"invalid_image": {
		Bulgarian: "Невалидно изображение.",
		English:   "Invalid image.",
	},
	"internal_error": {
		Bulgarian: "Възникна вътрешна грешка.",
		English:   "An internal error occurred.",
	},
}

// Normalize reduces an Accept-Language style value to a supported locale.
func Normalize(locale, fallback string) string {
	for _, part := range strings.Split(locale, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		if len(tag) >= 2 {
			switch tag[:2] {
			case Bulgarian:
				return Bulgarian
			case English:
				return English
			}
		}
	}
	if fallback == English {
		return English
	}
	return Bulgarian
}

// T returns the message for code in locale, falling back to Bulgarian and
// finally to the code itself.
func T(locale, code string, args ...any) string {
	msgs, ok := catalog[code]
	if !ok {
		return code
	}
	msg, ok := msgs[locale]
	if !ok {
		msg = msgs[Bulgarian]
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
