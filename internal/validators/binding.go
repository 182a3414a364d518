package validators

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
)

// RegisterBindings adds the custom tags used by request structs to gin's
// validator: hhmm ("HH:MM"), isodate ("YYYY-MM-DD") and weekday (0..6).
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("validators: unexpected binding engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("hhmm", hhmm); err != nil {
		return err
	}
	if err := v.RegisterValidation("isodate", isoDate); err != nil {
		return err
	}
	return v.RegisterValidation("weekday", weekday)
}

func hhmm(fl validator.FieldLevel) bool {
	return schedule.IsHHMM(fl.Field().String())
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func weekday(fl validator.FieldLevel) bool {
	d := fl.Field().Int()
	return d >= 0 && d <= 6
}
