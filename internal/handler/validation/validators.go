package validation

import (
	"strings"
	"time"

	"clinic-scheduler/internal/domain/availability"
	"clinic-scheduler/internal/domain/surgicalcase"
	"clinic-scheduler/internal/pkg/errs"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// RegisterGinValidators installs the scheduling tags on gin's binding engine.
func RegisterGinValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errs.New("gin binding engine is not go-playground/validator")
	}
	return Register(v)
}

func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("weekday", validateWeekday); err != nil {
		return errs.Wrap(err, "register weekday validator")
	}
	if err := v.RegisterValidation("timeofday", validateTimeOfDay); err != nil {
		return errs.Wrap(err, "register timeofday validator")
	}
	if err := v.RegisterValidation("case_status", validateCaseStatus); err != nil {
		return errs.Wrap(err, "register case_status validator")
	}
	return nil
}

// ParseWeekday accepts full English day names in any case.
func ParseWeekday(s string) (time.Weekday, bool) {
	d, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	return d, ok
}

func validateWeekday(fl validator.FieldLevel) bool {
	_, ok := ParseWeekday(fl.Field().String())
	return ok
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := availability.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

func validateCaseStatus(fl validator.FieldLevel) bool {
	return surgicalcase.Status(fl.Field().String()).IsValid()
}
