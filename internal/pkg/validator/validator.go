package validator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"homecrew/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("skill", func(fl validator.FieldLevel) bool {
		return domain.Skill(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("city", func(fl validator.FieldLevel) bool {
		return domain.IsCity(fl.Field().String())
	})
	_ = validate.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return domain.TimeSlot(fl.Field().String()).Valid()
	})
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	errs := make(map[string]string)
	for _, e := range verrs {
		errs[e.Field()] = e.Tag()
	}
	return errs
}

// FieldErrors is a validation failure keyed by field name. It matches
// domain.ErrValidation under errors.Is.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f, tag := range e {
		fields = append(fields, f+"="+tag)
	}
	sort.Strings(fields)
	return fmt.Sprintf("%s: %s", domain.ErrValidation, strings.Join(fields, ", "))
}

func (e FieldErrors) Unwrap() error { return domain.ErrValidation }

// Details returns the failed fields and their tags.
func (e FieldErrors) Details() map[string]string { return e }

// Check validates v and returns FieldErrors naming the failed fields, or nil.
func Check(v interface{}) error {
	errs := Validate(v)
	if len(errs) == 0 {
		return nil
	}
	return FieldErrors(errs)
}
