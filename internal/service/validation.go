package service

import (
	"math"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/hub-grade-planner/pkg/errors"
)

// newValidator returns validate, or a fresh instance, with the planner tags registered.
func newValidator(validate *validator.Validate) *validator.Validate {
	if validate == nil {
		validate = validator.New()
	}
	_ = validate.RegisterValidation("score10", func(fl validator.FieldLevel) bool {
		v := fl.Field().Float()
		return !math.IsNaN(v) && v >= 0 && v <= 10
	})
	return validate
}

func validationError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}
