package visual

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/matzehuels/algoflow/pkg/errors"
)

// validate is a singleton validator instance.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("structuretype", func(fl validator.FieldLevel) bool {
		_, err := ParseType(fl.Field().String())
		return err == nil
	})
}

// Validate checks the bounds of a normalized state. It does not look at
// reference integrity: dangling connections and pointers are legal and
// are omitted at render time.
func (s *State) Validate() error {
	if s == nil {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "state cannot be nil")
	}
	if _, err := ParseType(string(s.Type)); err != nil {
		return err
	}
	if err := validate.Struct(s); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidStructure, formatValidationError(err), "invalid %s state", s.Type)
	}
	return nil
}

// Struct validates any tagged struct with the package validator. Other
// packages use it for request and configuration payloads.
func Struct(v any) error {
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	for _, e := range validationErrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, e.Param())
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
