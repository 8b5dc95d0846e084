package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	errors "github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/go-playground/validator/v10"
)

// MinVehicleYear is the year of the first production automobile.
const MinVehicleYear = 1886

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := validate.RegisterValidation("vehicle_year", validateVehicleYear); err != nil {
		panic(fmt.Sprintf("validation: register vehicle_year: %v", err))
	}
}

// validateVehicleYear accepts years between the first automobile and next
// year's models.
func validateVehicleYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	return year >= MinVehicleYear && year <= int64(time.Now().Year()+1)
}

// Struct validates s against its `validate` tags. It returns nil or an
// *errors.AppError carrying one ValidationError per failing field.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewInternalError("validation failed unexpectedly", err)
	}

	details := make([]errors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, errors.ValidationError{
			Field:   fe.Field(),
			Message: message(fe),
			Code:    fe.Tag(),
		})
	}
	return errors.NewValidationFieldErrors(details)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "vehicle_year":
		return fmt.Sprintf("%s must be between %d and %d", field, MinVehicleYear, time.Now().Year()+1)
	default:
		return fmt.Sprintf("%s validation failed on '%s' tag", field, fe.Tag())
	}
}
