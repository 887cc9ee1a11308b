package utils

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/go-playground/validator/v10"
)

func ValidateStruct(validate *validator.Validate, data any) error {
	if err := validate.Struct(data); err != nil {

		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			slog.Warn("User input validation failed", slog.String("error", validationErrs.Error()))

			return appErrors.ValidationError(ValidationMessages(validationErrs)[0]).WithError(validationErrs)
		}

		slog.Error("Unexpected validation error", slog.String("error", err.Error()))

		return fmt.Errorf("unexpected validation error: %w", err)
	}

	return nil
}

// ValidationMessages turns validator errors into sentences fit for a flash message.
func ValidationMessages(errs validator.ValidationErrors) []string {

	var errMsgs []string

	for _, err := range errs {

		var message string

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("Field %s is required", err.Field())
		case "email":
			message = fmt.Sprintf("Field %s must be a valid email address", err.Field())
		case "min":
			message = fmt.Sprintf("Field %s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("Field %s must be at most %s characters", err.Field(), err.Param())
		case "alphanum":
			message = fmt.Sprintf("Field %s may only contain letters and digits", err.Field())
		default:
			message = fmt.Sprintf("Field %s is invalid: %s=%s", err.Field(), err.Tag(), err.Param())
		}

		errMsgs = append(errMsgs, message)
	}

	return errMsgs
}

// ParseID reads a positive integer path value.
func ParseID(r *http.Request, name string) (int64, error) {

	raw := r.PathValue(name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.NotFoundError(fmt.Sprintf("Invalid %s: %q", name, raw))
	}

	return id, nil
}
