package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"slotline/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// BookRequest is the wire payload for booking an appointment.
type BookRequest struct {
	ServiceID string `json:"service_id" validate:"required,mongodb"`
	StartTime string `json:"start_time" validate:"required"`
}

// CancelRequest carries the cancellation token issued at booking time.
type CancelRequest struct {
	CancellationToken string `json:"cancellation_token" validate:"required,min=16"`
}

type AppointmentValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAppointmentValidator(log *logger.Logger) *AppointmentValidator {
	return &AppointmentValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// ValidateBook checks the payload and returns the parsed start time.
func (v *AppointmentValidator) ValidateBook(req *BookRequest) (time.Time, error) {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return time.Time{}, v.translateValidationErrors(validationErrs)
		}
		return time.Time{}, err
	}

	start, err := parseStartTime(req.StartTime)
	if err != nil {
		return time.Time{}, ValidationErrors{
			ValidationError{
				Field:   "StartTime",
				Message: "start_time must be an RFC 3339 or YYYY-MM-DDTHH:MM:SS timestamp",
			},
		}
	}

	if start.Before(time.Now()) {
		return time.Time{}, ValidationErrors{
			ValidationError{
				Field:   "StartTime",
				Message: "start_time cannot be in the past",
			},
		}
	}

	return start, nil
}

func (v *AppointmentValidator) ValidateCancel(req *CancelRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func parseStartTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", raw, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", raw)
}

func (v *AppointmentValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
