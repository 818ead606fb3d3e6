package validator

import (
	"errors"
	"fmt"
	"strings"

	"slotline/pkg/logger"
	"slotline/pkg/model"

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

// RegisterRequest is the admin payload for adding a service to the catalog.
type RegisterRequest struct {
	Name            string   `json:"name" validate:"required,min=2,max=120"`
	Description     string   `json:"description" validate:"required,min=2,max=2000"`
	DurationMinutes int      `json:"duration_minutes" validate:"required,min=5,max=480"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0"`
	Type            string   `json:"type" validate:"required"`
}

type ServiceValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewServiceValidator(log *logger.Logger) *ServiceValidator {
	return &ServiceValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// ValidateRegister checks the payload and returns the parsed service type.
func (v *ServiceValidator) ValidateRegister(req *RegisterRequest) (model.ServiceType, error) {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return "", v.translateValidationErrors(validationErrs)
		}
		return "", err
	}

	serviceType, err := model.ParseServiceType(req.Type)
	if err != nil {
		return "", ValidationErrors{
			ValidationError{
				Field:   "Type",
				Message: fmt.Sprintf("type must be one of: %s", strings.Join(serviceTypeNames(), ", ")),
			},
		}
	}
	return serviceType, nil
}

func serviceTypeNames() []string {
	types := model.ServiceTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return names
}

func (v *ServiceValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
