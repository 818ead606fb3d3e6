package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Ambient codes shared by every endpoint.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeInvalidInput = "INVALID_INPUT"
)

// Scheduling result codes surfaced to API clients.
const (
	CodeServiceNotFound       = "SERVICE_NOT_FOUND"
	CodeTimeSlotConflict      = "TIME_SLOT_CONFLICT"
	CodeUserTimeSlotConflict  = "USER_TIME_SLOT_CONFLICT"
	CodeAppointmentNotFound   = "APPOINTMENT_NOT_FOUND"
	CodeInvalidStatusCancel   = "INVALID_STATUS_FOR_CANCELLATION"
	CodeUserDataNotFoundNotif = "USER_DATA_NOT_FOUND_FOR_NOTIFICATION"
	CodeEmailDuplicated       = "EMAIL_DUPLICATED"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ServiceNotFound reports a booking attempt against an unknown service offering.
func ServiceNotFound(serviceID string) *AppError {
	return &AppError{
		Code:       CodeServiceNotFound,
		Message:    "Service not found",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"service_id": serviceID},
	}
}

// TimeSlotConflict reports that the requested slot overlaps an existing
// scheduled appointment for the same service.
func TimeSlotConflict() *AppError {
	return &AppError{
		Code:       CodeTimeSlotConflict,
		Message:    "The requested time slot is not available for this service",
		HTTPStatus: http.StatusConflict,
	}
}

// UserTimeSlotConflict reports that the requesting user already holds an
// overlapping scheduled appointment.
func UserTimeSlotConflict() *AppError {
	return &AppError{
		Code:       CodeUserTimeSlotConflict,
		Message:    "The requested time slot conflicts with another appointment for this user",
		HTTPStatus: http.StatusConflict,
	}
}

func AppointmentNotFound() *AppError {
	return &AppError{
		Code:       CodeAppointmentNotFound,
		Message:    "Appointment not found or invalid token",
		HTTPStatus: http.StatusNotFound,
	}
}

func InvalidStatusForCancellation() *AppError {
	return &AppError{
		Code:       CodeInvalidStatusCancel,
		Message:    "Cannot cancel an appointment that is not scheduled",
		HTTPStatus: http.StatusConflict,
	}
}

func EmailDuplicated() *AppError {
	return &AppError{
		Code:       CodeEmailDuplicated,
		Message:    "A user with this email address already exists",
		HTTPStatus: http.StatusConflict,
	}
}

func InvalidCredentials() *AppError {
	return &AppError{
		Code:       CodeInvalidCredentials,
		Message:    "Invalid email or password",
		HTTPStatus: http.StatusUnauthorized,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// HasCode reports whether err carries an AppError with the given result code
// anywhere in its chain.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
