package errors

import "errors"

var (
	ErrNotFound = errors.New("appointment not found")

	ErrInvalidID = errors.New("invalid appointment ID format")

	ErrCorruptSlot = errors.New("stored appointment has an invalid time slot")
)
