package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("conflict")
	ErrUpstream           = errors.New("upstream failure")

	ErrDuplicateEmail   = fmt.Errorf("user already exists: %w", ErrConflict)
	ErrDuplicateBooking = fmt.Errorf("booking already exists for payment intent: %w", ErrConflict)
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries one message per offending input field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a field failure.
func (e *ValidationError) Add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

// OrNil returns e when it holds failures, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// PaymentRejectedError is returned when a booking commit fails payment verification.
type PaymentRejectedError struct {
	Reason string
}

func (e *PaymentRejectedError) Error() string { return e.Reason }

func UpstreamError(service string, err error) error {
	return fmt.Errorf("%s: %w: %v", service, ErrUpstream, err)
}
