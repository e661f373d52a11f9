package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrConflict           = errors.New("resource was modified concurrently")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrProtected          = errors.New("resource is referenced and cannot be deleted")
	ErrSlotFull           = errors.New("availability slot is fully booked")
	ErrUpstream           = errors.New("upstream service failure")
)

// Entity-specific not-found errors. All of them match ErrNotFound with errors.Is.
var (
	ErrUserNotFound            = fmt.Errorf("user %w", ErrNotFound)
	ErrApplicationNotFound     = fmt.Errorf("application %w", ErrNotFound)
	ErrApplicationTypeNotFound = fmt.Errorf("application type %w", ErrNotFound)
	ErrTaskNotFound            = fmt.Errorf("task %w", ErrNotFound)
	ErrDocumentNotFound        = fmt.Errorf("document %w", ErrNotFound)
	ErrDocumentTypeNotFound    = fmt.Errorf("document type %w", ErrNotFound)
	ErrSlotNotFound            = fmt.Errorf("availability slot %w", ErrNotFound)
	ErrBookingNotFound         = fmt.Errorf("booking %w", ErrNotFound)
	ErrInvoiceNotFound         = fmt.Errorf("invoice %w", ErrNotFound)
	ErrNotificationNotFound    = fmt.Errorf("notification %w", ErrNotFound)
	ErrTemplateNotFound        = fmt.Errorf("template %w", ErrNotFound)
	ErrPostNotFound            = fmt.Errorf("blog post %w", ErrNotFound)
	ErrPageNotFound            = fmt.Errorf("page %w", ErrNotFound)
)

// ValidationError reports one or more malformed input fields.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError holding a single field message.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add records msg for field, keeping the first message per field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns nil when no field has been recorded.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Upstream wraps a failure from an external collaborator (object store, payment gateway).
func Upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstream, op, err)
}
