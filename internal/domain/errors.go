// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and are mapped to HTTP responses by adapters.
package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a submitted value failed a business rule.
	ErrValidation = errors.New("validation failed")

	// ErrMedia indicates an uploaded file violates the media constraints (type or size).
	ErrMedia = errors.New("media rejected")

	// ErrStorage indicates the image directory or quotation store could not be read or written.
	ErrStorage = errors.New("storage failure")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError provides context for validation errors.
// Message is safe to show to clients.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// MediaReason identifies which media constraint an upload violated.
type MediaReason string

const (
	// MediaUnsupportedType means the file is neither JPEG nor PNG.
	MediaUnsupportedType MediaReason = "unsupported_type"

	// MediaTooLarge means the file exceeds the configured size limit.
	MediaTooLarge MediaReason = "too_large"
)

// MediaError reports an uploaded file rejected before any processing.
type MediaError struct {
	Reason  MediaReason
	Message string
}

// Error implements the error interface.
func (e *MediaError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *MediaError) Unwrap() error {
	return ErrMedia
}

// NewUnsupportedMediaError rejects a file whose type is not accepted.
func NewUnsupportedMediaError() error {
	return &MediaError{
		Reason:  MediaUnsupportedType,
		Message: "only JPG and PNG images are supported",
	}
}

// NewTooLargeError rejects a file over the size limit.
func NewTooLargeError(limitBytes int64) error {
	return &MediaError{
		Reason:  MediaTooLarge,
		Message: fmt.Sprintf("file exceeds the %s limit", formatSize(limitBytes)),
	}
}

// formatSize renders n bytes in the largest binary unit it fills, with at
// most one decimal: 10485760 is "10MB", 1572864 is "1.5MB", 16 is "16B".
func formatSize(n int64) string {
	const (
		kib = 1 << 10
		mib = 1 << 20
	)

	oneDecimal := func(v float64) string {
		return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
	}

	switch {
	case n >= mib:
		return oneDecimal(float64(n)/mib) + "MB"
	case n >= kib:
		return oneDecimal(float64(n)/kib) + "KB"
	default:
		return strconv.FormatInt(n, 10) + "B"
	}
}

// StorageError wraps a file system failure with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// NewStorageError wraps err as a storage failure of op.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsMedia checks if an error is a media constraint error.
func IsMedia(err error) bool {
	return errors.Is(err, ErrMedia)
}

// IsStorage checks if an error is a storage error.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
