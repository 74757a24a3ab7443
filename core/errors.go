package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// ErrorKind classifies domain failures so callers (the webhook endpoint in
// particular) can map them to distinct responses without string matching.
type ErrorKind string

const (
	ErrorKindConfiguration    ErrorKind = "configuration"
	ErrorKindAuthentication   ErrorKind = "authentication"
	ErrorKindPayload          ErrorKind = "payload"
	ErrorKindValidation       ErrorKind = "validation"
	ErrorKindConstraint       ErrorKind = "constraint"
	ErrorKindUnsupportedEvent ErrorKind = "unsupported_event"
)

// Stable machine-readable codes attached to payload and validation errors.
const (
	CodeMissingRepositoryData = "missing_repository_data"
	CodeInvalidRepositoryData = "invalid_repository_data"
	CodeMissingRunData        = "missing_run_data"
	CodeInvalidRunData        = "invalid_run_data"
	CodeMissingJobData        = "missing_job_data"
	CodeInvalidJobData        = "invalid_job_data"
	CodeInvalidRunID          = "invalid_run_id"
	CodeMissingDatetime       = "missing_datetime"
	CodeInvalidDatetime       = "invalid_datetime"
)

// DomainError is the typed failure returned for expected domain conditions.
// Kind is always set; Code is set for payload/validation failures.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewConfigurationError(message string) *DomainError {
	return &DomainError{Kind: ErrorKindConfiguration, Message: message}
}

func NewAuthenticationError(message string) *DomainError {
	return &DomainError{Kind: ErrorKindAuthentication, Message: message}
}

func NewPayloadError(code, message string) *DomainError {
	return &DomainError{Kind: ErrorKindPayload, Code: code, Message: message}
}

func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: ErrorKindValidation, Code: code, Message: message}
}

func NewConstraintError(message string, err error) *DomainError {
	return &DomainError{Kind: ErrorKindConstraint, Message: message, Err: err}
}

func NewUnsupportedEventError(eventType string) *DomainError {
	return &DomainError{Kind: ErrorKindUnsupportedEvent, Message: fmt.Sprintf("unsupported event type: %s", eventType)}
}

// ErrorKindOf returns the kind of err if it is (or wraps) a DomainError.
func ErrorKindOf(err error) (ErrorKind, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind, true
	}
	return "", false
}

// ErrorCodeOf returns the machine-readable code of err, or "" if it has none.
func ErrorCodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
