package error

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidRequest      = 4000
	CodeInvalidField        = 4001
	CodeInvalidAmount       = 4002
	CodeInvalidMessageID    = 4003
	CodeAlreadyReversed     = 4004
	CodeNotLoadable         = 4005
	CodeUnknownConfigKey    = 4006
	CodeMessageNotFound     = 4040
	CodeBusy                = 4090
	CodeTunnelNotConnected  = 4091
	CodeUnsupportedSwitch   = 4220
	CodeIdentifierExhausted = 4290

	// 5xxx - Server errors
	CodeInternalServer = 5000
	CodeBackend        = 5020
)

// Base error types
var (
	// ErrInvalidField is returned when one or more message fields fail validation
	ErrInvalidField = errors.New("invalid field")

	// ErrInvalidAmount is returned when an amount or fee cannot be read as money
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNegativeAmount is returned when an amount or fee is negative
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrInvalidMessageID is returned when the ledger row ID is not a positive integer
	ErrInvalidMessageID = errors.New("message ID must be positive")

	// ErrInvalidEnum is returned when a wire string does not name a known enum value
	ErrInvalidEnum = errors.New("invalid enum value")

	// ErrAlreadyReversed is returned when a reversal is requested for a message that is itself a reversal
	ErrAlreadyReversed = errors.New("message is already a reversal")

	// ErrNotLoadable is returned when a ledger row cannot be loaded into the composer
	ErrNotLoadable = errors.New("message cannot be loaded into the composer")

	// ErrMessageNotFound is returned when the requested ledger row doesn't exist
	ErrMessageNotFound = errors.New("message not found")

	// ErrBusy is returned when a destructive operation is already in flight
	ErrBusy = errors.New("another operation is in progress")

	// ErrTunnelNotConnected is returned when the tunnel is required but closed
	ErrTunnelNotConnected = errors.New("tunnel is not connected")

	// ErrUnsupportedSwitch is returned when no codec exists for the target switch
	ErrUnsupportedSwitch = errors.New("atm switch not supported")

	// ErrMalformedResponse is returned when a switch answer cannot be decoded
	ErrMalformedResponse = errors.New("malformed switch response")

	// ErrIdentifierExhausted is returned when no unused identifier could be drawn
	ErrIdentifierExhausted = errors.New("could not allocate an unused identifier")

	// ErrUnknownConfigKey is returned when a configuration key is not one of the managed keys
	ErrUnknownConfigKey = errors.New("unknown configuration key")

	// ErrMissingSSHKey is returned when the tunnel is opened without a key file configured
	ErrMissingSSHKey = errors.New("missing SSH_KEY, please configure it in the settings")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrInvalidField):
		return CodeInvalidField
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidMessageID):
		return CodeInvalidMessageID
	case errors.Is(err, ErrAlreadyReversed):
		return CodeAlreadyReversed
	case errors.Is(err, ErrNotLoadable):
		return CodeNotLoadable
	case errors.Is(err, ErrUnknownConfigKey):
		return CodeUnknownConfigKey
	case errors.Is(err, ErrMessageNotFound):
		return CodeMessageNotFound
	case errors.Is(err, ErrBusy):
		return CodeBusy
	case errors.Is(err, ErrTunnelNotConnected):
		return CodeTunnelNotConnected
	case errors.Is(err, ErrUnsupportedSwitch):
		return CodeUnsupportedSwitch
	case errors.Is(err, ErrIdentifierExhausted):
		return CodeIdentifierExhausted
	case IsBackendError(err):
		return CodeBackend
	default:
		return CodeInternalServer
	}
}

// FieldErrors maps message field names to human-readable validation messages
type FieldErrors map[string]string

// Error implements the error interface for FieldErrors
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e[field]))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidField, strings.Join(parts, "; "))
}

// Is reports whether target is ErrInvalidField
func (e FieldErrors) Is(target error) bool {
	return target == ErrInvalidField
}

// Add records a message for a field, keeping the first one reported
func (e FieldErrors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// LogFields returns a map of fields for structured logging
func (e FieldErrors) LogFields() map[string]any {
	fields := make(map[string]any, len(e))
	for k, v := range e {
		fields[k] = v
	}
	return map[string]any{
		"error_type": "field_errors",
		"fields":     fields,
		"error_code": CodeInvalidField,
	}
}

// AsFieldErrors extracts field errors from err when present
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// BackendError represents a failure reported by the backend for a named operation
type BackendError struct {
	Op  string
	Err error
}

// Error implements the error interface for BackendError
func (e *BackendError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *BackendError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *BackendError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "backend_error",
		"operation":  e.Op,
		"error":      e.Err.Error(),
		"error_code": CodeBackend,
	}
}

// NewBackendError wraps err as a backend failure of op. Precondition errors pass through untouched.
func NewBackendError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsPreconditionError(err) || IsBackendError(err) {
		return err
	}
	return &BackendError{Op: op, Err: err}
}

// IsBackendError checks if the error came from the backend
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// ReversalError provides detail about a rejected reversal request
type ReversalError struct {
	MessageID uint64
	Kind      string
}

// Error implements the error interface
func (e *ReversalError) Error() string {
	return fmt.Sprintf("message %d of kind %q is already a reversal", e.MessageID, e.Kind)
}

// Is checks if the target error is an ErrAlreadyReversed
func (e *ReversalError) Is(target error) bool {
	return target == ErrAlreadyReversed
}

// LogFields returns a map of fields for structured logging
func (e *ReversalError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "already_reversed",
		"message_id": e.MessageID,
		"kind":       e.Kind,
		"error_code": CodeAlreadyReversed,
	}
}

// NewReversalError creates a detailed already-reversed error
func NewReversalError(messageID uint64, kind string) error {
	return &ReversalError{MessageID: messageID, Kind: kind}
}

// IsPreconditionError checks if the error is a violated precondition rather than a failure
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrAlreadyReversed) ||
		errors.Is(err, ErrNotLoadable) ||
		errors.Is(err, ErrMessageNotFound) ||
		errors.Is(err, ErrBusy) ||
		errors.Is(err, ErrUnknownConfigKey) ||
		errors.Is(err, ErrInvalidField)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrMessageNotFound)
}

// IsBusyError checks if the error is caused by busy gating
func IsBusyError(err error) bool {
	return errors.Is(err, ErrBusy)
}
