package errors

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorCode represents internal error codes for engine operations.
// Game outcomes (wrong number, consecutive turn, unconfigured tenant)
// are verdicts, never errors; these codes cover misuse of the contract
// and genuine failures only.
type ErrorCode int

const (
	// Success
	ErrCodeOK ErrorCode = 0

	// Client errors (4xx equivalent)
	ErrCodeInvalidArgument      ErrorCode = 1000
	ErrCodeInvalidTenantID      ErrorCode = 1001
	ErrCodeInvalidParticipantID ErrorCode = 1002
	ErrCodeInvalidChannelID     ErrorCode = 1003
	ErrCodeTextTooLarge         ErrorCode = 1004

	// Server errors (5xx equivalent)
	ErrCodeInternal    ErrorCode = 2000
	ErrCodeUnavailable ErrorCode = 2001
)

// EngineError represents a structured error with code and context
type EngineError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Cause   error
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// ToGRPCStatus converts EngineError to gRPC status
func (e *EngineError) ToGRPCStatus() *status.Status {
	return status.New(e.toGRPCCode(), e.Error())
}

// toGRPCCode maps internal error codes to gRPC codes
func (e *EngineError) toGRPCCode() codes.Code {
	switch e.Code {
	case ErrCodeOK:
		return codes.OK
	case ErrCodeInvalidArgument, ErrCodeInvalidTenantID,
		ErrCodeInvalidParticipantID, ErrCodeInvalidChannelID, ErrCodeTextTooLarge:
		return codes.InvalidArgument
	case ErrCodeUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// NewEngineError creates a new EngineError
func NewEngineError(code ErrorCode, message string, cause error) *EngineError {
	return &EngineError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Cause:   cause,
	}
}

// WithDetail adds a detail to the error
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	e.Details[key] = value
	return e
}

// Convenience constructors for common errors

func InvalidArgument(message string, cause error) *EngineError {
	return NewEngineError(ErrCodeInvalidArgument, message, cause)
}

func InvalidTenantID(tenantID, reason string) *EngineError {
	return NewEngineError(ErrCodeInvalidTenantID, fmt.Sprintf("invalid tenant ID '%s': %s", tenantID, reason), nil).
		WithDetail("tenant_id", tenantID).
		WithDetail("reason", reason)
}

func InvalidParticipantID(participantID, reason string) *EngineError {
	return NewEngineError(ErrCodeInvalidParticipantID, fmt.Sprintf("invalid participant ID '%s': %s", participantID, reason), nil).
		WithDetail("participant_id", participantID).
		WithDetail("reason", reason)
}

func InvalidChannelID(channelID, reason string) *EngineError {
	return NewEngineError(ErrCodeInvalidChannelID, fmt.Sprintf("invalid channel ID '%s': %s", channelID, reason), nil).
		WithDetail("channel_id", channelID).
		WithDetail("reason", reason)
}

func TextTooLarge(size, maxSize int) *EngineError {
	return NewEngineError(ErrCodeTextTooLarge, fmt.Sprintf("submission text size %d exceeds maximum %d", size, maxSize), nil).
		WithDetail("size", size).
		WithDetail("max_size", maxSize)
}

func InternalError(message string, cause error) *EngineError {
	return NewEngineError(ErrCodeInternal, message, cause)
}

func Unavailable(message string, cause error) *EngineError {
	return NewEngineError(ErrCodeUnavailable, message, cause)
}

// IsEngineError checks if an error is an EngineError
func IsEngineError(err error) bool {
	_, ok := err.(*EngineError)
	return ok
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if ee, ok := err.(*EngineError); ok {
		return ee.Code
	}
	return ErrCodeInternal
}
