package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeAgent represents agent backend errors
	ErrorTypeAgent ErrorType = "agent"
	// ErrorTypeTranslate represents translation service errors
	ErrorTypeTranslate ErrorType = "translate"
	// ErrorTypeStore represents persistence errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypePush represents outbound message delivery errors
	ErrorTypePush ErrorType = "push"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// ErrType returns the error category. Wrapper error types promote this from
// their embedded BaseError.
func (e *BaseError) ErrType() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Agent Errors

// ErrAgentInvokeFailed is returned when the agent backend request fails
type ErrAgentInvokeFailed struct {
	*BaseError
	SessionID string
}

func NewAgentInvokeFailed(sessionID string, err error) *ErrAgentInvokeFailed {
	return &ErrAgentInvokeFailed{
		BaseError: NewBaseError(ErrorTypeAgent, fmt.Sprintf("agent invocation failed for session %s", sessionID), err),
		SessionID: sessionID,
	}
}

// ErrAgentEmptyReply is returned when the agent stream carried no text
var ErrAgentEmptyReply = NewBaseError(ErrorTypeAgent, "empty reply from agent", nil)

// Translate Errors

// ErrTranslateUnavailable is returned when no translation service is configured
var ErrTranslateUnavailable = NewBaseError(ErrorTypeTranslate, "translation service not available", nil)

// ErrTranslateRequestFailed is returned when a translation call fails
type ErrTranslateRequestFailed struct {
	*BaseError
	Target string
}

func NewTranslateRequestFailed(target string, err error) *ErrTranslateRequestFailed {
	return &ErrTranslateRequestFailed{
		BaseError: NewBaseError(ErrorTypeTranslate, fmt.Sprintf("translation to %s failed", target), err),
		Target:    target,
	}
}

// Store Errors

// ErrStoreQueryFailed is returned when a persistence query fails
type ErrStoreQueryFailed struct {
	*BaseError
	Operation string
}

func NewStoreQueryFailed(operation string, err error) *ErrStoreQueryFailed {
	return &ErrStoreQueryFailed{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("store operation failed: %s", operation), err),
		Operation: operation,
	}
}

// ErrStoreUserNotFound is returned when a user document is absent
type ErrStoreUserNotFound struct {
	*BaseError
	Platform string
	UserID   string
}

func NewStoreUserNotFound(platform, userID string) *ErrStoreUserNotFound {
	return &ErrStoreUserNotFound{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("user not found: %s/%s", platform, userID), nil),
		Platform:  platform,
		UserID:    userID,
	}
}

// Push Errors

// ErrPushSendFailed is returned when an outbound platform message fails to send
type ErrPushSendFailed struct {
	*BaseError
	Platform    string
	RecipientID string
}

func NewPushSendFailed(platform, recipientID string, err error) *ErrPushSendFailed {
	return &ErrPushSendFailed{
		BaseError:   NewBaseError(ErrorTypePush, fmt.Sprintf("failed to send %s message", platform), err),
		Platform:    platform,
		RecipientID: recipientID,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if typed, ok := err.(interface{ ErrType() ErrorType }); ok {
		return typed.ErrType() == errType
	}
	// Check wrapped errors
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		inner := wrapped.Unwrap()
		if inner == nil {
			return false
		}
		return IsErrorType(inner, errType)
	}
	return false
}
