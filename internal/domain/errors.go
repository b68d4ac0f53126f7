package domain

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer
type Kind string

const (
	KindValidation  Kind = "validation_error"
	KindAuth        Kind = "auth_error"
	KindConflict    Kind = "conflict_error"
	KindNotFound    Kind = "not_found"
	KindTimeout     Kind = "timeout_error"
	KindTransaction Kind = "transaction_error"
)

// Error is a typed failure carrying a stable code such as "EmptyRecipientSet"
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code, so wrapped copies of a sentinel still compare equal
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Retryable reports whether the caller may retry the whole operation
func (e *Error) Retryable() bool {
	return e.Kind == KindTimeout || e.Kind == KindTransaction
}

// WithMessage returns a copy of e with a more specific message
func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

// Wrap returns a copy of e carrying cause
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: cause}
}

var (
	ErrEmptyMessage      = &Error{Kind: KindValidation, Code: "EmptyMessage", Message: "message must not be empty"}
	ErrMessageTooLong    = &Error{Kind: KindValidation, Code: "MessageTooLong", Message: "message exceeds the configured length limit"}
	ErrInvalidPriority   = &Error{Kind: KindValidation, Code: "InvalidPriority", Message: "priority must be one of low, normal, high, critical"}
	ErrInvalidSelector   = &Error{Kind: KindValidation, Code: "InvalidSelector", Message: "recipients must be one of all, location, priority"}
	ErrMissingLocation   = &Error{Kind: KindValidation, Code: "MissingLocation", Message: "location is required"}
	ErrMissingName       = &Error{Kind: KindValidation, Code: "MissingName", Message: "name is required"}
	ErrInvalidPhone      = &Error{Kind: KindValidation, Code: "InvalidPhone", Message: "phone is not a valid phone number"}
	ErrEmptyRecipientSet = &Error{Kind: KindValidation, Code: "EmptyRecipientSet", Message: "no active recipients match the selector"}
	ErrInvalidStatus     = &Error{Kind: KindValidation, Code: "InvalidStatus", Message: "status must be delivered or failed"}
	ErrInvalidFilter     = &Error{Kind: KindValidation, Code: "InvalidFilter", Message: "invalid filter"}
	ErrInvalidUpload     = &Error{Kind: KindValidation, Code: "InvalidUpload", Message: "invalid upload"}
	ErrInvalidAgency     = &Error{Kind: KindValidation, Code: "InvalidAgency", Message: "invalid agency details"}
	ErrInvalidEvent      = &Error{Kind: KindValidation, Code: "InvalidEvent", Message: "invalid delivery event"}

	ErrInvalidCredentials = &Error{Kind: KindAuth, Code: "InvalidCredentials", Message: "invalid email or password"}
	ErrExpiredToken       = &Error{Kind: KindAuth, Code: "ExpiredToken", Message: "token has expired"}
	ErrInvalidToken       = &Error{Kind: KindAuth, Code: "InvalidToken", Message: "token is invalid"}

	ErrDuplicateRecipient = &Error{Kind: KindConflict, Code: "DuplicateRecipient", Message: "a recipient with this phone already exists"}
	ErrDuplicateAlert     = &Error{Kind: KindConflict, Code: "DuplicateAlert", Message: "an alert with this idempotency key was already sent"}
	ErrDuplicateAgency    = &Error{Kind: KindConflict, Code: "DuplicateAgency", Message: "an agency with this email already exists"}

	ErrNotFound = &Error{Kind: KindNotFound, Code: "NotFound", Message: "resource not found"}

	ErrTimeout     = &Error{Kind: KindTimeout, Code: "Timeout", Message: "deadline exceeded, retry the request"}
	ErrTransaction = &Error{Kind: KindTransaction, Code: "TransactionFailed", Message: "the operation was rolled back, retry it"}
)

// KindOf returns the kind of err, or "" for untyped errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsTimeout reports whether err is a deadline or cancellation from the store or queue
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout)
}
