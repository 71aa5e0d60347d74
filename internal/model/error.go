package model

import (
	"errors"
	"fmt"
)

// ErrorKind tags the stage and cause of a failed weather lookup.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindResolution
	KindNetwork
	KindService
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindResolution:
		return "resolution"
	case KindNetwork:
		return "network"
	case KindService:
		return "service"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// LookupError is returned by every stage of the lookup pipeline. Message is safe to
// show to API callers; Err keeps the underlying cause for logs.
type LookupError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func NewValidationError(msg string) *LookupError {
	return &LookupError{Kind: KindValidation, Message: msg}
}

func NewResolutionError(msg string, err error) *LookupError {
	return &LookupError{Kind: KindResolution, Message: msg, Err: err}
}

func NewNetworkError(msg string, err error) *LookupError {
	return &LookupError{Kind: KindNetwork, Message: msg, Err: err}
}

func NewServiceError(msg string, err error) *LookupError {
	return &LookupError{Kind: KindService, Message: msg, Err: err}
}

func NewTimeoutError(msg string, err error) *LookupError {
	return &LookupError{Kind: KindTimeout, Message: msg, Err: err}
}

// KindOf reports the kind of the first LookupError in err's chain.
func KindOf(err error) ErrorKind {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindUnknown
}

// MessageOf returns the caller-facing message for err. Errors that are not a
// LookupError fall back to err.Error().
func MessageOf(err error) string {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Message
	}
	return err.Error()
}
