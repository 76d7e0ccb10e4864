// Package apperr defines the error taxonomy shared by both front ends:
// validation errors are handled locally without calling any external
// service, service errors wrap failures of the MT model, the translation
// API or the TTS API, and IO errors cover log writes and audio saves.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how the front ends must react to it
type Kind int

const (
	// Unknown is any error that did not pass through this package
	Unknown Kind = iota
	// Validation errors are rejected locally, before any external call
	Validation
	// Service errors come from an external model or web service
	Service
	// IO errors come from the history log or from audio files
	IO
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Service:
		return "service"
	case IO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is a classified error. Msg is what the user sees; Err keeps the
// underlying cause for logs.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind != Service {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validationf returns a validation error with a formatted user message
func Validationf(format string, args ...any) error {
	return &Error{Kind: Validation, Msg: fmt.Sprintf(format, args...)}
}

// NewService wraps a failure of an external collaborator. The message is
// deliberately opaque: network, quota and unsupported-pair failures all
// read the same to the user.
func NewService(op string, err error) error {
	return &Error{
		Kind: Service,
		Op:   op,
		Msg:  fmt.Sprintf("%s failed, please try again later", op),
		Err:  err,
	}
}

// NewIO wraps a local file or database failure
func NewIO(op string, err error) error {
	return &Error{
		Kind: IO,
		Op:   op,
		Msg:  fmt.Sprintf("%s failed", op),
		Err:  err,
	}
}

// KindOf reports the kind of the first classified error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool { return KindOf(err) == Validation }

// IsService reports whether err is a service error
func IsService(err error) bool { return KindOf(err) == Service }

// IsIO reports whether err is an IO error
func IsIO(err error) bool { return KindOf(err) == IO }

// UserMessage returns the text to show in a dialog or on the web form
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}
