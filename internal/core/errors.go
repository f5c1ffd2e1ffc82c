package core

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a local input error. It is reported before any network call.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// NoticeError carries the exact text shown to the user for a failed operation
// while keeping the underlying cause reachable.
type NoticeError struct {
	Message string
	Err     error
}

func NewNoticeError(msg string, err error) error {
	return &NoticeError{Message: msg, Err: err}
}

func (err *NoticeError) Error() string { return err.Message }
func (err *NoticeError) Unwrap() error { return err.Err }
func (err *NoticeError) Cause() error  { return err.Err }

// messenger is implemented by errors that carry a backend-provided message.
type messenger interface {
	UserMessage() string
}

// Notice returns the text to show for err: the validation text, an explicit
// notice, the backend message, or fallback.
func Notice(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var nerr *NoticeError
	if errors.As(err, &nerr) {
		return nerr.Message
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Translate(Translator)
	}
	var m messenger
	if errors.As(err, &m) {
		if msg := strings.TrimSpace(m.UserMessage()); msg != "" {
			return msg
		}
	}
	return fallback
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return true
	}
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
