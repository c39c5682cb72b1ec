package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// MongoErrorMessage describes MongoDB related failures.
	MongoErrorMessage = "mongo operation failed"
	// MongoNotFoundMessage describes a missing MongoDB document.
	MongoNotFoundMessage = "mongo document not found"
	// ProviderErrorMessage describes completion or embedding provider failures.
	ProviderErrorMessage = "provider call failed"
	// TurnLimitMessage describes a turn that exhausted its round trips.
	TurnLimitMessage = "turn limit exceeded"
)

// Kind classifies an AppError.
type Kind string

const (
	KindInternal          Kind = "internal"
	KindProvider          Kind = "provider"
	KindStore             Kind = "store"
	KindToolExecution     Kind = "tool_execution"
	KindNotFound          Kind = "not_found"
	KindValidation        Kind = "validation"
	KindConflict          Kind = "conflict"
	KindTurnLimitExceeded Kind = "turn_limit_exceeded"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("already exists")
	ErrTurnLimitExceeded = errors.New("turn limit exceeded")
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
	Kind    Kind
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError of KindInternal.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
		Kind:    KindInternal,
	}
}

// WithKind returns a copy of e tagged with kind.
func (e *AppError) WithKind(kind Kind) *AppError {
	cp := *e
	cp.Kind = kind
	return &cp
}

// Is reports whether the target matches the underlying error.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}

// WrapProvider marks a completion or embedding provider failure.
func WrapProvider(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, ProviderErrorMessage).WithKind(KindProvider)
}

// TurnLimit reports that a turn performed max round trips without reaching a final answer.
func TurnLimit(max int) error {
	return New(fmt.Errorf("%w after %d round trips", ErrTurnLimitExceeded, max),
		http.StatusInternalServerError, TurnLimitMessage).WithKind(KindTurnLimitExceeded)
}

// Validation wraps a tool-argument violation.
func Validation(format string, args ...any) error {
	return New(fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...)),
		http.StatusBadRequest, "invalid arguments").WithKind(KindValidation)
}

// Conflict marks a write rejected because the key is already taken.
func Conflict(err error, message string) error {
	return New(errors.Join(ErrConflict, err), http.StatusConflict, message).WithKind(KindConflict)
}

// KindOf returns the kind of the first AppError in err's chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// StatusOf returns the HTTP status carried by err, defaulting to 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
