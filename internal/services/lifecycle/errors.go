package lifecycle

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type Kind string

const (
	KindForbidden          Kind = "FORBIDDEN"
	KindInvalidInput       Kind = "INVALID_INPUT"
	KindConflict           Kind = "CONFLICT"
	KindNotFound           Kind = "NOT_FOUND"
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindStorageUnavailable Kind = "STORAGE_UNAVAILABLE"
)

// Error is returned by every lifecycle operation. A rejected operation has
// written nothing.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string // per-field messages for KindInvalidInput
	Err     error
	Stack   []byte
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) StackTrace() []byte {
	return e.Stack
}

func newError(kind Kind, message string, err error) *Error {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}
	return &Error{Kind: kind, Message: message, Err: err, Stack: stack}
}

func Forbidden(message string) *Error {
	return newError(KindForbidden, message, nil)
}

func Conflict(message string, err error) *Error {
	return newError(KindConflict, message, err)
}

func NotFound(message string, err error) *Error {
	return newError(KindNotFound, message, err)
}

func Unauthenticated(message string) *Error {
	return newError(KindUnauthenticated, message, nil)
}

func StorageUnavailable(message string, err error) *Error {
	return newError(KindStorageUnavailable, message, err)
}

func InvalidInput(message string, fields FieldErrors) *Error {
	e := newError(KindInvalidInput, message, nil)
	if len(fields) > 0 {
		e.Fields = fields
	}
	return e
}

// KindOf reports the kind of a lifecycle error, or "" for anything else.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}
