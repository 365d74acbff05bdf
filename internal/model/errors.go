package model

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors returned (wrapped in *Error) by constructors, Add* and
// lookup operations. Match them with errors.Is.
var (
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrInvalidReference    = errors.New("invalid reference")
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	ErrNotFound            = errors.New("not found")
)

// Error records the operation and identifier that violated a model contract.
type Error struct {
	Op         string
	Identifier string
	Err        error
}

func (e *Error) Error() string {
	if e.Identifier == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Identifier, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// isNil reports whether v is nil or an interface holding a nil pointer,
// such as (*Subtype)(nil) passed as a DeclaredItem.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func newError(op, identifier string, err error) error {
	return &Error{Op: op, Identifier: identifier, Err: err}
}
