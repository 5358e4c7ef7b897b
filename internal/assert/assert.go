// Package assert provides always-on contract checks. A failed check is a
// programming error and panics with an *AssertionError; it is never used
// for bad user input or failed requests.
package assert

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
)

// AssertionError is the panic value of a failed check.
type AssertionError struct {
	Message string
	File    string
	Line    int
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed at %s:%d: %s", e.File, e.Line, e.Message)
}

// fail panics with the location of the caller of the exported check.
func fail(msg string, args ...any) {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
	}
	panic(&AssertionError{
		Message: fmt.Sprintf(msg, args...),
		File:    filepath.Base(file),
		Line:    line,
	})
}

// True asserts that the condition holds.
func True(condition bool, msg string, args ...any) {
	if !condition {
		fail(msg, args...)
	}
}

// NotNil asserts that value is neither nil nor a nil pointer, map, slice,
// func or channel stored in an interface.
func NotNil(value any, msg string, args ...any) {
	if isNil(value) {
		fail(msg, args...)
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// NotEmptyString asserts that s is not empty.
func NotEmptyString(s string, msg string, args ...any) {
	if s == "" {
		fail(msg, args...)
	}
}

// Positive asserts that value is greater than zero.
func Positive(value int, msg string, args ...any) {
	if value <= 0 {
		fail(msg, args...)
	}
}
