// Package jerr carries the error categories the CLI reports on.
package jerr

import (
	"errors"
	"fmt"
)

// Code represents a stable error category that callers can switch on.
type Code string

const (
	CodeUnknown        Code = "unknown"
	CodeUsage          Code = "usage"
	CodeConfig         Code = "config"
	CodeAPI            Code = "api"
	CodeNotImplemented Code = "not_implemented"
)

// Error is a simple value type that carries a Code plus the underlying error.
type Error struct {
	Code Code
	err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.err == nil {
		return string(e.Code)
	}
	return e.err.Error()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// New wraps an error with the provided code. If err is nil a nil is returned.
func New(code Code, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, err: err}
}

// Usagef builds a usage error from a format string.
func Usagef(format string, args ...any) error {
	return &Error{Code: CodeUsage, err: fmt.Errorf(format, args...)}
}

// Configf builds a configuration error from a format string.
func Configf(format string, args ...any) error {
	return &Error{Code: CodeConfig, err: fmt.Errorf(format, args...)}
}

// NotImplemented reports an operation that has no backend yet.
func NotImplemented(op string) error {
	return &Error{Code: CodeNotImplemented, err: fmt.Errorf("%s is not implemented", op)}
}

// CodeOf returns the code of the outermost *Error in the chain, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode helps callers compare codes without type assertions.
func IsCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}
