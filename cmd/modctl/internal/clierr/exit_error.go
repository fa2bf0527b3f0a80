// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package clierr carries process exit codes through the error chain.
package clierr

import (
	"errors"
	"fmt"
)

// Exit codes used across modctl. Anything else is a plain failure.
const (
	CodeFailure = 1
	CodeUsage   = 2
)

type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError is an error that carries an explicit process exit code.
// It supports wrapping via Unwrap so errors.Is/As work as expected.
type ExitError struct {
	code  int
	msg   string
	cause error
}

func (e *ExitError) Error() string {
	// Keep this stable and user-facing; don't include the code here.
	switch {
	case e.msg == "" && e.cause != nil:
		return e.cause.Error()
	case e.cause == nil:
		return e.msg
	default:
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
}

func (e *ExitError) ExitCode() int { return e.code }

// Unwrap enables errors.Is/As to traverse the underlying cause.
func (e *ExitError) Unwrap() error { return e.cause }

// New creates an ExitError with a message.
func New(code int, msg string) error {
	return &ExitError{code: normalize(code), msg: msg}
}

// Wrap creates an ExitError that wraps an underlying cause.
func Wrap(code int, msg string, cause error) error {
	if cause == nil {
		return New(code, msg)
	}
	return &ExitError{code: normalize(code), msg: msg, cause: cause}
}

// Newf is a formatted variant.
func Newf(code int, format string, args ...any) error {
	return &ExitError{code: normalize(code), msg: fmt.Sprintf(format, args...)}
}

// Wrapf is a formatted variant that wraps.
func Wrapf(code int, cause error, format string, args ...any) error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// WithCode attaches an exit code to err without changing its message.
// Used where a subprocess's own exit code should become modctl's.
func WithCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{code: normalize(code), cause: err}
}

// ExitCodeOf extracts an exit code from any error, defaulting to 1.
// This keeps main() dumb and avoids duplicating errors.As logic everywhere.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return CodeFailure
}

func normalize(code int) int {
	// Exit code 0 means success; errors should never be 0.
	if code <= 0 {
		return CodeFailure
	}
	return code
}
