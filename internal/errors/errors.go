// Package errors provides structured error handling for the scaffold engine.
//
// Overview:
//   - Responsibility: Classify engine failures and carry the offending path or field
//   - Key Types: Code type for error classification, E struct for structured errors
//   - Concurrency Model: All functions are safe for concurrent use
//   - Error Semantics: Compatible with standard library error wrapping
//   - Performance Notes: Errors are built only on failure paths
//
// Usage:
//
//	err := errors.Build(errors.CodeRender).WithPath("app/main.go").WithKey("port").Err()
//	code := errors.CodeOf(err)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents an error classification code.
type Code string

// Engine error codes.
const (
	CodeCatalogIntegrity Code = "CATALOG_INTEGRITY"
	CodeValidation       Code = "VALIDATION"
	CodeCompile          Code = "COMPILE"
	CodeRender           Code = "RENDER"
	CodeUnsupportedGroup Code = "UNSUPPORTED_GROUP"
	CodeConflict         Code = "CONFLICT"
	CodeFileSystem       Code = "FILESYSTEM"
	CodeCanceled         Code = "CANCELED"
)

// E represents a structured error with code, operation, subject and message.
type E struct {
	Code Code   // Error classification code
	Op   string // Operation that failed
	Path string // Virtual or output path involved (may be empty)
	Key  string // Variable, field or template name involved (may be empty)
	Msg  string // Human-readable message
	Err  error  // Underlying error (may be nil)
}

// Error implements the error interface.
func (e *E) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Path != "" {
		b.WriteString(": ")
		b.WriteString(e.Path)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error for error unwrapping.
func (e *E) Unwrap() error {
	return e.Err
}

// Wrap creates a new structured error wrapping an existing error.
// The operation name helps identify where the error occurred.
func Wrap(code Code, op string, err error) error {
	return &E{
		Code: code,
		Op:   op,
		Err:  err,
	}
}

// Wrapf creates a new structured error wrapping an existing error with formatted message.
func Wrapf(code Code, op string, err error, format string, args ...any) error {
	return &E{
		Code: code,
		Op:   op,
		Err:  err,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// CodeOf extracts the error code from an error.
// Returns empty string if the error doesn't have a code.
func CodeOf(err error) Code {
	var e *E
	if err != nil && errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// KeyOf returns the variable, field or template name carried by err, if any.
func KeyOf(err error) string {
	var e *E
	if err != nil && errors.As(err, &e) {
		return e.Key
	}
	return ""
}

// PathOf returns the path carried by err, if any.
func PathOf(err error) string {
	var e *E
	if err != nil && errors.As(err, &e) {
		return e.Path
	}
	return ""
}

// IsCode checks if an error has a specific code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// As is a convenience wrapper around the standard library's errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is is a convenience wrapper around the standard library's errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Join is a convenience wrapper around the standard library's errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Builder provides a fluent interface for constructing errors.
type Builder struct {
	code Code
	op   string
	path string
	key  string
	msg  string
	err  error
}

// Build starts a new error with the given code.
func Build(code Code) *Builder {
	return &Builder{code: code}
}

// WithOp sets the operation that failed.
func (b *Builder) WithOp(op string) *Builder {
	b.op = op
	return b
}

// WithPath sets the path involved.
func (b *Builder) WithPath(path string) *Builder {
	b.path = path
	return b
}

// WithKey sets the variable, field or template name involved.
func (b *Builder) WithKey(key string) *Builder {
	b.key = key
	return b
}

// WithErr wraps an underlying error.
func (b *Builder) WithErr(err error) *Builder {
	b.err = err
	return b
}

// WithMsg sets a human-readable message.
func (b *Builder) WithMsg(msg string) *Builder {
	b.msg = msg
	return b
}

// WithMsgf sets a formatted human-readable message.
func (b *Builder) WithMsgf(format string, args ...any) *Builder {
	b.msg = fmt.Sprintf(format, args...)
	return b
}

// Err builds and returns the error.
func (b *Builder) Err() error {
	return &E{
		Code: b.code,
		Op:   b.op,
		Path: b.path,
		Key:  b.key,
		Msg:  b.msg,
		Err:  b.err,
	}
}
