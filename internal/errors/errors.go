// Package errors provides the error handling used across the compiler core.
package errors

import (
	"fmt"
)

// Type identifies the category of error, per the compiler's error kinds.
type Type string

const (
	// TypeClassNotFound is a lookup miss during flattening.
	TypeClassNotFound Type = "CLASS_NOT_FOUND"

	// TypeUnimplemented marks a recognized but deliberately unhandled construct.
	TypeUnimplemented Type = "UNIMPLEMENTED"

	// TypeMalformedInput marks grammar-accepted but semantically invalid input.
	TypeMalformedInput Type = "MALFORMED_INPUT"

	// TypeDanglingReference marks a DAE equation referring to an unbound identifier.
	TypeDanglingReference Type = "DANGLING_REFERENCE"

	// TypeAborted marks cooperative cancellation.
	TypeAborted Type = "ABORTED"

	// TypeInternal indicates a defensive, should-never-happen condition.
	TypeInternal Type = "INTERNAL_ERROR"

	// TypeConfig indicates a configuration error.
	TypeConfig Type = "CONFIG_ERROR"

	// TypeStore indicates an artifact store error.
	TypeStore Type = "STORE_ERROR"
)

// Error represents a compiler error with typed context.
//
// Location-bearing kinds (Unimplemented, MalformedInput) carry the string
// form of their location argument in Context["location"] ("<unknown>" for
// an empty location). ClassNotFound, DanglingReference and Aborted carry
// only the stage name in Context["stage"]; Internal, Config and Store
// carry no context.
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type.
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error and returns it for chaining.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error.
func New(errType Type, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// Newf creates a new formatted error.
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a type and message.
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{Type: errType, Message: message, Cause: cause}
}

// IsType checks if an error is of a specific type.
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// ClassNotFound creates a ClassNotFound error for a dotted class path.
func ClassNotFound(path string) *Error {
	return Newf(TypeClassNotFound, "class not found: %s", path).WithContext("stage", "flatten")
}

// Unimplemented creates an Unimplemented error for a recognized-but-unhandled
// construct. loc may be any value with a String() method (typically
// core/ir.SourceLocation); it is stored unevaluated to avoid a dependency
// cycle between this package and core/ir.
func Unimplemented(construct string, loc fmt.Stringer) *Error {
	e := Newf(TypeUnimplemented, "unimplemented construct: %s", construct)
	if loc != nil {
		e.WithContext("location", loc.String())
	}
	return e
}

// MalformedInput creates a MalformedInput error.
func MalformedInput(reason string, loc fmt.Stringer) *Error {
	e := Newf(TypeMalformedInput, "malformed input: %s", reason)
	if loc != nil {
		e.WithContext("location", loc.String())
	}
	return e
}

// DanglingReference creates a DanglingReference error for an unbound identifier.
func DanglingReference(name string) *Error {
	return Newf(TypeDanglingReference, "dangling reference: %s", name).WithContext("stage", "partition")
}

// Aborted creates an Aborted error for cooperative cancellation at the named stage.
func Aborted(stage string) *Error {
	return New(TypeAborted, "aborted").WithContext("stage", stage)
}

// Internal creates an internal error.
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}

// Config creates a configuration error.
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// Store creates an artifact-store error.
func Store(message string, cause error) *Error {
	return Wrap(TypeStore, message, cause)
}
