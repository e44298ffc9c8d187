package models

import (
	"maps"
	"slices"
	"strings"
)

// ErrorKind classifies a failed store operation.
type ErrorKind string

const (
	// KindAuthInvalid means the credential is bad or expired; the session is reset.
	KindAuthInvalid ErrorKind = "auth_invalid"
	// KindValidation carries per-field messages.
	KindValidation ErrorKind = "validation_failed"
	// KindOperation carries a general message returned by the backend.
	KindOperation ErrorKind = "operation_failed"
	// KindNetwork means no response was received.
	KindNetwork ErrorKind = "network_unavailable"
)

// UnreachableMessage is the user-facing text for KindNetwork.
const UnreachableMessage = "service unreachable, try again later"

// OperationError is the uniform failure shape consumed by forms and widgets.
// Exactly one of General and Fields is populated. Consumers check field
// errors first and fall back to General.
type OperationError struct {
	Kind    ErrorKind
	General string
	Fields  map[string]string

	// Err is the underlying gateway error, exposed through Unwrap.
	Err error
}

// NewFieldError builds a validation error from a field→message map.
func NewFieldError(fields map[string]string, cause error) *OperationError {
	return &OperationError{Kind: KindValidation, Fields: maps.Clone(fields), Err: cause}
}

// NewGeneralError builds an error carrying a single message.
func NewGeneralError(kind ErrorKind, message string, cause error) *OperationError {
	return &OperationError{Kind: kind, General: message, Err: cause}
}

func (e *OperationError) Error() string {
	if e.HasFieldErrors() {
		keys := slices.Sorted(maps.Keys(e.Fields))
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		return strings.Join(parts, "; ")
	}
	return e.General
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func (e *OperationError) HasFieldErrors() bool {
	return len(e.Fields) > 0
}

// FieldError returns the message for field, or "" when there is none.
func (e *OperationError) FieldError(field string) string {
	if e == nil {
		return ""
	}
	return e.Fields[field]
}

// Message returns the text to show in a general banner.
func (e *OperationError) Message() string {
	if e == nil || e.HasFieldErrors() {
		return ""
	}
	if e.Kind == KindNetwork {
		return UnreachableMessage
	}
	return e.General
}

// WithoutField returns a copy with the error for field removed. A validation
// error left with no fields becomes nil.
func (e *OperationError) WithoutField(field string) *OperationError {
	if e == nil || !e.HasFieldErrors() {
		return e
	}
	if _, ok := e.Fields[field]; !ok {
		return e
	}
	fields := maps.Clone(e.Fields)
	delete(fields, field)
	if len(fields) == 0 {
		return nil
	}
	return &OperationError{Kind: e.Kind, Fields: fields, Err: e.Err}
}
