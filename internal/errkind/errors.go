// Package errkind defines the failure kinds raised while constructing IR.
//
// Every constructor failure is a *Error carrying one of three kinds:
//   - KindType: wrong node kind or shape, type mismatch, unsupported or
//     conflicting placement
//   - KindValue: a lookup failed for a reason other than a type mismatch
//     (unknown element name on a read path, length or count mismatch)
//   - KindAttribute: an assignment targeted a field that does not exist
//
// Failures are contract violations detected at construction time. Nothing
// is retried and no partial result is ever returned alongside an error.
package errkind

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind categorizes construction failures.
type Kind string

const (
	// KindType indicates a wrong kind, shape, type or placement.
	KindType Kind = "TYPE_ERROR"

	// KindValue indicates a failed lookup or a count mismatch.
	KindValue Kind = "VALUE_ERROR"

	// KindAttribute indicates an assignment to a field that does not exist.
	KindAttribute Kind = "ATTRIBUTE_ERROR"
)

// Error is a construction failure with structured context.
type Error struct {
	// Kind identifies the failure category.
	Kind Kind

	// Op names the constructor that failed (e.g. "federated_zip").
	Op string

	// Message is a human-readable description.
	Message string

	// Details contains the offending types, names, indices or counts.
	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%s", k, e.Details[k])
		}
		b.WriteString(")")
	}
	return b.String()
}

// With returns e after recording a detail. Intended for chaining at the
// construction site:
//
//	return nil, errkind.Typef(op, "argument is not federated").With("type", t.String())
func (e *Error) With(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Typef creates a KindType error.
func Typef(op, format string, args ...any) *Error {
	return &Error{Kind: KindType, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Valuef creates a KindValue error.
func Valuef(op, format string, args ...any) *Error {
	return &Error{Kind: KindValue, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Attributef creates a KindAttribute error.
func Attributef(op, format string, args ...any) *Error {
	return &Error{Kind: KindAttribute, Op: op, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsTypeError returns true if err is a KindType error.
func IsTypeError(err error) bool {
	return KindOf(err) == KindType
}

// IsValueError returns true if err is a KindValue error.
func IsValueError(err error) bool {
	return KindOf(err) == KindValue
}

// IsAttributeError returns true if err is a KindAttribute error.
func IsAttributeError(err error) bool {
	return KindOf(err) == KindAttribute
}

// ParseKind maps the lower-case spelling used in scripts ("type_error",
// "value_error", "attribute_error") or the canonical upper-case spelling to
// a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(KindType):
		return KindType, true
	case string(KindValue):
		return KindValue, true
	case string(KindAttribute):
		return KindAttribute, true
	}
	return "", false
}
