// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error taxonomy shared by every layer of the
// API. Domain and store code return *Error values; the HTTP layer maps the
// Kind to a status code and renders the failure envelope.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	Internal Kind = iota
	InvalidRequest
	Unauthenticated
	Forbidden
	NotFound
	Conflict
	NoData
)

var kindNames = map[Kind]string{
	Internal:        "internal",
	InvalidRequest:  "invalid_request",
	Unauthenticated: "unauthenticated",
	Forbidden:       "forbidden",
	NotFound:        "not_found",
	Conflict:        "conflict",
	NoData:          "no_data",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case InvalidRequest:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound, NoData:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error is a classified failure. Message is the short summary shown to
// clients, Detail the longer errorMessage. Fields carries per-field
// validation failures.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	Fields  map[string]string
	Err     error

	stack []uintptr
}

func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so callers can compare against
// the exported sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// ErrorMessage returns Detail, falling back to Message.
func (e *Error) ErrorMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// Stack formats the call stack captured when the error was built.
func (e *Error) Stack() string {
	if len(e.stack) == 0 {
		return ""
	}
	var b strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return b.String()
}

// Sentinels for errors.Is comparisons by kind.
var (
	ErrInvalidRequest  = &Error{Kind: InvalidRequest}
	ErrUnauthenticated = &Error{Kind: Unauthenticated}
	ErrForbidden       = &Error{Kind: Forbidden}
	ErrNotFound        = &Error{Kind: NotFound}
	ErrConflict        = &Error{Kind: Conflict}
	ErrNoData          = &Error{Kind: NoData}
	ErrInternal        = &Error{Kind: Internal}
)

// New builds an *Error of the given kind and records the caller's stack.
func New(kind Kind, message string) *Error {
	return build(kind, message, "", nil)
}

// Wrap builds an *Error that wraps err.
func Wrap(kind Kind, message string, err error) *Error {
	return build(kind, message, "", err)
}

func build(kind Kind, message, detail string, err error) *Error {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	return &Error{Kind: kind, Message: message, Detail: detail, Err: err, stack: pcs[:n]}
}

// Invalid reports a malformed request.
func Invalid(message string) *Error {
	return build(InvalidRequest, message, "", nil)
}

// Unauthorized reports a missing or unusable credential.
func Unauthorized(message string) *Error {
	return build(Unauthenticated, message, "", nil)
}

// Denied reports an authenticated caller lacking permission.
func Denied(message string) *Error {
	return build(Forbidden, message, "", nil)
}

// Missing reports an absent resource.
func Missing(message string) *Error {
	return build(NotFound, message, "", nil)
}

// Empty reports an aggregate over an empty data set.
func Empty(message string) *Error {
	return build(NoData, message, "", nil)
}

// Internalf wraps an unexpected failure.
func Internalf(err error, format string, args ...any) *Error {
	return build(Internal, "Something went wrong!", fmt.Sprintf(format, args...), err)
}

// Duplicate reports a uniqueness violation on value.
func Duplicate(value string) *Error {
	return build(Conflict, "Duplicate Error", value+" already exists!", nil)
}

// InvalidID reports an identifier that cannot be parsed.
func InvalidID(value string) *Error {
	return build(InvalidRequest, "Invalid ID", value+" is not a valid ID!", nil)
}

// Validation reports per-field failures. The detail joins the messages in
// field order.
func Validation(order []string, fields map[string]string) *Error {
	msgs := make([]string, 0, len(order))
	for _, f := range order {
		if m, ok := fields[f]; ok {
			msgs = append(msgs, m)
		}
	}
	e := build(InvalidRequest, "Validation Error", strings.Join(msgs, " "), nil)
	e.Fields = fields
	return e
}

// KindOf returns the Kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
