// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package respond writes the JSON success and failure envelopes used by
// every endpoint, and classifies errors into status codes.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"coursereview/internal/apperr"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-Id"

// Envelope is the success response body.
type Envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Meta       *Meta  `json:"meta,omitempty"`
	Data       any    `json:"data"`
}

// Meta describes the page returned by a listing endpoint.
type Meta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Failure is the error response body. ErrorDetails and Stack are only
// populated in development.
type Failure struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ErrorMessage string `json:"errorMessage"`
	ErrorDetails any    `json:"errorDetails"`
	Stack        any    `json:"stack"`
}

// Responder renders envelopes. In dev mode failures include diagnostic
// details and the captured stack.
type Responder struct {
	dev bool
}

// New creates a Responder.
func New(dev bool) *Responder {
	return &Responder{dev: dev}
}

// JSON writes a success envelope.
func (rs *Responder) JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Success: true, StatusCode: status, Message: message, Data: data})
}

// Page writes a success envelope with pagination metadata.
func (rs *Responder) Page(w http.ResponseWriter, status int, message string, meta Meta, data any) {
	write(w, status, Envelope{Success: true, StatusCode: status, Message: message, Meta: &meta, Data: data})
}

// Error classifies err, logs it once and writes the failure envelope.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	status, body := rs.failure(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"request_id", r.Header.Get(RequestIDHeader),
		"error", err,
	)

	write(w, status, body)
}

func (rs *Responder) failure(err error) (int, Failure) {
	e, ok := apperr.As(err)
	if !ok {
		f := Failure{Message: "Something went wrong!", ErrorMessage: "Something went wrong!"}
		if rs.dev {
			f.ErrorDetails = map[string]string{"error": err.Error()}
		}
		return http.StatusInternalServerError, f
	}

	status := e.Kind.Status()
	if e.Kind == apperr.Unauthenticated {
		return status, Failure{Message: "Unauthorized Access", ErrorMessage: e.ErrorMessage()}
	}

	f := Failure{Message: e.Message, ErrorMessage: e.ErrorMessage()}
	if rs.dev {
		details := map[string]any{"kind": e.Kind.String()}
		if len(e.Fields) > 0 {
			details["fields"] = e.Fields
		}
		if e.Err != nil {
			details["cause"] = e.Err.Error()
		}
		f.ErrorDetails = details
		if stack := e.Stack(); stack != "" {
			f.Stack = stack
		}
	}
	return status, f
}

// Fail writes a failure envelope without classification. Used where no
// Responder is available, such as panic recovery.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, Failure{Message: message, ErrorMessage: message})
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("encode response", "error", err)
	}
}
