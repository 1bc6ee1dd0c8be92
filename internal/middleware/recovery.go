// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"coursereview/internal/apperr"
	"coursereview/internal/respond"
)

// Recoverer turns a panic in a downstream handler into an Internal error
// rendered by rs. If the handler had already started its response, the
// panic is only logged.
func Recoverer(rs *respond.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tracked := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				slog.Error("panic recovered",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", r.Header.Get(respond.RequestIDHeader),
					"response_started", tracked.written,
					"stack", string(debug.Stack()),
				)
				if tracked.written {
					return
				}
				rs.Error(tracked, r, apperr.Internalf(panicError(rec), "Something went wrong!"))
			}()

			next.ServeHTTP(tracked, r)
		})
	}
}

func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("%v", rec)
}
