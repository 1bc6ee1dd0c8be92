package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"coursereview/internal/respond"
)

const maxRequestIDLen = 128

// RequestID ensures every request carries an X-Request-Id. A client
// supplied value is kept when it is short enough; otherwise a UUID is
// generated. The ID is echoed in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(respond.RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
			r.Header.Set(respond.RequestIDHeader, id)
		}
		w.Header().Set(respond.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
