package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coursereview/internal/respond"
)

func TestRecoverer(t *testing.T) {
	recoverer := Recoverer(respond.New(false))

	t.Run("no panic passes through", func(t *testing.T) {
		handler := recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rr.Code)
		}
	})

	t.Run("panic yields 500 envelope", func(t *testing.T) {
		handler := recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rr.Code)
		}
		var f respond.Failure
		if err := json.NewDecoder(rr.Body).Decode(&f); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if f.Success || f.Message != "Something went wrong!" {
			t.Errorf("body = %+v", f)
		}
		if f.ErrorDetails != nil || f.Stack != nil {
			t.Errorf("production envelope leaked diagnostics: %+v", f)
		}
	})

	t.Run("panic after headers keeps the response", func(t *testing.T) {
		handler := recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("partial"))
			panic("late")
		}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		if rr.Code != http.StatusAccepted {
			t.Errorf("status = %d, want 202", rr.Code)
		}
		if body := rr.Body.String(); body != "partial" {
			t.Errorf("body = %q, want only the handler's output", body)
		}
	})

	t.Run("ErrAbortHandler is re-panicked", func(t *testing.T) {
		handler := recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))
		defer func() {
			if rec := recover(); rec != http.ErrAbortHandler {
				t.Errorf("recovered %v, want http.ErrAbortHandler", rec)
			}
		}()
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestRecovererDevDetails(t *testing.T) {
	handler := Recoverer(respond.New(true))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	var f struct {
		respond.Failure
		ErrorDetails map[string]any `json:"errorDetails"`
		Stack        string         `json:"stack"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.ErrorDetails["cause"] != "boom" {
		t.Errorf("errorDetails = %v, want cause boom", f.ErrorDetails)
	}
	if !strings.Contains(f.Stack, "recovery") {
		t.Errorf("stack does not reach the recovering frame:\n%s", f.Stack)
	}
}
