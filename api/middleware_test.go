package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func TestRequestIDMiddlewareGeneratesID(t *testing.T) {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware())

	var seen string
	r.HandleFunc("/x", func(w http.ResponseWriter, req *http.Request) {
		seen = RequestID(req.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == "" {
		t.Error("handler should see a generated request id")
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Errorf("header %q should match context id %q", rec.Header().Get("X-Request-ID"), seen)
	}
}

func TestRequestIDMiddlewareKeepsCallerID(t *testing.T) {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware())
	r.HandleFunc("/x", func(w http.ResponseWriter, req *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") != "caller-supplied" {
		t.Errorf("caller id should be kept, got %q", rec.Header().Get("X-Request-ID"))
	}
}

func TestRequestIDOutsideMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if id := RequestID(req.Context()); id != "" {
		t.Errorf("expected empty id outside the middleware, got %q", id)
	}
}
