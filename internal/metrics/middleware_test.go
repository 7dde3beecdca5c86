package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/companies", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	r.Get("/companies/{ids}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	return r
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := newRouter()

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/companies/{ids}", "404"))

	for _, path := range []string{"/companies/1", "/companies/2,3"} {
		req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rr.Code)
		}
	}

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/companies/{ids}", "404"))
	if after-before != 2 {
		t.Errorf("expected 2 requests under the route pattern, got %f", after-before)
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := newRouter()

	tests := []struct {
		path   string
		route  string
		status string
	}{
		{"/companies", "/companies", "200"},
		{"/boom", "/boom", "500"},
		{"/nowhere", "unmatched", "404"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, http.NoBody)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			val := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", tc.route, tc.status))
			if val < 1 {
				t.Errorf("expected requests_total{route=%q,status=%q} >= 1, got %f", tc.route, tc.status, val)
			}
		})
	}

	if testutil.CollectAndCount(HTTPRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_InFlightReturnsToZero(t *testing.T) {
	r := newRouter()
	req := httptest.NewRequest(http.MethodGet, "/companies", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if v := testutil.ToFloat64(HTTPRequestsInFlight); v != 0 {
		t.Errorf("in-flight gauge = %f after request, want 0", v)
	}
}

func TestRegister_Idempotent(t *testing.T) {
	Register()
	Register()
}
