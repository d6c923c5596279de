package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/ledger/accounts/{address}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{
		"/ledger/accounts/0x00000000000000000000000000000000000000a1",
		"/ledger/accounts/0x00000000000000000000000000000000000000b0",
		"/healthz",
	} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(
		m.Requests.WithLabelValues(http.MethodGet, "/ledger/accounts/{address}", "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.Requests.WithLabelValues(http.MethodGet, "/healthz", "200")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.InFlight))
}
