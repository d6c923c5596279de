package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"propledger/internal/platform/metrics"
	audit "propledger/pkg/platform/audit"
	"propledger/pkg/platform/audit/store/memory"
	request "propledger/pkg/platform/middleware/request"
	"propledger/pkg/requestcontext"
)

type stubOutbox struct {
	published int
	err       error
}

func (s *stubOutbox) Drain(context.Context) (int, error) {
	return s.published, s.err
}

type echoFeature struct{}

func (echoFeature) Register(r chi.Router) {
	r.Get("/echo/now", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, requestcontext.Now(r.Context()).Format(time.RFC3339))
	})
}

type RouterSuite struct {
	suite.Suite
	outbox *stubOutbox
	trail  *memory.InMemoryStore
	health map[string]HealthCheck
	router chi.Router
	now    time.Time
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.outbox = &stubOutbox{published: 3}
	s.trail = memory.NewInMemoryStore()
	s.health = map[string]HealthCheck{"postgres": func(context.Context) error { return nil }}
	s.now = time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	reg := prometheus.NewRegistry()
	s.router = NewRouter(RouterDeps{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Features: []RouteRegistrar{echoFeature{}},
		Health:   s.health,
		OpsToken: "ops-secret",
		Outbox:   s.outbox,
		Audit:    s.trail,
		Now:      func() time.Time { return s.now },
	})
}

func (s *RouterSuite) serve(method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) TestMiddlewareChain() {
	s.Run("request id is generated and echoed", func() {
		w := s.serve(http.MethodGet, "/echo/now", nil)
		s.Equal(http.StatusOK, w.Code)
		s.NotEmpty(w.Header().Get(request.HeaderRequestID))
	})

	s.Run("inbound request id is kept", func() {
		w := s.serve(http.MethodGet, "/echo/now", map[string]string{request.HeaderRequestID: "req-42"})
		s.Equal("req-42", w.Header().Get(request.HeaderRequestID))
	})

	s.Run("request time comes from the injected clock", func() {
		w := s.serve(http.MethodGet, "/echo/now", nil)
		s.Equal("2026-02-02T12:00:00Z", w.Body.String())
	})
}

func (s *RouterSuite) TestHealth() {
	s.Run("ok", func() {
		w := s.serve(http.MethodGet, "/healthz", nil)
		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), `"ok"`)
	})

	s.Run("degraded names the failing dependency", func() {
		s.health["redis"] = func(context.Context) error { return errors.New("connection refused") }
		w := s.serve(http.MethodGet, "/healthz", nil)
		s.Equal(http.StatusServiceUnavailable, w.Code)
		s.Contains(w.Body.String(), "redis")
		s.NotContains(w.Body.String(), "postgres")
	})
}

func (s *RouterSuite) TestMetricsEndpoint() {
	s.serve(http.MethodGet, "/echo/now", nil)
	w := s.serve(http.MethodGet, "/metrics", nil)
	s.Equal(http.StatusOK, w.Code)
	s.True(strings.Contains(w.Body.String(), "propledger_http_requests_total"))
}

func (s *RouterSuite) TestOps() {
	token := map[string]string{"X-Ops-Token": "ops-secret"}

	s.Run("requires the ops token", func() {
		w := s.serve(http.MethodPost, "/ops/outbox/drain", nil)
		s.Equal(http.StatusUnauthorized, w.Code)

		w = s.serve(http.MethodPost, "/ops/outbox/drain", map[string]string{"X-Ops-Token": "guess"})
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("drain reports the published count", func() {
		w := s.serve(http.MethodPost, "/ops/outbox/drain", token)
		s.Equal(http.StatusOK, w.Code)
		var resp map[string]int
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal(3, resp["published"])
	})

	s.Run("drain failure is internal", func() {
		s.outbox.err = errors.New("broker unreachable")
		w := s.serve(http.MethodPost, "/ops/outbox/drain", token)
		s.Equal(http.StatusInternalServerError, w.Code)
		s.NotContains(w.Body.String(), "broker")
	})

	s.Run("audit trail", func() {
		s.Require().NoError(s.trail.Append(context.Background(), audit.Event{Action: audit.ActionTransfer}))
		w := s.serve(http.MethodGet, "/ops/audit?count=10", token)
		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), `"transfer"`)

		w = s.serve(http.MethodGet, "/ops/audit?count=0", token)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func TestRouter_OpsDisabledWithoutToken(t *testing.T) {
	router := NewRouter(RouterDeps{Outbox: &stubOutbox{}})
	req := httptest.NewRequest(http.MethodPost, "/ops/outbox/drain", nil)
	req.Header.Set("X-Ops-Token", "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRouter_UnconfiguredOutbox(t *testing.T) {
	router := NewRouter(RouterDeps{OpsToken: "t"})
	req := httptest.NewRequest(http.MethodPost, "/ops/outbox/drain", nil)
	req.Header.Set("X-Ops-Token", "t")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
