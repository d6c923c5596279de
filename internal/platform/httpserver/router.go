package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"propledger/internal/platform/metrics"
	dErrors "propledger/pkg/domain-errors"
	audit "propledger/pkg/platform/audit"
	"propledger/pkg/platform/httputil"
	"propledger/pkg/platform/middleware/admin"
	"propledger/pkg/platform/middleware/metadata"
	request "propledger/pkg/platform/middleware/request"
	"propledger/pkg/platform/middleware/requesttime"
)

// RouteRegistrar mounts a feature's routes.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// OutboxDrainer publishes pending outbox entries on demand.
type OutboxDrainer interface {
	Drain(ctx context.Context) (int, error)
}

// AuditReader reads back the head of the audit trail.
type AuditReader interface {
	Range(ctx context.Context, count int64) ([]audit.Event, error)
}

// RouterDeps collects everything the router serves.
type RouterDeps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Features []RouteRegistrar
	Health   map[string]HealthCheck
	OpsToken string
	Outbox   OutboxDrainer // nil when no relay is configured
	Audit    AuditReader   // nil when the sink cannot be read back
	Now      func() time.Time
}

// NewRouter assembles the middleware chain, feature routes, health,
// metrics and operational endpoints.
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Recovery(logger))
	r.Use(request.Logger(logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	if deps.Now != nil {
		r.Use(requesttime.MiddlewareWithClock(deps.Now))
	} else {
		r.Use(requesttime.Middleware)
	}

	r.Get("/healthz", healthHandler(deps.Health))
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	for _, f := range deps.Features {
		f.Register(r)
	}

	r.Route("/ops", func(r chi.Router) {
		r.Use(admin.RequireOpsToken(deps.OpsToken, logger))
		r.Post("/outbox/drain", drainHandler(deps.Outbox, logger))
		r.Get("/audit", auditHandler(deps.Audit, logger))
	})

	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		failing := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failing[name] = err.Error()
			}
		}
		if len(failing) > 0 {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":  "degraded",
				"failing": failing,
			})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func drainHandler(outbox OutboxDrainer, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if outbox == nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "outbox relay is not configured"))
			return
		}
		ctx := r.Context()
		n, err := outbox.Drain(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "manual outbox drain failed",
				"request_id", request.GetRequestID(ctx),
				"published", n,
				"error", err,
			)
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "outbox drain failed"))
			return
		}
		logger.InfoContext(ctx, "manual outbox drain", "published", n)
		httputil.WriteJSON(w, http.StatusOK, map[string]int{"published": n})
	}
}

func auditHandler(reader AuditReader, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reader == nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "audit trail is not readable"))
			return
		}
		count := int64(100)
		if raw := r.URL.Query().Get("count"); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || n <= 0 || n > 1000 {
				httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "count must be between 1 and 1000"))
				return
			}
			count = n
		}
		ctx := r.Context()
		events, err := reader.Range(ctx, count)
		if err != nil {
			logger.ErrorContext(ctx, "read audit trail failed",
				"request_id", request.GetRequestID(ctx),
				"error", err,
			)
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "read audit trail failed"))
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
	}
}
