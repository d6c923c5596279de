package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	jwttoken "propledger/internal/jwt_token"
	"propledger/internal/ledger/adapters"
	ledgerhandler "propledger/internal/ledger/handler"
	ledgermetrics "propledger/internal/ledger/metrics"
	"propledger/internal/ledger/ports"
	ledgersvc "propledger/internal/ledger/service"
	ledgerstore "propledger/internal/ledger/store"
	"propledger/internal/platform/config"
	"propledger/internal/platform/httpserver"
	platformmetrics "propledger/internal/platform/metrics"
	"propledger/internal/platform/postgres"
	platformredis "propledger/internal/platform/redis"
	registryhandler "propledger/internal/registry/handler"
	registrymetrics "propledger/internal/registry/metrics"
	registrysvc "propledger/internal/registry/service"
	registrystore "propledger/internal/registry/store"
	audit "propledger/pkg/platform/audit"
	"propledger/pkg/platform/audit/relay"
	auditmemory "propledger/pkg/platform/audit/store/memory"
	auditpostgres "propledger/pkg/platform/audit/store/postgres"
	"propledger/pkg/platform/audit/store/redisstream"
	"propledger/pkg/platform/circuit"
)

// App is the fully wired process: both services, the HTTP surface and the
// optional outbox relay.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	router   http.Handler
	registry *registrysvc.Service
	ledger   *ledgersvc.Service
	tokens   *jwttoken.JWTService
	relay    *relay.Relay
	closers  []func() error
}

func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) (_ *App, err error) {
	app := &App{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	health := map[string]httpserver.HealthCheck{}
	admin := cfg.AdminAddress()

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	if db != nil {
		app.closers = append(app.closers, db.Close)
		if err := postgres.Migrate(ctx, db); err != nil {
			return nil, err
		}
		health["postgres"] = db.PingContext
	}

	sink, err := app.auditSink(ctx, db, health)
	if err != nil {
		return nil, err
	}
	publisher := audit.NewPublisher(sink.store,
		audit.WithLogger(logger),
		audit.WithMetrics(audit.NewMetrics(reg)),
		audit.WithStartSequence(sink.lastSequence),
	)

	registryOpts := []registrysvc.Option{
		registrysvc.WithLogger(logger),
		registrysvc.WithAuditPublisher(publisher),
		registrysvc.WithMetrics(registrymetrics.New(reg)),
	}
	var investors registrysvc.Store = registrystore.NewInMemory()
	if db != nil {
		investors = registrystore.NewPostgres(db)
		registryOpts = append(registryOpts, registrysvc.WithStoreTx(registrysvc.NewPostgresStoreTx(db)))
	}
	app.registry, err = registrysvc.New(admin, investors, registryOpts...)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	verifier, err := app.verificationRegistry()
	if err != nil {
		return nil, err
	}
	app.ledger, err = ledgersvc.New(admin, verifier,
		ledgerstore.NewInMemory(cfg.Token(), cfg.Asset(), cfg.Limits()),
		ledgersvc.WithLogger(logger),
		ledgersvc.WithAuditPublisher(publisher),
		ledgersvc.WithMetrics(ledgermetrics.New(reg)),
		ledgersvc.WithTracer(otel.Tracer("propledger/internal/ledger")),
	)
	if err != nil {
		return nil, fmt.Errorf("build ledger: %w", err)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := relay.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() error { producer.Close(); return nil })
		app.relay = relay.New(auditpostgres.New(db), producer,
			relay.WithLogger(logger),
			relay.WithInterval(cfg.Kafka.RelayInterval),
			relay.WithBatchSize(cfg.Kafka.BatchSize),
		)
	}

	app.tokens = jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	validator := jwttoken.NewJWTServiceAdapter(app.tokens)

	deps := httpserver.RouterDeps{
		Logger:   logger,
		Metrics:  platformmetrics.New(reg),
		Gatherer: reg,
		Features: []httpserver.RouteRegistrar{
			registryhandler.New(app.registry, validator, logger),
			ledgerhandler.New(app.ledger, validator, logger),
		},
		Health:   health,
		OpsToken: cfg.Server.OpsToken,
	}
	if app.relay != nil {
		deps.Outbox = app.relay
	}
	if sink.reader != nil {
		deps.Audit = sink.reader
	}
	app.router = httpserver.NewRouter(deps)

	return app, nil
}

type auditSink struct {
	store        audit.Store
	reader       httpserver.AuditReader
	lastSequence uint64
}

func (a *App) auditSink(ctx context.Context, db *sql.DB, health map[string]httpserver.HealthCheck) (auditSink, error) {
	switch a.cfg.Audit.Sink {
	case config.AuditPostgres:
		outbox := auditpostgres.New(db)
		last, err := outbox.LastSequence(ctx)
		if err != nil {
			return auditSink{}, err
		}
		return auditSink{store: outbox, lastSequence: last}, nil

	case config.AuditRedis:
		client, err := platformredis.New(ctx, a.cfg.Redis)
		if err != nil {
			return auditSink{}, err
		}
		a.closers = append(a.closers, client.Close)
		health["redis"] = client.Health
		stream := redisstream.New(client,
			redisstream.WithStream(a.cfg.Redis.Stream),
			redisstream.WithMaxLen(a.cfg.Redis.MaxLen),
		)
		return auditSink{store: stream, reader: stream}, nil

	default:
		trail := auditmemory.NewInMemoryStore()
		return auditSink{store: trail, reader: trail}, nil
	}
}

// verificationRegistry picks how the ledger asks whether an investor is
// verified: in process, or over HTTP behind a circuit breaker.
func (a *App) verificationRegistry() (ports.VerificationRegistry, error) {
	if a.cfg.Registry.Mode != config.RegistryRemote {
		return adapters.NewLocalRegistry(a.registry), nil
	}
	breaker := circuit.New("registry",
		circuit.WithFailureThreshold(a.cfg.Registry.FailureThreshold),
		circuit.WithCooldown(a.cfg.Registry.Cooldown),
	)
	remote, err := adapters.NewRemoteRegistry(a.cfg.Registry.URL,
		adapters.WithHTTPClient(&http.Client{Timeout: a.cfg.Registry.Timeout}),
		adapters.WithBreaker(breaker),
		adapters.WithLogger(a.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("build remote registry: %w", err)
	}
	return remote, nil
}

// Run serves HTTP and drives the relay until ctx is cancelled, then shuts the
// server down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := httpserver.New(a.cfg.Server.Addr, a.router, a.cfg.Server.ReadHeaderTimeout)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting propledger",
			"addr", a.cfg.Server.Addr,
			"admin", a.ledger.Admin().String(),
			"registry_mode", a.cfg.Registry.Mode,
			"audit_sink", a.cfg.Audit.Sink,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.relay != nil {
		g.Go(func() error {
			return a.relay.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close releases backing connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
