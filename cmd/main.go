package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/okian/simumatch/internal/adapters/http/api"
	"github.com/okian/simumatch/internal/adapters/repository"
	app "github.com/okian/simumatch/internal/app"
	"github.com/okian/simumatch/internal/config"
	"github.com/okian/simumatch/internal/domain/model"
	"github.com/okian/simumatch/internal/domain/scoring"
	"github.com/okian/simumatch/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("simumatch: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.InitWithFormat(os.Stdout, cfg.LogFormat); err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		svc.Stop()
		return err
	}
	defer svc.Stop()

	apiServer := api.NewServer(svc, api.WithRequestTimeout(cfg.RequestTimeout()))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Routes(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	root := newSupervisor()
	root.Add(&httpService{server: srv, shutdownTimeout: shutdownTimeout})
	root.Add(&systemMetricsService{interval: systemMetricsInterval})

	log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
	if err := root.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "supervisor stopped", logger.Error(err))
		return err
	}

	log.Info(ctx, "server stopped")
	return nil
}

func newSupervisor() *suture.Supervisor {
	handler := &sutureslog.Handler{Logger: logger.Slog()}
	return suture.New("simumatch", suture.Spec{
		EventHook: handler.MustHook(),
		Timeout:   shutdownTimeout,
	})
}

// newService wires the store, catalog and scoring configuration into the
// matcher service.
func newService(ctx context.Context, cfg *config.Config) (*app.Service, error) {
	opts := []app.Option{
		app.WithLogger(logger.Get()),
		app.WithWindowDays(cfg.WindowDays),
		app.WithTopK(cfg.DefaultTopK, cfg.MaxTopK),
		app.WithDefaultStrategy(model.Strategy(cfg.DefaultStrategy)),
		app.WithModelPath(cfg.ModelPath),
		app.WithScorerOptions(
			scoring.WithWeights(cfg.WeightEndurance, cfg.WeightSpeed, cfg.WeightRecovery),
			scoring.WithBaselinePace(cfg.BaselinePace),
			scoring.WithRecoveryTarget(cfg.RecoveryTarget),
			scoring.WithNeutralReadiness(cfg.NeutralReadiness),
		),
	}

	if cfg.DatabaseURL != "" {
		store, err := repository.NewPostgresStore(ctx, cfg.DatabaseURL,
			repository.WithMaxConns(cfg.DBMaxConns),
			repository.WithBreaker(uint32(cfg.BreakerFailures), cfg.BreakerTimeout()), //nolint:gosec // validated positive
		)
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithStore(store))
	}
	if cfg.CatalogPath != "" {
		opts = append(opts, app.WithCatalogLoader(repository.NewFileCatalog(cfg.CatalogPath)))
	}

	return app.New(opts...), nil
}
