package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/touchline/internal/adapters/http/api"
	"github.com/okian/touchline/internal/adapters/http/swagger"
	"github.com/okian/touchline/internal/adapters/mq/queue"
	"github.com/okian/touchline/internal/adapters/mq/worker"
	"github.com/okian/touchline/internal/adapters/notify"
	"github.com/okian/touchline/internal/adapters/repository"
	service "github.com/okian/touchline/internal/app"
	"github.com/okian/touchline/internal/config"
	"github.com/okian/touchline/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet.
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logOpts []logger.Option
	if cfg.LogFile != "" {
		logOpts = append(logOpts, logger.WithFile(cfg.LogFile))
	}
	if err := logger.Init(logOpts...); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "touchline exited with error", logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// run serves the match until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	a, err := build(ctx, cfg)
	if err != nil {
		return err
	}
	if err := a.start(ctx); err != nil {
		a.stop(context.Background())
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.handler,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("http server: %w", err)
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info(ctx, "shutting down server...")
	case err = <-serveErr:
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Websocket connections are hijacked and not tracked by Shutdown.
	a.hub.Close()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(shutdownErr))
	}
	a.stop(shutdownCtx)

	log.Info(ctx, "server stopped")
	return err
}

// application is the wired process: one session, its store, the live feed
// and the notification pipeline.
type application struct {
	store   repository.Store
	queue   *queue.InMemoryQueue
	pool    *worker.Pool
	hub     *api.Hub
	session *service.Session
	handler http.Handler
}

func build(ctx context.Context, cfg *config.Config) (*application, error) {
	log := logger.Get()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	hub := api.NewHub(
		api.WithAllowedOrigins(cfg.AllowedOrigins),
		api.WithHubLogger(log.Named("ws")),
	)

	q := queue.NewInMemoryQueue(queue.WithCapacity(cfg.NotifyQueueSize))
	senders := []worker.Sender{notify.NewHubSender(hub)}
	if len(cfg.NotifyURLs) > 0 {
		senders = append(senders, notify.NewShoutrrrSender(cfg.NotifyURLs))
	}
	pool := worker.NewPool(cfg.NotifyWorkers, q, senders)

	session := service.New(
		service.WithStore(store),
		service.WithNotifier(notify.Multi{
			notify.NewLogNotifier(log.Named("notify")),
			notify.NewQueueNotifier(q, log.Named("notify")),
		}),
		service.WithFeed(hub),
		service.WithTickInterval(cfg.TickInterval()),
		service.WithRegulationSeconds(cfg.RegulationSeconds),
		service.WithTeams(cfg.HomeTeam, cfg.AwayTeam),
		service.WithRoster(cfg.Roster),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithLogger(log.Named("session")),
	)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(session, hub, log.Named("api")).Register(ctx, mux)

	return &application{
		store:   store,
		queue:   q,
		pool:    pool,
		hub:     hub,
		session: session,
		handler: mux,
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	store, err := repository.Open(ctx, cfg.StoreDriver,
		repository.WithPath(cfg.StorePath),
		repository.WithKeyPrefix(cfg.KeyPrefix),
		repository.WithRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	return store, nil
}

func (a *application) start(ctx context.Context) error {
	a.pool.Start(ctx)
	if err := a.session.Start(ctx); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	return nil
}

// stop persists the final snapshot, drains pending notifications and
// closes the store, in that order.
func (a *application) stop(ctx context.Context) {
	log := logger.Get()
	a.session.Stop(ctx)
	if err := a.pool.Shutdown(ctx); err != nil {
		log.Warn(ctx, "notification workers did not drain", logger.Error(err))
	}
	a.hub.Close()
	if err := a.store.Close(); err != nil {
		log.Error(ctx, "failed to close store", logger.Error(err))
	}
}
