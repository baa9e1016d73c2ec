package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/mwhitt/haltwatch/internal/config"
	"github.com/mwhitt/haltwatch/internal/enrich"
	"github.com/mwhitt/haltwatch/internal/feed"
	"github.com/mwhitt/haltwatch/internal/logging"
	"github.com/mwhitt/haltwatch/internal/metrics"
	"github.com/mwhitt/haltwatch/internal/notify"
	"github.com/mwhitt/haltwatch/internal/poller"
	"github.com/mwhitt/haltwatch/internal/state"
	"github.com/mwhitt/haltwatch/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/haltwatch.yaml", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger, closeLog := logging.Setup(cfg.Logging)
	defer closeLog()

	logger.Info("starting haltwatch",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"instance_id", cfg.Instance.ID,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Open the state store
	var store state.Store
	switch cfg.State.Backend {
	case "postgres":
		logger.Info("connecting to state database",
			"host", cfg.State.Postgres.Host,
			"port", cfg.State.Postgres.Port,
			"database", cfg.State.Postgres.Name,
		)
		pg, err := state.NewPostgresStore(ctx, cfg.State.Postgres, logger)
		if err != nil {
			logger.Error("failed to connect to state database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		store = pg
	default:
		store = state.NewFileStore(cfg.State.Path, logger)
		logger.Info("using file state store", "path", cfg.State.Path)
	}

	// Load persisted state; a failed load starts fresh rather than aborting
	st, err := store.Load(ctx)
	if err != nil {
		logger.Warn("failed to load state, starting fresh", "error", err)
		st = state.New()
	}
	logger.Info("state loaded",
		"seen_keys", st.SeenCount(),
		"pending_resumes", len(st.PendingResumes),
	)

	// Feed and enrichment clients
	haltFeed := feed.NewClient(cfg.Feed.URL,
		feed.WithTimeout(cfg.Feed.Timeout),
		feed.WithLogger(logger),
	)
	quotes := enrich.NewMarketClient(cfg.Market.URL, cfg.Market.APIKey,
		enrich.WithMarketTimeout(cfg.Market.Timeout),
		enrich.WithMarketLogger(logger),
	)
	if cfg.Market.APIKey == "" {
		logger.Warn("market_data.api_key not set, quote enrichment disabled")
	}
	newsFeed := feed.NewClient("",
		feed.WithTimeout(cfg.News.Timeout),
		feed.WithLogger(logger),
	)
	news := enrich.NewNewsClient(cfg.News.URL, cfg.News.MaxHeadlines, newsFeed, logger)

	// Notification channels
	hub := notify.NewHub(logger)
	defer hub.Close()

	notifiers := notify.Multi{&notify.Slog{Logger: logger}, hub}
	if cfg.Notify.Desktop {
		notifiers = append(notifiers, notify.Desktop{})
	}

	// Metrics
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	// Health, metrics, and websocket server
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	mux.Handle("/ws", hub)
	mux.HandleFunc("/healthz", healthHandler(hub))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}

	// Poll loop
	p := poller.New(poller.Config{
		Interval: cfg.Poller.Interval,
		SeenTTL:  cfg.Poller.SeenTTL,
	}, poller.Deps{
		Feed:     haltFeed,
		Quotes:   quotes,
		News:     news,
		Notifier: notifiers,
		Store:    store,
		State:    st,
		Logger:   logger,
	})
	if err := p.Start(ctx); err != nil {
		logger.Error("failed to start poll loop", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", "port", cfg.Metrics.Port)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := p.Stop(shutdownCtx); err != nil {
			logger.Warn("poll loop shutdown timed out", "error", err)
		}
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("shutdown with error", "error", err)
		os.Exit(1)
	}
	logger.Info("haltwatch stopped")
}

// healthHandler reports process liveness and subscriber count.
func healthHandler(hub *notify.Hub) http.HandlerFunc {
	started := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":         "ok",
			"version":        version.String(),
			"uptime_seconds": int(time.Since(started).Seconds()),
			"ws_subscribers": hub.SubscriberCount(),
		})
	}
}
