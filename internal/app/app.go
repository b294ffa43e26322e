package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/zhuyin-highlighter/internal/adapter/badgerstore"
	"github.com/heartmarshall/zhuyin-highlighter/internal/adapter/dataset"
	"github.com/heartmarshall/zhuyin-highlighter/internal/adapter/postgres"
	"github.com/heartmarshall/zhuyin-highlighter/internal/adapter/postgres/state"
	"github.com/heartmarshall/zhuyin-highlighter/internal/config"
	"github.com/heartmarshall/zhuyin-highlighter/internal/learned"
	"github.com/heartmarshall/zhuyin-highlighter/internal/metrics"
	"github.com/heartmarshall/zhuyin-highlighter/internal/reading"
	"github.com/heartmarshall/zhuyin-highlighter/internal/service/highlighter"
	"github.com/heartmarshall/zhuyin-highlighter/internal/transport/middleware"
	"github.com/heartmarshall/zhuyin-highlighter/internal/transport/rest"
	"github.com/heartmarshall/zhuyin-highlighter/internal/transport/ws"
)

// stateStore is the persistence surface shared by the badger and postgres
// adapters.
type stateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	io.Closer
}

// Run is the application entry point. It loads configuration, opens the state
// store, starts loading the reading index in the background and serves HTTP
// until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("store_driver", cfg.Store.Driver),
	)

	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("close state store", slog.String("error", cerr.Error()))
		}
	}()

	src, err := NewDatasetSource(cfg.Dataset, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	index := reading.New(logger)
	loadStart := time.Now()
	indexDone := index.Start(gctx, src)
	g.Go(func() error {
		select {
		case <-indexDone:
			metrics.SetReadingIndex(index.Len(), time.Since(loadStart))
		case <-gctx.Done():
		}
		// A failed load degrades the service; it never stops it.
		return nil
	})

	learnedSet := learned.Load(ctx, store, logger)
	hub := ws.NewHub(logger, cfg.CORS.AllowedOrigins)

	svc := highlighter.NewService(logger, index, learnedSet, store, hub, cfg.Display.DefaultDisplay())
	svc.LoadSettings(ctx)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	router := rest.NewRouter(rest.Routes{
		Highlighter:   rest.NewHighlighterHandler(svc, cfg.Server.MaxBodyBytes, logger),
		Health:        rest.NewHealthHandler(store, index, BuildVersion()),
		Events:        hub,
		Metrics:       metrics.Handler(),
		AnnotateLimit: limiter.Limit(cfg.RateLimit.AnnotatePerMinute, cfg.RateLimit.Burst),
	})

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	)(router)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g.Go(func() error {
		return hub.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}

// OpenStore opens the state store selected by cfg.Store.Driver.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (stateStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverBadger:
		store, err := badgerstore.Open(badgerstore.Config{
			Path:       cfg.Store.BadgerPath,
			InMemory:   cfg.Store.InMemory,
			SyncWrites: cfg.Store.SyncWrites,
			GCInterval: cfg.Store.GCInterval,
		}, logger)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return state.New(pool), nil

	default:
		return nil, fmt.Errorf("app: unknown store driver %q", cfg.Store.Driver)
	}
}

// NewDatasetSource builds the reading dataset source from cfg.
func NewDatasetSource(cfg config.DatasetConfig, logger *slog.Logger) (*dataset.Source, error) {
	return dataset.New(cfg.Source, dataset.Options{
		Timeout:            cfg.Timeout,
		GCSAnonymous:       cfg.GCSAnonymous,
		GCSCredentialsFile: cfg.GCSCredentialsFile,
	}, logger)
}
