// Package server owns the application lifecycle: schema init, the quote
// stream, the HTTP server and graceful shutdown.
package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/repository"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/service/quotes"
	pkgcache "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/cache"
	pkgch "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/clickhouse"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/config"
	xhttp "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/http"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/http/middleware"
	applogger "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg     *config.Config
	log     *applogger.Logger
	handler xhttp.Handler

	httpServer   *xhttp.Server
	stream       *quotes.Stream
	chClient     *pkgch.Client
	publisher    domrepo.Publisher
	cacheBackend pkgcache.Service
	archive      domrepo.SeriesStore
	snapshots    domrepo.SnapshotStore
}

// New creates an App. Optional infrastructure may be nil when disabled
// in config.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	stream *quotes.Stream,
	chClient *pkgch.Client,
	publisher domrepo.Publisher,
	cacheBackend pkgcache.Service,
	archive domrepo.SeriesStore,
	snapshots domrepo.SnapshotStore,
) *App {
	return &App{
		cfg:          cfg,
		log:          log,
		handler:      handler,
		stream:       stream,
		chClient:     chClient,
		publisher:    publisher,
		cacheBackend: cacheBackend,
		archive:      archive,
		snapshots:    snapshots,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.initStores(ctx); err != nil {
		return err
	}

	serverOpts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	}
	if a.cfg.Metrics.Enabled {
		serverOpts = append(serverOpts,
			xhttp.WithMetricsPath(a.cfg.Metrics.Path),
			xhttp.WithMiddleware(middleware.Metrics(a.log, time.Second)),
		)
	} else {
		serverOpts = append(serverOpts, xhttp.WithMetricsPath(""))
	}
	a.httpServer = xhttp.NewServer(a.handler, serverOpts...)

	if a.stream != nil {
		go func() {
			if err := a.stream.Run(ctx); err != nil && ctx.Err() == nil {
				a.log.Error("quote stream stopped", applogger.Error(err))
			}
		}()
		a.log.Info("quote stream started", applogger.Strings("symbols", a.cfg.QuoteStream.Symbols))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// initStores creates the ClickHouse schema when the archive is enabled.
func (a *App) initStores(ctx context.Context) error {
	if a.archive != nil {
		if err := a.archive.Init(ctx); err != nil {
			return err
		}
	}
	if a.snapshots != nil {
		if err := a.snapshots.Init(ctx); err != nil {
			return err
		}
	}
	return nil
}

// shutdown stops services in reverse dependency order, best effort.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.stream != nil {
		if err := a.stream.Close(); err != nil {
			a.log.Warn("quote stream close error", applogger.Error(err))
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.cacheBackend != nil {
		if err := a.cacheBackend.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
