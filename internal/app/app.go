// Package app wires the storefront service together: configuration, the
// document store, domain services, HTTP handlers, middleware and graceful
// shutdown.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/shopfront/internal/domain/catalog"
	"github.com/xenking/shopfront/internal/domain/order"
	"github.com/xenking/shopfront/internal/handler"
	"github.com/xenking/shopfront/internal/storage/mongodb"
	"github.com/xenking/shopfront/pkg/health"
	"github.com/xenking/shopfront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	// The store is optional at startup: without a database URL the service
	// runs degraded and store-backed endpoints answer with a fixed 500,
	// which keeps /, /schema and the probes useful on a bare deployment.
	var h *handler.Handler
	if cfg.DatabaseURL == "" {
		lg.Warn("No database configured, starting degraded")
		h = handler.New(nil, nil, nil, nil)
	} else {
		client, err := mongodb.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "connect mongodb")
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				lg.Error("Mongo disconnect error", zap.Error(err))
			}
		}()

		db := client.Database(cfg.DatabaseName)

		healthSvc.AddReadinessCheck("mongodb", 5*time.Second, health.PingCheck(func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}))

		productRepo := mongodb.NewProductRepository(db)
		orderRepo := mongodb.NewOrderRepository(db)

		h = handler.New(
			productRepo,
			order.NewService(productRepo, orderRepo),
			catalog.NewSeeder(productRepo),
			mongodb.NewDiagnostics(db),
		)
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Routes(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("shopfront-api", m),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: flip readiness, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
