package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/campushq/internhub/config"
	httpx "github.com/campushq/internhub/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	services := httpx.RouterServices{
		Auth:         cfg.Services.Auth,
		Profiles:     cfg.Services.Profiles,
		Reports:      cfg.Services.Reports,
		NOC:          cfg.Services.NOC,
		Registry:     cfg.Services.Registry,
		CookieDomain: appCfg.HTTP.CookieDomain,
		Logger:       logger,
	}

	// Order: Recover -> Logging -> Router
	handler := httpx.Recover(logger)(httpx.Logging(logger)(httpx.NewRouter(services)))

	return startServer(logger, handler, appCfg.HTTP.Addr)
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context  context.Context
	Server   *http.Server
	Services ServiceContainer
	Logger   *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server and tears down
// per-session auth state.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(cfg.Context, 10*time.Second)
	defer cancel()

	err := cfg.Server.Shutdown(shutdownCtx)

	// Stop the idle sweeper and unsubscribe session listeners after the
	// server stops accepting requests.
	if cfg.Services.Registry != nil {
		cfg.Services.Registry.Close()
	}

	if err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}

// RunHTTPServerWithShutdown starts the HTTP server and blocks until the
// context is cancelled, then shuts it down gracefully.
func RunHTTPServerWithShutdown(ctx context.Context, cfg *HTTPServerConfig) error {
	server := StartHTTPServer(cfg)
	if server == nil {
		return nil
	}

	<-ctx.Done()

	var logger *slog.Logger
	var services ServiceContainer
	if cfg != nil {
		logger = cfg.Logger
		services = cfg.Services
	}

	return ShutdownHTTPServer(ShutdownConfig{
		Context:  context.Background(),
		Server:   server,
		Services: services,
		Logger:   logger,
	})
}
