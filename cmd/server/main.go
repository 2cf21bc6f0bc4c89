// Command server runs the edgeauth gateway: the request gate in front
// of the application, the local auth endpoints, and the metrics and
// health surfaces.
//
// Configuration is layered: config file (-config flag, EDGEAUTH_CONFIG
// env, ./config.yaml, /etc/edgeauth/config.yaml), then EDGEAUTH_*
// environment overrides. provider.base_url and provider.anon_key are
// required.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sahab-dev/edgeauth/pkg/authapi"
	"github.com/sahab-dev/edgeauth/pkg/config"
	"github.com/sahab-dev/edgeauth/pkg/debug"
	"github.com/sahab-dev/edgeauth/pkg/gate"
	"github.com/sahab-dev/edgeauth/pkg/observability"
	"github.com/sahab-dev/edgeauth/pkg/provider/supabase"
	"github.com/sahab-dev/edgeauth/pkg/transport"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	debug.Init("", "")
	logger := slog.Default()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Identity provider client.
	client, err := supabase.New(supabase.Config{
		BaseURL:    cfg.Provider.BaseURL,
		AnonKey:    cfg.Provider.AnonKey,
		ProjectRef: cfg.Provider.ProjectRef,
		Timeout:    cfg.Provider.Timeout,
	})
	if err != nil {
		return fmt.Errorf("creating provider client: %w", err)
	}

	cookieNames := supabase.AuthCookieNames(cfg.Provider.ProjectRef)

	// Request gate.
	g, err := gate.New(gateConfig(cfg, cookieNames), client, gate.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("creating gate: %w", err)
	}

	// Application handler the gate fronts: a reverse proxy when an
	// upstream is configured, a placeholder otherwise.
	app, err := appHandler(cfg.Server.UpstreamURL)
	if err != nil {
		return fmt.Errorf("creating upstream handler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", g.Middleware(app))

	authapi.NewHandler(client, cookieNames,
		authapi.WithRevoker(client, client),
		authapi.WithLogger(logger),
	).Register(mux)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	handler := transport.Chain(mux,
		transport.RequestID(),
		transport.Recovery(logger),
		transport.Logging(logger),
		observability.MetricsMiddleware,
	)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"port", cfg.Server.Port,
			"provider", cfg.Provider.BaseURL,
			"upstream", cfg.Server.UpstreamURL,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// gateConfig merges the file/env gate settings over the built-in
// policy. Empty fields keep their defaults.
func gateConfig(cfg *config.Config, cookieNames []string) gate.Config {
	gc := gate.DefaultConfig()
	gc.AuthCookieNames = cookieNames

	if len(cfg.Gate.Locales) > 0 {
		gc.Locales = cfg.Gate.Locales
	}
	if cfg.Gate.DefaultLocale != "" {
		gc.DefaultLocale = cfg.Gate.DefaultLocale
	}
	if cfg.Gate.LoginPath != "" {
		gc.LoginPath = cfg.Gate.LoginPath
	}
	if cfg.Gate.DashboardPath != "" {
		gc.DashboardPath = cfg.Gate.DashboardPath
	}
	if len(cfg.Gate.PublicRoutes) > 0 {
		gc.PublicRoutes = cfg.Gate.PublicRoutes
	}
	if len(cfg.Gate.ExcludedPrefixes) > 0 {
		gc.ExcludedPrefixes = cfg.Gate.ExcludedPrefixes
	}
	if cfg.Gate.SessionTimeout > 0 {
		gc.SessionTimeout = cfg.Gate.SessionTimeout
	}
	return gc
}

// appHandler builds the handler behind the gate. With no upstream
// configured every gated request gets a 200 placeholder, which keeps
// the binary useful for local policy testing.
func appHandler(upstream string) (http.Handler, error) {
	if upstream == "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "edgeauth: pass-through for %s\n", r.URL.Path)
		}), nil
	}

	target, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("parsing upstream URL: %w", err)
	}
	return httputil.NewSingleHostReverseProxy(target), nil
}
