package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fakhrymubarak/weather-app/internal/cache"
	"github.com/fakhrymubarak/weather-app/internal/config"
	"github.com/fakhrymubarak/weather-app/internal/handler"
	"github.com/fakhrymubarak/weather-app/internal/metrics"
	"github.com/fakhrymubarak/weather-app/internal/middleware"
	"github.com/fakhrymubarak/weather-app/internal/repository"
	"github.com/fakhrymubarak/weather-app/internal/router"
	"github.com/fakhrymubarak/weather-app/internal/service"
	"github.com/fakhrymubarak/weather-app/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		config.GetLogger().Errorw("server stopped", "error", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context) error {
	config.Load()
	logger := config.GetLogger()
	defer func() { _ = logger.Sync() }()

	h, err := newHandler(ctx)
	if err != nil {
		return err
	}

	srv := newServer(h)
	serverErr := make(chan error, 1)
	go func() {
		logger.Infow("Weather app listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Infow("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetServerTimeout("shutdown_timeout", 10*time.Second))
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer applies the server.* timeouts to h.
func newServer(h http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort("", config.GetServerPort()),
		Handler:           h,
		ReadHeaderTimeout: config.GetServerTimeout("read_header_timeout", 5*time.Second),
		ReadTimeout:       config.GetServerTimeout("read_timeout", 15*time.Second),
		WriteTimeout:      config.GetServerTimeout("write_timeout", 30*time.Second),
		IdleTimeout:       config.GetServerTimeout("idle_timeout", 60*time.Second),
	}
}

// newHandler wires repositories, cache, service and handlers into the router.
// Background work started here stops with ctx.
func newHandler(ctx context.Context) (http.Handler, error) {
	logger := config.GetLogger()

	store, err := cache.NewStore(config.GetCacheDriver(), config.GetCacheCleanupInterval())
	if err != nil {
		return nil, err
	}
	if config.GetOpenWeatherMapAPIKey() == "" {
		logger.Warnw("OPENWEATHERMAP_API_KEY is not set; weather lookups will fail")
	}

	var m *metrics.Metrics
	if config.IsMetricsEnabled() {
		m = metrics.New()
	}

	resolver := repository.NewCachedResolver(repository.NewGeocodeRepository(), store, config.GetGeocodeCacheTTL())
	fetcher := repository.NewCachedFetcher(repository.NewForecastRepository(), store, config.GetForecastCacheTTL())
	svc := service.NewWeatherService(resolver, fetcher, m)

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	weather := handler.NewWeatherHandler(svc)
	if config.IsRateLimiterEnabled() {
		limiter := middleware.NewRateLimiterFromConfig()
		limiter.StartCleanup(ctx, time.Minute)
		weather.Limiter = limiter
	}

	return router.New(router.Deps{
		Weather:     weather,
		Pages:       handler.NewPageHandler(tmpl, web.Static(), config.GetSiteTitle(), config.GetSiteAuthor()),
		Static:      web.Static(),
		Metrics:     m,
		MetricsPath: config.GetMetricsPath(),
		CORSOrigins: config.GetCORSAllowedOrigins(),
		Logger:      logger,
		TrustProxy:  config.IsTrustProxyHeadersEnabled(),
	}), nil
}
