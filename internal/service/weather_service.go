package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/fakhrymubarak/weather-app/internal/config"
	"github.com/fakhrymubarak/weather-app/internal/metrics"
	"github.com/fakhrymubarak/weather-app/internal/model"
	"github.com/fakhrymubarak/weather-app/internal/repository"
)

const (
	// MinQueryLength is the shortest location, in characters, worth geocoding.
	MinQueryLength = 3

	MsgMissingAddress = "Please provide an address!"
	MsgQueryTooShort  = "Search term too short!"
)

// WeatherServiceInterface is what the HTTP layer depends on.
type WeatherServiceInterface interface {
	GetWeather(ctx context.Context, location string) (*model.WeatherReport, error)
}

// WeatherService validates a location, resolves it and fetches its weather, in
// that order. A failing stage ends the lookup; nothing from earlier stages leaks
// into the error.
type WeatherService struct {
	Resolver repository.GeocodeResolver
	Fetcher  repository.ForecastFetcher
	Metrics  *metrics.Metrics
}

// NewWeatherService wires a service. Nil collaborators fall back to the
// OpenWeatherMap repositories built from config.
func NewWeatherService(resolver repository.GeocodeResolver, fetcher repository.ForecastFetcher, m *metrics.Metrics) *WeatherService {
	if resolver == nil {
		resolver = repository.NewGeocodeRepository()
	}
	if fetcher == nil {
		fetcher = repository.NewForecastRepository()
	}
	return &WeatherService{
		Resolver: resolver,
		Fetcher:  fetcher,
		Metrics:  m,
	}
}

// ValidateLocation rejects empty and too-short queries before any network call.
func ValidateLocation(location string) error {
	if location == "" {
		return model.NewValidationError(MsgMissingAddress)
	}
	if utf8.RuneCountInString(location) < MinQueryLength {
		return model.NewValidationError(MsgQueryTooShort)
	}
	return nil
}

func (s *WeatherService) GetWeather(ctx context.Context, location string) (*model.WeatherReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ValidateLocation(location); err != nil {
		return nil, err
	}

	start := time.Now()
	geo, err := s.Resolver.Resolve(ctx, location)
	s.Metrics.ObserveUpstream("geocode", err, time.Since(start))
	if err != nil {
		config.GetLogger().Warnw("geocode failed", "location", location, "kind", model.KindOf(err).String(), "error", err)
		return nil, err
	}

	start = time.Now()
	weather, err := s.Fetcher.Fetch(ctx, geo.Latitude, geo.Longitude)
	s.Metrics.ObserveUpstream("forecast", err, time.Since(start))
	if err != nil {
		config.GetLogger().Warnw("forecast failed", "location", location, "kind", model.KindOf(err).String(), "error", err)
		return nil, err
	}

	return model.NewWeatherReport(geo, weather), nil
}
