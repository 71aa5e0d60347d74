package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fakhrymubarak/weather-app/internal/config"
	"github.com/fakhrymubarak/weather-app/internal/model"
)

const (
	msgLocationUnreachable = "Unable to connect to location services!"
	msgLocationTimedOut    = "Location service timed out!"
	msgLocationMalformed   = "Unexpected response from location services!"
	msgLocationNotFound    = "Unable to find location. Try another search."
)

// GeocodeResolver turns a free-text location into coordinates and a place name.
type GeocodeResolver interface {
	Resolve(ctx context.Context, query string) (*model.GeoResult, error)
}

// geocodeRepository resolves locations with the OpenWeatherMap Geocoding API.
type geocodeRepository struct {
	upstream
	apiKey func() string
}

// NewGeocodeRepository creates a resolver using config for the endpoint and timeout.
func NewGeocodeRepository(httpClient ...*http.Client) GeocodeResolver {
	client := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &geocodeRepository{
		upstream: upstream{
			httpClient: client,
			baseURL:    config.GetGeocodingApiUrl(),
			timeout:    config.GetGeocodingTimeout(),
			msgs: upstreamMessages{
				unreachable: msgLocationUnreachable,
				timedOut:    msgLocationTimedOut,
				malformed:   msgLocationMalformed,
			},
		},
		apiKey: config.GetOpenWeatherMapAPIKey,
	}
}

// Resolve makes exactly one upstream call; the query is sent as-is.
func (r *geocodeRepository) Resolve(ctx context.Context, query string) (*model.GeoResult, error) {
	apiKey := r.apiKey()
	if apiKey == "" {
		return nil, model.NewServiceError("Location service is not configured", ErrAPIKeyMissing)
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", "1")
	q.Set("appid", apiKey)

	var places []model.OpenWeatherMapGeocodeResponse
	if err := r.getJSON(ctx, q, &places); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, model.NewResolutionError(msgLocationNotFound, fmt.Errorf("%w: %q", ErrLocationNotFound, query))
		}
		return nil, serviceError(err)
	}

	if len(places) == 0 {
		return nil, model.NewResolutionError(msgLocationNotFound, fmt.Errorf("%w: %q", ErrLocationNotFound, query))
	}

	p := places[0]
	return &model.GeoResult{
		Latitude:  p.Lat,
		Longitude: p.Lon,
		PlaceName: placeName(p),
	}, nil
}

// placeName joins name, state and country, skipping empty parts.
func placeName(p model.OpenWeatherMapGeocodeResponse) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Name, p.State, p.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
