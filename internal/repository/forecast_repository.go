package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fakhrymubarak/weather-app/internal/config"
	"github.com/fakhrymubarak/weather-app/internal/model"
)

const (
	msgWeatherUnreachable = "Unable to connect to weather service!"
	msgWeatherTimedOut    = "Weather service timed out!"
	msgWeatherMalformed   = "Unexpected response from weather service!"
)

// ForecastFetcher returns current conditions at a pair of coordinates.
type ForecastFetcher interface {
	Fetch(ctx context.Context, lat, lon float64) (*model.WeatherResult, error)
}

// forecastRepository reads current conditions from the OpenWeatherMap One Call API.
type forecastRepository struct {
	upstream
	units  string
	apiKey func() string
}

// NewForecastRepository creates a fetcher using config for the endpoint, units and timeout.
func NewForecastRepository(httpClient ...*http.Client) ForecastFetcher {
	client := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &forecastRepository{
		upstream: upstream{
			httpClient: client,
			baseURL:    config.GetForecastApiUrl(),
			timeout:    config.GetForecastTimeout(),
			msgs: upstreamMessages{
				unreachable: msgWeatherUnreachable,
				timedOut:    msgWeatherTimedOut,
				malformed:   msgWeatherMalformed,
			},
		},
		units:  config.GetForecastUnits(),
		apiKey: config.GetOpenWeatherMapAPIKey,
	}
}

func (r *forecastRepository) Fetch(ctx context.Context, lat, lon float64) (*model.WeatherResult, error) {
	apiKey := r.apiKey()
	if apiKey == "" {
		return nil, model.NewServiceError("Weather service is not configured", ErrAPIKeyMissing)
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("exclude", "minutely,hourly,daily,alerts")
	if r.units != "" {
		q.Set("units", r.units)
	}
	q.Set("appid", apiKey)

	var data model.OpenWeatherMapOneCallResponse
	if err := r.getJSON(ctx, q, &data); err != nil {
		return nil, serviceError(err)
	}
	if data.Current == nil {
		return nil, model.NewNetworkError(msgWeatherMalformed, ErrMalformed)
	}

	weather := &model.WeatherResult{
		CurrentTemp: data.Current.Temp,
		FeelsLike:   data.Current.FeelsLike,
		UVIndex:     data.Current.UVI,
		Humidity:    data.Current.Humidity,
		WindSpeed:   data.Current.WindSpeed,
	}
	if len(data.Current.Weather) > 0 {
		weather.Description = data.Current.Weather[0].Description
	}
	return weather, nil
}
