package repository

import (
	"net/http"
	"time"
)

// RoundTripperFunc allows us to easily mock http.Client responses in tests.
type RoundTripperFunc func(*http.Request) *http.Response

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// failingTransport fails every request before it reaches the network.
type failingTransport struct{ err error }

func (f failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, f.err
}

func newTestGeocodeRepository(baseURL string, client *http.Client, timeout time.Duration) *geocodeRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return &geocodeRepository{
		upstream: upstream{
			httpClient: client,
			baseURL:    baseURL,
			timeout:    timeout,
			msgs: upstreamMessages{
				unreachable: msgLocationUnreachable,
				timedOut:    msgLocationTimedOut,
				malformed:   msgLocationMalformed,
			},
		},
		apiKey: func() string { return "test_api_key" },
	}
}

func newTestForecastRepository(baseURL string, client *http.Client, timeout time.Duration) *forecastRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return &forecastRepository{
		upstream: upstream{
			httpClient: client,
			baseURL:    baseURL,
			timeout:    timeout,
			msgs: upstreamMessages{
				unreachable: msgWeatherUnreachable,
				timedOut:    msgWeatherTimedOut,
				malformed:   msgWeatherMalformed,
			},
		},
		units:  "imperial",
		apiKey: func() string { return "test_api_key" },
	}
}
