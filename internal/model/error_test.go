package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupError_KindAndMessage(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	tests := []struct {
		name     string
		err      error
		wantKind ErrorKind
		wantMsg  string
	}{
		{"validation", NewValidationError("Search term too short!"), KindValidation, "Search term too short!"},
		{"resolution", NewResolutionError("Unable to find location", nil), KindResolution, "Unable to find location"},
		{"network", NewNetworkError("Unable to connect", cause), KindNetwork, "Unable to connect"},
		{"service", NewServiceError("Invalid API key", nil), KindService, "Invalid API key"},
		{"timeout", NewTimeoutError("timed out", cause), KindTimeout, "timed out"},
		{"wrapped", fmt.Errorf("stage: %w", NewNetworkError("Unable to connect", cause)), KindNetwork, "Unable to connect"},
		{"plain", errors.New("address not found"), KindUnknown, "address not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, KindOf(tt.err))
			assert.Equal(t, tt.wantMsg, MessageOf(tt.err))
		})
	}
}

func TestLookupError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := NewNetworkError("Unable to connect", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Unable to connect: boom", err.Error())
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "timeout", KindTimeout.String())
	assert.Equal(t, "unknown", ErrorKind(42).String())
}

func TestNewWeatherReport(t *testing.T) {
	wind := 5.0
	report := NewWeatherReport(
		&GeoResult{Latitude: 40.71, Longitude: -74.00, PlaceName: "New York, NY"},
		&WeatherResult{Description: "Clear", CurrentTemp: 72, FeelsLike: 70, UVIndex: 3, Humidity: 45, WindSpeed: &wind},
	)

	assert.Equal(t, &WeatherReport{
		Location:    "New York, NY",
		Description: "Clear",
		CurrentTemp: 72,
		FeelsLike:   70,
		UVIndex:     3,
		Humidity:    45,
		Wind:        &wind,
	}, report)
}
