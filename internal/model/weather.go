package model

// GeoResult is what the geocoding upstream resolved a free-text query to.
type GeoResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PlaceName string  `json:"placeName"`
}

// WeatherResult holds current conditions at a pair of coordinates.
type WeatherResult struct {
	Description string   `json:"description"`
	CurrentTemp float64  `json:"currentTemp"`
	FeelsLike   float64  `json:"feelsLike"`
	UVIndex     float64  `json:"uvIndex"`
	Humidity    float64  `json:"humidity"`
	WindSpeed   *float64 `json:"windSpeed,omitempty"`
}

// WeatherReport is the success body of /weather.
type WeatherReport struct {
	Location    string   `json:"location"`
	Description string   `json:"description"`
	CurrentTemp float64  `json:"currentTemp"`
	FeelsLike   float64  `json:"feelslike"`
	UVIndex     float64  `json:"uvindex"`
	Humidity    float64  `json:"humidity"`
	Wind        *float64 `json:"wind"`
}

// NewWeatherReport merges a geocode and a forecast result.
func NewWeatherReport(geo *GeoResult, weather *WeatherResult) *WeatherReport {
	return &WeatherReport{
		Location:    geo.PlaceName,
		Description: weather.Description,
		CurrentTemp: weather.CurrentTemp,
		FeelsLike:   weather.FeelsLike,
		UVIndex:     weather.UVIndex,
		Humidity:    weather.Humidity,
		Wind:        weather.WindSpeed,
	}
}
