package model

// OpenWeatherMapGeocodeResponse is one element of the /geo/1.0/direct array.
type OpenWeatherMapGeocodeResponse struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state,omitempty"`
}

// OpenWeatherMapOneCallResponse is the subset of /data/3.0/onecall we read.
type OpenWeatherMapOneCallResponse struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Timezone string  `json:"timezone"`
	Current  *struct {
		Dt        int64    `json:"dt"`
		Temp      float64  `json:"temp"`
		FeelsLike float64  `json:"feels_like"`
		Pressure  int      `json:"pressure"`
		Humidity  float64  `json:"humidity"`
		UVI       float64  `json:"uvi"`
		WindSpeed *float64 `json:"wind_speed"`
		Weather   []struct {
			ID          int    `json:"id"`
			Main        string `json:"main"`
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	} `json:"current"`
}

// OpenWeatherMapErrorResponse is the body OpenWeatherMap sends with non-2xx statuses.
// cod is a number on some endpoints and a string on others, so it is not decoded.
type OpenWeatherMapErrorResponse struct {
	Message string `json:"message"`
}
