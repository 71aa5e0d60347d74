package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/fakhrymubarak/weather-app/internal/config"
	"github.com/fakhrymubarak/weather-app/internal/model"
	"github.com/fakhrymubarak/weather-app/internal/service"
)

const (
	maxBodyBytes      = 1 << 20
	msgInvalidBody    = "Invalid request body"
	locationFieldName = "location"
)

// statusByKind maps lookup failures to HTTP statuses. Everything past validation
// is reported as 500.
var statusByKind = map[model.ErrorKind]int{
	model.KindValidation: http.StatusBadRequest,
	model.KindResolution: http.StatusInternalServerError,
	model.KindNetwork:    http.StatusInternalServerError,
	model.KindService:    http.StatusInternalServerError,
	model.KindTimeout:    http.StatusInternalServerError,
}

// StatusForError returns the HTTP status for a lookup error.
func StatusForError(err error) int {
	if status, ok := statusByKind[model.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Limiter decides whether a lookup may reach the upstream services. msg is the
// 429 body text when it may not.
type Limiter interface {
	Allow(r *http.Request, location string) (ok bool, msg string)
}

type WeatherHandler struct {
	WeatherService service.WeatherServiceInterface
	// Limiter is optional; nil disables rate limiting.
	Limiter Limiter
}

func NewWeatherHandler(svc ...service.WeatherServiceInterface) *WeatherHandler {
	var weatherService service.WeatherServiceInterface
	if len(svc) > 0 && svc[0] != nil {
		weatherService = svc[0]
	} else {
		weatherService = service.NewWeatherService(nil, nil, nil)
	}
	return &WeatherHandler{
		WeatherService: weatherService,
	}
}

func (h *WeatherHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		config.GetLogger().Errorw("could not encode json", "error", err)
	}
}

// HandleWeather serves GET /weather?location= and POST /weather with a JSON or
// form body. Other methods get an empty 400.
func (h *WeatherHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	var location string
	switch r.Method {
	case http.MethodGet:
		location = r.URL.Query().Get(locationFieldName)
	case http.MethodPost:
		loc, err := locationFromBody(w, r)
		if err != nil {
			h.writeJSONResponse(w, http.StatusBadRequest, model.ErrorResponse{Error: msgInvalidBody})
			return
		}
		location = loc
	default:
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Only lookups that would go upstream count against the limits.
	if err := service.ValidateLocation(location); err != nil {
		h.writeJSONResponse(w, StatusForError(err), model.ErrorResponse{Error: model.MessageOf(err)})
		return
	}
	if h.Limiter != nil {
		if ok, msg := h.Limiter.Allow(r, location); !ok {
			h.writeJSONResponse(w, http.StatusTooManyRequests, model.ErrorResponse{Error: msg})
			return
		}
	}

	report, err := h.WeatherService.GetWeather(r.Context(), location)
	if err != nil {
		h.writeJSONResponse(w, StatusForError(err), model.ErrorResponse{Error: model.MessageOf(err)})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, report)
}

// locationFromBody reads the location from a JSON or urlencoded body. Bodies of
// any other type carry no location.
func locationFromBody(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var body struct {
			Location string `json:"location"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			if errors.Is(err, io.EOF) {
				return "", nil
			}
			return "", err
		}
		return body.Location, nil
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return "", err
		}
		return r.PostFormValue(locationFieldName), nil
	default:
		return "", nil
	}
}
