package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fakhrymubarak/weather-app/internal/model"
)

// maxErrorBody caps how much of a failed upstream reply is read.
const maxErrorBody = 4 << 10

// upstreamMessages are the caller-facing texts for one upstream.
type upstreamMessages struct {
	unreachable string
	timedOut    string
	malformed   string
}

// upstream performs bounded GET+JSON calls against one third-party API.
type upstream struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	msgs       upstreamMessages
}

// statusError carries a non-2xx upstream reply.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// message extracts OpenWeatherMap's "message" field, falling back to the status text.
func (e *statusError) message() string {
	var body model.OpenWeatherMapErrorResponse
	if err := json.Unmarshal([]byte(e.Body), &body); err == nil && body.Message != "" {
		return body.Message
	}
	if text := http.StatusText(e.Code); text != "" {
		return text
	}
	return fmt.Sprintf("upstream returned status %d", e.Code)
}

// getJSON issues GET baseURL?query and decodes a 2xx body into out. Transport,
// timeout and decode failures come back as *model.LookupError; non-2xx replies come
// back as *statusError for the caller to classify.
func (u *upstream) getJSON(ctx context.Context, query url.Values, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL, nil)
	if err != nil {
		return model.NewNetworkError(u.msgs.unreachable, fmt.Errorf("create request: %w", err))
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return u.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &statusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(err) {
			return model.NewTimeoutError(u.msgs.timedOut, err)
		}
		return model.NewNetworkError(u.msgs.malformed, fmt.Errorf("%w: %w", ErrMalformed, err))
	}
	return nil
}

func (u *upstream) transportError(err error) error {
	if isTimeout(err) {
		return model.NewTimeoutError(u.msgs.timedOut, err)
	}
	return model.NewNetworkError(u.msgs.unreachable, fmt.Errorf("%w: %w", ErrExternalAPI, err))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// serviceError turns a non-2xx reply into a ServiceError, passing any other error through.
func serviceError(err error) error {
	var se *statusError
	if errors.As(err, &se) {
		return model.NewServiceError(se.message(), fmt.Errorf("%w: %w", ErrExternalAPI, se))
	}
	return err
}
