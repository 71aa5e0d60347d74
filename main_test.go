package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/fakhrymubarak/weather-app/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPort(t *testing.T) {
	os.Unsetenv("PORT")
	assert.Equal(t, "3000", config.GetServerPort())
	assert.Equal(t, ":3000", newServer(http.NotFoundHandler()).Addr)
}

func TestNewServer_Timeouts(t *testing.T) {
	srv := newServer(http.NotFoundHandler())
	assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 15*time.Second, srv.ReadTimeout)
	assert.Equal(t, 30*time.Second, srv.WriteTimeout)
	assert.Equal(t, 60*time.Second, srv.IdleTimeout)
}

func TestNewHandler_Routes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h, err := newHandler(ctx)
	require.NoError(t, err)

	tests := []struct {
		path   string
		status int
	}{
		{"/", http.StatusOK},
		{"/about", http.StatusOK},
		{"/help", http.StatusOK},
		{"/sitemap.xml", http.StatusOK},
		{"/css/styles.css", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/weather", http.StatusBadRequest},
		{"/help/anything", http.StatusNotFound},
		{"/foo/bar", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestNewHandler_RejectedInputNotRateLimited(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h, err := newHandler(ctx)
	require.NoError(t, err)

	// Default limits are 30 global and 10 per location per minute.
	for i := 0; i < 40; i++ {
		req := httptest.NewRequest(http.MethodGet, "/weather?location=", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusBadRequest, rr.Code, "empty location #%d", i+1)
		assert.JSONEq(t, `{"error":"Please provide an address!"}`, rr.Body.String())

		req = httptest.NewRequest(http.MethodPut, "/weather?location=NYC", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rr = httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusBadRequest, rr.Code, "PUT #%d", i+1)
		assert.Empty(t, rr.Body.String())
	}
}

func TestNewHandler_Head(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h, err := newHandler(ctx)
	require.NoError(t, err)

	for _, path := range []string{"/", "/sitemap.xml"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodHead, path, nil))
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
}

func TestNewHandler_UnknownCacheDriver(t *testing.T) {
	viper.Set("cache.driver", "memcached")
	defer viper.Set("cache.driver", "none")

	_, err := newHandler(context.Background())
	assert.Error(t, err)
}

func TestRun_Shutdown(t *testing.T) {
	viper.Set("server.port", "0")
	defer viper.Set("server.port", "3000")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
