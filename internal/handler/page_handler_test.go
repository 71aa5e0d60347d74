package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fakhrymubarak/weather-app/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPageHandler(t *testing.T) *PageHandler {
	t.Helper()
	tmpl, err := web.Templates()
	require.NoError(t, err)
	return NewPageHandler(tmpl, web.Static(), "Weather App", "Jim Kuo")
}

func TestPageHandler_Pages(t *testing.T) {
	h := newTestPageHandler(t)
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantTitle string
	}{
		{"Index", h.Index, "Weather App"},
		{"About", h.About, "About Me"},
		{"Help", h.Help, "Help Page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.handler(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
			assert.Contains(t, rr.Body.String(), "<title>"+tt.wantTitle+"</title>")
			assert.Contains(t, rr.Body.String(), "Created by Jim Kuo")
		})
	}
}

func TestPageHandler_NotFound(t *testing.T) {
	h := newTestPageHandler(t)

	rr := httptest.NewRecorder()
	h.NotFound(MsgHelpArticleNotFound)(rr, httptest.NewRequest(http.MethodGet, "/help/missing", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "<title>404</title>")
	assert.Contains(t, rr.Body.String(), MsgHelpArticleNotFound)
}

func TestPageHandler_Sitemap(t *testing.T) {
	h := newTestPageHandler(t)

	rr := httptest.NewRecorder()
	h.Sitemap(rr, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "xml")
	assert.Contains(t, rr.Body.String(), "<urlset")
}

func TestPageHandler_TemplateError(t *testing.T) {
	h := newTestPageHandler(t)

	rr := httptest.NewRecorder()
	h.render(rr, http.StatusOK, "missing.tmpl", pageData{})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
