package handler

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/fakhrymubarak/weather-app/internal/config"
)

// 404 page messages.
const (
	MsgPageNotFound        = "Page not found"
	MsgHelpArticleNotFound = "Help article not found"
	MsgAboutNotFound       = "Nothing to show here..."
)

type pageData struct {
	Title    string
	Name     string
	ErrorMsg string
}

// PageHandler renders the HTML pages and the static sitemap.
type PageHandler struct {
	tmpl   *template.Template
	static fs.FS
	title  string
	author string
}

func NewPageHandler(tmpl *template.Template, static fs.FS, title, author string) *PageHandler {
	return &PageHandler{tmpl: tmpl, static: static, title: title, author: author}
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "index.tmpl", pageData{Title: h.title, Name: h.author})
}

func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "about.tmpl", pageData{Title: "About Me", Name: h.author})
}

func (h *PageHandler) Help(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "help.tmpl", pageData{Title: "Help Page", Name: h.author})
}

func (h *PageHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	http.ServeFileFS(w, r, h.static, "sitemap.xml")
}

// NotFound returns a handler rendering the 404 page with msg.
func (h *PageHandler) NotFound(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, http.StatusNotFound, "404.tmpl", pageData{Title: "404", Name: h.author, ErrorMsg: msg})
	}
}

// render executes into a buffer first so a template error can still become a 500.
func (h *PageHandler) render(w http.ResponseWriter, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		config.GetLogger().Errorw("could not render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
