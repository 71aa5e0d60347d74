package router

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/fakhrymubarak/weather-app/internal/handler"
	"github.com/fakhrymubarak/weather-app/internal/metrics"
	"github.com/fakhrymubarak/weather-app/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Deps are the pieces the router mounts. Metrics and Logger are optional.
type Deps struct {
	Weather     *handler.WeatherHandler
	Pages       *handler.PageHandler
	Static      fs.FS
	Metrics     *metrics.Metrics
	MetricsPath string
	CORSOrigins []string
	Logger      *zap.SugaredLogger
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable it only behind a proxy that overwrites those headers.
	TrustProxy bool
}

// New builds the application's route tree.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if d.TrustProxy {
		r.Use(chimw.RealIP)
	}
	if d.Logger != nil {
		r.Use(middleware.RequestLogger(d.Logger))
	}
	r.Use(chimw.Recoverer)
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}
	r.Use(chimw.GetHead)

	r.Get("/", d.Pages.Index)
	r.Get("/about", d.Pages.About)
	r.Get("/help", d.Pages.Help)
	r.Get("/sitemap.xml", d.Pages.Sitemap)

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: d.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		// cors answers preflights. Every other method reaches the handler, which
		// answers unsupported ones itself.
		r.HandleFunc("/weather", d.Weather.HandleWeather)
	})

	notFound := d.Pages.NotFound(handler.MsgPageNotFound)

	static := staticFiles(d.Static, notFound)
	for _, dir := range []string{"/css/*", "/js/*", "/img/*"} {
		r.Get(dir, static)
	}

	r.Get("/help/*", d.Pages.NotFound(handler.MsgHelpArticleNotFound))
	r.Get("/about/*", d.Pages.NotFound(handler.MsgAboutNotFound))

	if d.Metrics != nil && d.MetricsPath != "" {
		r.Method(http.MethodGet, d.MetricsPath, d.Metrics.Handler())
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}

// staticFiles serves regular files from fsys and hands anything else, directories
// included, to fallback.
func staticFiles(fsys fs.FS, fallback http.HandlerFunc) http.HandlerFunc {
	files := http.FileServer(http.FS(fsys))
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := fs.Stat(fsys, strings.TrimPrefix(path.Clean(r.URL.Path), "/"))
		if err != nil || info.IsDir() {
			fallback(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}
}
