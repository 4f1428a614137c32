package api

import (
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "crash-data-audit/docs"
	"crash-data-audit/internal/api/handler"
	"crash-data-audit/internal/metrics"
	"crash-data-audit/pkg/router"
)

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins []string
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
}

// NewRouter builds the API router with middleware, /metrics and /swagger.
func NewRouter(h *handler.Handler, opts Options) *router.Router {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := router.New(opts.Logger)
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		render.SetContentType(render.ContentTypeJSON),
		cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		}),
	)

	RegisterRoutes(r, h)

	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	r.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	return r
}

// RegisterRoutes adds the session API to r.
func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.GET("/healthz", h.Health)

	r.POST("/api/v1/sessions", h.CreateSession)
	r.GET("/api/v1/sessions", h.ListSessions)
	// More specific routes first
	r.GET("/api/v1/sessions/*/exports/*", h.DownloadExport)
	r.POST("/api/v1/sessions/*/exports", h.CreateExport)
	r.POST("/api/v1/sessions/*/load", h.LoadDataset)
	r.GET("/api/v1/sessions/*/audit", h.Audit)
	r.POST("/api/v1/sessions/*/clean", h.Clean)
	r.GET("/api/v1/sessions/*/insights", h.Insights)
	r.GET("/api/v1/sessions/*/dashboard", h.Dashboard)
	r.GET("/api/v1/sessions/*/trend", h.Trend)
	r.GET("/api/v1/sessions/*/cleaning-log", h.CleaningLog)
	r.GET("/api/v1/sessions/*/history", h.History)
	r.DELETE("/api/v1/sessions/*/history", h.ClearHistory)
	r.POST("/api/v1/sessions/*/reset", h.Reset)
	// Generic session routes last
	r.GET("/api/v1/sessions/*", h.GetSession)
	r.DELETE("/api/v1/sessions/*", h.DeleteSession)
}
