package rest

import (
	"net/http"

	"github.com/heartmarshall/zhuyin-highlighter/internal/transport/middleware"
)

// Routes groups the handlers mounted by NewRouter.
type Routes struct {
	Highlighter *HighlighterHandler
	Health      *HealthHandler
	// Events serves the re-render WebSocket.
	Events http.Handler
	// Metrics serves the Prometheus scrape endpoint.
	Metrics http.Handler
	// AnnotateLimit wraps the processing endpoints only.
	AnnotateLimit middleware.Middleware
}

// NewRouter registers every endpoint on a new ServeMux.
func NewRouter(rt Routes) *http.ServeMux {
	limit := rt.AnnotateLimit
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	h := rt.Highlighter

	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", rt.Health.Live)
	mux.HandleFunc("GET /ready", rt.Health.Ready)
	mux.HandleFunc("GET /health", rt.Health.Health)
	if rt.Metrics != nil {
		mux.Handle("GET /metrics", rt.Metrics)
	}

	mux.Handle("POST /v1/annotate", limit(http.HandlerFunc(h.AnnotateHTML)))
	mux.Handle("POST /v1/annotate/xml", limit(http.HandlerFunc(h.AnnotateXML)))

	mux.HandleFunc("GET /v1/settings", h.GetSettings)
	mux.HandleFunc("PUT /v1/settings", h.UpdateSettings)
	mux.HandleFunc("POST /v1/commands/toggle-highlighter", h.ToggleHighlighter)

	mux.HandleFunc("GET /v1/learned", h.ListLearned)
	mux.HandleFunc("POST /v1/learned/{char}/toggle", h.ToggleLearned)
	mux.HandleFunc("GET /v1/readings/{char}", h.GetReading)
	mux.HandleFunc("GET /v1/styles.css", h.Stylesheet)

	if rt.Events != nil {
		mux.Handle("GET /v1/events", rt.Events)
	}

	return mux
}
