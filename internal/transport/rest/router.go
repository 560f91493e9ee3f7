package rest

import (
	"net/http"

	"github.com/heartmarshall/plexicon/internal/transport/middleware"
)

// NewRouter registers every endpoint. discoverLimit wraps only
// POST /api/discover; pass nil to leave it unlimited.
func NewRouter(d *DiscoveryHandler, h *HealthHandler, discoverLimit middleware.Middleware) *http.ServeMux {
	if discoverLimit == nil {
		discoverLimit = middleware.Chain()
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/discover", discoverLimit(http.HandlerFunc(d.Discover)))
	mux.HandleFunc("GET /api/reveal", d.Reveal)
	mux.HandleFunc("GET /api/word", d.Word)
	mux.HandleFunc("GET /api/decoys", d.Decoys)
	mux.HandleFunc("GET /api/stats", d.Stats)

	mux.HandleFunc("GET /live", h.Live)
	mux.HandleFunc("GET /ready", h.Ready)
	mux.HandleFunc("GET /health", h.Health)
	return mux
}
