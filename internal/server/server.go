// Package server exposes resolve and relay over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"snaplink/internal/media"
)

// Resolver turns a page URL into a normalized result. *resolve.Service
// implements it.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (*media.Result, error)
}

// Streamer copies an asset to an HTTP response. *relay.Relay implements it.
type Streamer interface {
	Serve(w http.ResponseWriter, r *http.Request, assetURL, filename string) error
}

// Options configures the router.
type Options struct {
	AllowedOrigins []string
	// GzipLevel is passed to gzip.Gzip for JSON responses.
	GzipLevel int
}

// New builds the HTTP handler. Relay responses are never compressed.
func New(resolver Resolver, streamer Streamer, opts Options) http.Handler {
	router := gin.New()
	router.Use(requestID(), accessLog(), recovery())

	h := &handlers{resolver: resolver, streamer: streamer}

	api := router.Group("/api")
	api.GET("/health", h.health)
	api.GET("/relay", h.relay)
	api.GET("/proxy", h.relay)

	compressed := api.Group("", gzip.Gzip(opts.GzipLevel))
	compressed.POST("/resolve", h.resolve)
	compressed.POST("/download", h.resolve)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Not found."})
	})

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", "Content-Length", requestIDHeader},
	})

	slog.Debug("Router ready", "origins", origins, "gzip", opts.GzipLevel)
	return c.Handler(router)
}
