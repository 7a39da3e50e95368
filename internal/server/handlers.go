package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"snaplink/internal/errs"
	"snaplink/internal/media"
)

const maxRequestBody = 64 << 10

type handlers struct {
	resolver Resolver
	streamer Streamer
}

type resolveRequest struct {
	URL string `json:"url"`
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) resolve(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody)

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errs.E(errs.InvalidInput, "decode request", err))
		return
	}

	result, err := h.resolver.Resolve(c.Request.Context(), req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": media.Shape(result)})
}

func (h *handlers) relay(c *gin.Context) {
	assetURL := c.Query("url")
	if assetURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "URL missing", "kind": errs.InvalidInput.String()})
		return
	}

	err := h.streamer.Serve(c.Writer, c.Request, assetURL, c.Query("filename"))
	if err == nil {
		return
	}
	if errors.Is(err, errs.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid URL provided.", "kind": errs.InvalidInput.String()})
		return
	}
	slog.Warn("Relay failed", "id", c.GetString(requestIDKey), "err", err)
	c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Proxy error", "kind": errs.KindOf(err).String()})
}

// writeError maps a failure kind onto a status code and a user-facing
// message. The kind itself is returned for diagnostics.
func writeError(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	status, msg := statusFor(kind)
	c.JSON(status, gin.H{"success": false, "error": msg, "kind": kind.String()})
}

func statusFor(kind errs.Kind) (int, string) {
	switch kind {
	case errs.InvalidInput:
		return http.StatusBadRequest, "Invalid URL provided."
	case errs.UnsupportedPlatform:
		return http.StatusBadRequest, "Platform not supported."
	case errs.NoMediaFound:
		return http.StatusNotFound, "No media found."
	case errs.TimedOut:
		return http.StatusGatewayTimeout, "Upstream timed out."
	default:
		return http.StatusBadGateway, "Failed to fetch media."
	}
}
