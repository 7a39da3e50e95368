// Package relay streams a resolved asset from its upstream host to the
// caller without holding the payload in memory.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"snaplink/internal/errs"
	"snaplink/internal/httputil"
)

// BufferSize is the fixed copy buffer; memory use does not grow with the
// asset size.
const BufferSize = 32 * 1024

// Relay fetches assets with a fixed client identity.
type Relay struct {
	Client    *http.Client
	UserAgent string
}

// Stream is an open upstream response ready to be copied.
type Stream struct {
	Body            io.ReadCloser
	ContentType     string
	ContentEncoding string
	ContentLength   int64 // -1 when unknown
}

// Close releases the upstream connection.
func (s *Stream) Close() error { return s.Body.Close() }

// Open validates assetURL and starts the upstream fetch. Input errors are
// reported before any network access.
func (r *Relay) Open(ctx context.Context, assetURL string) (*Stream, error) {
	const op = "relay: open"

	if assetURL == "" {
		return nil, errs.Errorf(errs.InvalidInput, op, "url missing")
	}
	if err := httputil.ValidateURL(assetURL); err != nil {
		return nil, errs.E(errs.InvalidInput, op, err)
	}

	header := http.Header{}
	header.Set("Accept", "*/*")
	// The transport must not decode the body; bytes go out as received.
	header.Set("Accept-Encoding", "identity")
	if r.UserAgent != "" {
		header.Set("User-Agent", r.UserAgent)
	}
	req, err := httputil.NewRequest(ctx, http.MethodGet, assetURL, nil, header)
	if err != nil {
		return nil, errs.E(errs.InvalidInput, op, err)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, ctxErr
		}
		return nil, errs.E(errs.ProxyUnavailable, op, err)
	}
	if !httputil.IsSuccess(resp.StatusCode) {
		resp.Body.Close()
		return nil, errs.Errorf(errs.ProxyUnavailable, op, "upstream answered %d", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &Stream{
		Body:            resp.Body,
		ContentType:     ct,
		ContentEncoding: resp.Header.Get("Content-Encoding"),
		ContentLength:   resp.ContentLength,
	}, nil
}

// Serve opens assetURL and copies it to w as an attachment named filename.
// Nothing is written to w unless the upstream fetch succeeded, so an error
// return means the caller may still send its own response.
func (r *Relay) Serve(w http.ResponseWriter, req *http.Request, assetURL, filename string) error {
	stream, err := r.Open(req.Context(), assetURL)
	if err != nil {
		return err
	}
	defer stream.Close()

	h := w.Header()
	h.Set("Content-Type", stream.ContentType)
	if stream.ContentEncoding != "" {
		h.Set("Content-Encoding", stream.ContentEncoding)
	}
	if stream.ContentLength >= 0 {
		h.Set("Content-Length", strconv.FormatInt(stream.ContentLength, 10))
	}
	h.Set("Content-Disposition", httputil.ContentDisposition(filename))
	w.WriteHeader(http.StatusOK)

	n, err := Copy(w, stream.Body)
	if err != nil {
		// headers are gone; the client sees a short body
		slog.Warn("Relay interrupted", "url", assetURL, "bytes", n, "err", err)
		return nil
	}
	slog.Debug("Relayed", "url", assetURL, "bytes", n)
	return nil
}

// Copy moves src to dst through a single BufferSize buffer.
func Copy(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, BufferSize)
	n, err := io.CopyBuffer(onlyWriter{dst}, onlyReader{src}, buf)
	if err != nil {
		return n, fmt.Errorf("copying stream: %w", err)
	}
	return n, nil
}

// onlyWriter and onlyReader hide ReadFrom/WriteTo so io.CopyBuffer always
// uses the fixed buffer.
type onlyWriter struct{ io.Writer }

type onlyReader struct{ io.Reader }
