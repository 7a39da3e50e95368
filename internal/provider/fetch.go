package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"snaplink/internal/errs"
	"snaplink/internal/httputil"
)

// requester performs upstream calls with a fixed client identity and
// reclassifies every failure into an errs kind.
type requester struct {
	client    *http.Client
	userAgent string
}

func (r requester) do(ctx context.Context, op, method, rawURL string, body io.Reader, header http.Header) ([]byte, error) {
	h := http.Header{}
	if r.userAgent != "" {
		h.Set("User-Agent", r.userAgent)
	}
	for k, vs := range header {
		h[k] = vs
	}

	req, err := httputil.NewRequest(ctx, method, rawURL, body, h)
	if err != nil {
		return nil, errs.E(errs.UpstreamUnavailable, op, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, transportError(ctx, op, err)
	}
	data, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, transportError(ctx, op, err)
	}
	slog.Debug("Upstream call", "op", op, "method", method, "url", rawURL, "status", resp.StatusCode, "bytes", len(data))

	if !httputil.IsSuccess(resp.StatusCode) {
		return nil, errs.Errorf(errs.UpstreamUnavailable, op, "unexpected status %d", resp.StatusCode)
	}
	return data, nil
}

// getJSON performs a request and decodes the JSON response into v.
func (r requester) getJSON(ctx context.Context, op, method, rawURL string, body io.Reader, header http.Header, v any) error {
	data, err := r.do(ctx, op, method, rawURL, body, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errs.E(errs.ParseFailure, op, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

// getDocument performs a request and parses the response as HTML.
func (r requester) getDocument(ctx context.Context, op, method, rawURL string, body io.Reader, header http.Header) (*goquery.Document, error) {
	data, err := r.do(ctx, op, method, rawURL, body, header)
	if err != nil {
		return nil, err
	}
	return parseDocument(op, string(data))
}

func parseDocument(op, html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errs.E(errs.ParseFailure, op, fmt.Errorf("parsing HTML: %w", err))
	}
	return doc, nil
}

// formBody encodes values for an application/x-www-form-urlencoded POST.
func formBody(values url.Values) io.Reader {
	return strings.NewReader(values.Encode())
}

// transportError maps a client failure to TimedOut or UpstreamUnavailable.
func transportError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errs.FromContext(op, ctxErr)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errs.E(errs.TimedOut, op, err)
	}
	return errs.E(errs.UpstreamUnavailable, op, err)
}
