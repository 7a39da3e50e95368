// Package resolve orchestrates a resolve call: input validation, platform
// classification, the adapter call under a deadline, and outcome recording.
package resolve

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"snaplink/internal/errs"
	"snaplink/internal/history"
	"snaplink/internal/media"
	"snaplink/internal/platform"
	"snaplink/internal/provider"
)

// Recorder stores resolve outcomes. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (int64, error)
}

// Service resolves URLs with the adapter set.
type Service struct {
	Providers provider.Set
	// Timeout bounds a whole resolve call. Zero means no extra deadline.
	Timeout time.Duration
	// Recorder is optional.
	Recorder Recorder
}

// Resolve validates rawURL, picks the adapter for its platform and returns
// a result with at least one asset.
func (s *Service) Resolve(ctx context.Context, rawURL string) (*media.Result, error) {
	start := time.Now()
	rawURL = strings.TrimSpace(rawURL)

	result, p, err := s.resolve(ctx, rawURL)

	attrs := []any{"url", rawURL, "platform", p, "elapsed", time.Since(start).Round(time.Millisecond)}
	if err != nil {
		slog.Warn("Resolve failed", append(attrs, "kind", errs.KindOf(err), "err", err)...)
	} else {
		slog.Info("Resolved", append(attrs, "assets", len(result.Assets))...)
	}
	s.record(rawURL, p, result, err, time.Since(start))

	return result, err
}

func (s *Service) resolve(ctx context.Context, rawURL string) (*media.Result, media.Platform, error) {
	const op = "resolve"

	if err := Validate(rawURL); err != nil {
		return nil, media.Unknown, err
	}

	p, err := platform.Classify(rawURL)
	if err != nil {
		return nil, media.Unknown, err
	}
	adapter, err := s.Providers.For(p)
	if err != nil {
		return nil, p, err
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	result, err := adapter.Resolve(ctx, rawURL)
	if err != nil {
		if errs.KindOf(err) == errs.Unknown {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, p, errs.FromContext(op, ctxErr)
			}
		}
		return nil, p, err
	}
	if result == nil || len(result.Assets) == 0 {
		return nil, p, errs.Errorf(errs.NoMediaFound, op, "%s adapter returned no assets", p)
	}
	result.Platform = p
	return result, p, nil
}

// Validate rejects input that is not an absolute http(s) URL with a host.
func Validate(rawURL string) error {
	const op = "validate"

	if rawURL == "" {
		return errs.Errorf(errs.InvalidInput, op, "url is empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return errs.E(errs.InvalidInput, op, err)
	}
	if u.Scheme == "" {
		return errs.Errorf(errs.InvalidInput, op, "url %q has no scheme", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errs.Errorf(errs.InvalidInput, op, "scheme %q is not supported", u.Scheme)
	}
	if u.Host == "" {
		return errs.Errorf(errs.InvalidInput, op, "url %q has no host", rawURL)
	}
	return nil
}

// record writes the outcome without letting storage problems reach the
// caller.
func (s *Service) record(rawURL string, p media.Platform, result *media.Result, err error, elapsed time.Duration) {
	if s.Recorder == nil {
		return
	}

	e := history.Entry{
		URL:      rawURL,
		Platform: p.String(),
		Success:  err == nil,
		Duration: elapsed,
	}
	if err != nil {
		e.ErrorKind = errs.KindOf(err).String()
	} else {
		e.Title = result.Title
		e.Assets = len(result.Assets)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, recErr := s.Recorder.Record(ctx, e); recErr != nil {
		slog.Warn("Recording history failed", "err", recErr)
	}
}
