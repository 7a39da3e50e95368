package httputil

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"net/http"
	"time"
)

// retryConfig controls retry behavior for HTTP requests.
type retryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// retryTransport retries transient failures with exponential backoff and
// jitter. Attempts are bounded by MaxRetries.
type retryTransport struct {
	base   http.RoundTripper
	config retryConfig
}

func newRetryTransport(base http.RoundTripper, config retryConfig) *retryTransport {
	return &retryTransport{base: base, config: config}
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastResp *http.Response
	var lastErr error

	for attempt := 0; attempt <= t.config.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := SleepContext(req.Context(), t.backoffDelay(attempt)); err != nil {
				if lastResp != nil {
					lastResp.Body.Close()
				}
				return nil, err
			}
		}

		cloned := req
		if attempt > 0 {
			var err error
			cloned, err = cloneRequest(req)
			if err != nil {
				if lastResp != nil {
					return lastResp, nil
				}
				return nil, lastErr
			}
		}

		resp, err := t.base.RoundTrip(cloned)
		if err != nil {
			if !isRetryableError(err) {
				return nil, err
			}
			lastErr = err
			continue
		}

		if !isRetryableStatus(resp.StatusCode) {
			if lastResp != nil {
				lastResp.Body.Close()
			}
			return resp, nil
		}

		if lastResp != nil {
			lastResp.Body.Close()
		}
		lastResp = resp
		lastErr = nil
	}

	if lastResp != nil {
		return lastResp, nil
	}
	return nil, lastErr
}

func (t *retryTransport) backoffDelay(attempt int) time.Duration {
	base := float64(t.config.InitialDelay) * math.Pow(2, float64(attempt-1))
	if base > float64(t.config.MaxDelay) {
		base = float64(t.config.MaxDelay)
	}
	jitter := base * 0.25 * (rand.Float64()*2 - 1) //nolint:gosec
	return time.Duration(base + jitter)
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func cloneRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			return nil, errors.New("request body cannot be replayed")
		}
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}

// SleepContext sleeps for d, returning early with ctx's error if it ends first.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
