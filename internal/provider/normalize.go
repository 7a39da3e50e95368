package provider

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"snaplink/internal/errs"
	"snaplink/internal/media"
)

// finish drops assets without a URL, fills a missing title and rejects a
// result with nothing left to download.
func finish(op string, r *media.Result, defaultTitle string) (*media.Result, error) {
	kept := r.Assets[:0]
	for _, a := range r.Assets {
		if strings.TrimSpace(a.URL) != "" {
			kept = append(kept, a)
		}
	}
	r.Assets = kept
	if len(r.Assets) == 0 {
		return nil, errs.Errorf(errs.NoMediaFound, op, "upstream returned no downloadable links")
	}

	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		r.Title = defaultTitle
	}
	return r, nil
}

// formatDuration renders d as zero-padded mm:ss. Minutes are not wrapped
// into hours.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// formatCount renders a counter the way the short-video view shows it:
// 999, 1.2K, 3.4M, 1.1B. Values are truncated, never rounded up a unit.
func formatCount(n int64) string {
	units := []struct {
		size   int64
		suffix string
	}{
		{1_000_000_000, "B"},
		{1_000_000, "M"},
		{1_000, "K"},
	}
	for _, u := range units {
		if n >= u.size {
			tenths := n / (u.size / 10)
			s := strconv.FormatInt(tenths/10, 10)
			if frac := tenths % 10; frac != 0 {
				s += "." + strconv.FormatInt(frac, 10)
			}
			return s + u.suffix
		}
	}
	return strconv.FormatInt(n, 10)
}

// formatTimestamp renders a unix time in UTC, or "" for zero.
func formatTimestamp(unix int64) string {
	if unix <= 0 {
		return ""
	}
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04")
}

// encodeComponent escapes s for use as a query value, spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
