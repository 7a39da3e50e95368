// Package session acquires the anti-forgery token and session cookies a
// platform's landing page hands out before it accepts API calls.
package session

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"snaplink/internal/errs"
	"snaplink/internal/httputil"
	"snaplink/internal/media"
)

// TokenExtractor pulls a token out of a landing page. ok is false when the
// expected marker is absent.
type TokenExtractor func(page []byte) (token string, ok bool)

// metaTokenPattern matches <meta name="csrf-token" content="...">, tolerating
// the csrf_token / csrf spellings and attribute order noise in between.
var metaTokenPattern = regexp.MustCompile(`<meta[^>]+(csrf[-_]?token|csrf|csrf_token)[^>]+content=["']([^"']+)["']`)

// MetaToken extracts the token from a csrf meta tag.
func MetaToken() TokenExtractor {
	return func(page []byte) (string, bool) {
		m := metaTokenPattern.FindSubmatch(page)
		if m == nil {
			return "", false
		}
		return string(m[2]), true
	}
}

// InputToken extracts the value of the form input with the given name.
func InputToken(name string) TokenExtractor {
	return func(page []byte) (string, bool) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
		if err != nil {
			return "", false
		}
		val, ok := doc.Find(fmt.Sprintf("input[name=%q]", name)).First().Attr("value")
		if !ok || val == "" {
			return "", false
		}
		return val, true
	}
}

// Acquirer fetches a landing page with a fixed client identity.
type Acquirer struct {
	Client    *http.Client
	UserAgent string
	// Extract is nil for platforms that only need cookies.
	Extract TokenExtractor
}

// Acquire fetches landingURL and returns a fresh AuthContext. The result must
// not be reused across resolve calls.
func (a *Acquirer) Acquire(ctx context.Context, landingURL string) (media.AuthContext, error) {
	const op = "session: acquire"

	header := http.Header{}
	if a.UserAgent != "" {
		header.Set("User-Agent", a.UserAgent)
	}
	req, err := httputil.NewRequest(ctx, http.MethodGet, landingURL, nil, header)
	if err != nil {
		return media.AuthContext{}, errs.E(errs.InvalidInput, op, err)
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return media.AuthContext{}, errs.FromContext(op, ctxErr)
		}
		return media.AuthContext{}, errs.E(errs.UpstreamUnavailable, op, err)
	}
	cookie := JoinCookies(resp.Header.Values("Set-Cookie"))
	body, err := httputil.ReadBody(resp)
	if err != nil {
		return media.AuthContext{}, errs.E(errs.UpstreamUnavailable, op, err)
	}
	if !httputil.IsSuccess(resp.StatusCode) {
		return media.AuthContext{}, errs.Errorf(errs.UpstreamUnavailable, op, "unexpected status %d from %s", resp.StatusCode, landingURL)
	}

	auth := media.AuthContext{Cookie: cookie}
	if a.Extract != nil {
		token, ok := a.Extract(body)
		if !ok {
			return media.AuthContext{}, errs.Errorf(errs.TokenNotFound, op, "no token marker on %s", landingURL)
		}
		auth.Token = token
	}

	slog.Debug("Session acquired", "url", landingURL, "token", auth.Token != "", "cookies", strings.Count(cookie, "=") > 0)
	return auth, nil
}

// JoinCookies reduces Set-Cookie header values to their name=value pairs,
// joined with "; " in receipt order.
func JoinCookies(setCookies []string) string {
	parts := make([]string, 0, len(setCookies))
	for _, c := range setCookies {
		pair, _, _ := strings.Cut(c, ";")
		if pair = strings.TrimSpace(pair); pair != "" {
			parts = append(parts, pair)
		}
	}
	return strings.Join(parts, "; ")
}
