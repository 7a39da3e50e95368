package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"snaplink/internal/config"
	"snaplink/internal/media"
	"snaplink/internal/session"
)

// Pinterest resolves pins through a mirror site whose download form is
// protected by a csrf input.
type Pinterest struct {
	cfg      config.Aggregator
	api      requester
	acquirer *session.Acquirer
}

// NewPinterest creates the pin-board adapter.
func NewPinterest(cfg config.Aggregator, client *http.Client) *Pinterest {
	return &Pinterest{
		cfg: cfg,
		api: requester{client: client, userAgent: cfg.UserAgent},
		acquirer: &session.Acquirer{
			Client:    client,
			UserAgent: cfg.UserAgent,
			Extract:   session.InputToken("csrf_token"),
		},
	}
}

func (p *Pinterest) Platform() media.Platform { return media.PinBoard }

// Resolve submits the pin URL and returns its image or video links.
func (p *Pinterest) Resolve(ctx context.Context, rawURL string) (*media.Result, error) {
	const op = "pinterest: resolve"

	landing := strings.TrimRight(p.cfg.Base, "/") + "/en/"
	auth, err := p.acquirer.Acquire(ctx, landing)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")
	header.Set("Referer", landing)
	if auth.Cookie != "" {
		header.Set("Cookie", auth.Cookie)
	}
	form := url.Values{"csrf_token": {auth.Token}, "url": {rawURL}}

	doc, err := p.api.getDocument(ctx, "pinterest: download", http.MethodPost, landing+"download", formBody(form), header)
	if err != nil {
		return nil, err
	}
	title, thumbnail, assets := parsePinterestResults(doc)

	return finish(op, &media.Result{
		Platform:  media.PinBoard,
		Title:     title,
		Thumbnail: thumbnail,
		Assets:    assets,
	}, "Pinterest Media")
}
