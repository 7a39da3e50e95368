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

// Facebook resolves social video links through an htmx-driven mirror site.
type Facebook struct {
	cfg      config.Aggregator
	api      requester
	acquirer *session.Acquirer
}

// NewFacebook creates the social video adapter.
func NewFacebook(cfg config.Aggregator, client *http.Client) *Facebook {
	return &Facebook{
		cfg:      cfg,
		api:      requester{client: client, userAgent: cfg.UserAgent},
		acquirer: &session.Acquirer{Client: client, UserAgent: cfg.UserAgent},
	}
}

func (f *Facebook) Platform() media.Platform { return media.SocialVideo }

// Resolve submits the video URL and returns its SD/HD variants.
func (f *Facebook) Resolve(ctx context.Context, rawURL string) (*media.Result, error) {
	const op = "facebook: resolve"

	base := strings.TrimRight(f.cfg.Base, "/")
	auth, err := f.acquirer.Acquire(ctx, base+"/")
	if err != nil {
		return nil, err
	}

	// Share links are sometimes pasted percent-encoded. PathUnescape keeps
	// a literal "+" intact.
	id := rawURL
	if decoded, err := url.PathUnescape(rawURL); err == nil {
		id = decoded
	}

	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")
	header.Set("Hx-Request", "true")
	header.Set("Hx-Trigger", "form")
	header.Set("Hx-Target", "#target")
	header.Set("Referer", base+"/")
	if auth.Cookie != "" {
		header.Set("Cookie", auth.Cookie)
	}
	form := url.Values{"id": {id}, "locale": {"en"}}

	doc, err := f.api.getDocument(ctx, "facebook: process", http.MethodPost, base+"/process", formBody(form), header)
	if err != nil {
		return nil, err
	}
	caption, thumbnail, assets := parseFacebookResults(doc)

	return finish(op, &media.Result{
		Platform:  media.SocialVideo,
		Title:     caption,
		Thumbnail: thumbnail,
		Assets:    assets,
	}, "Facebook Video")
}
