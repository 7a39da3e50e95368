package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"snaplink/internal/config"
	"snaplink/internal/errs"
	"snaplink/internal/media"
	"snaplink/internal/session"
)

// Instagram resolves social photo/video posts through a mirror site that
// answers with an HTML fragment of download buttons.
type Instagram struct {
	cfg      config.Aggregator
	api      requester
	acquirer *session.Acquirer
}

// NewInstagram creates the social photo/video adapter.
func NewInstagram(cfg config.Aggregator, client *http.Client) *Instagram {
	return &Instagram{
		cfg:      cfg,
		api:      requester{client: client, userAgent: cfg.UserAgent},
		acquirer: &session.Acquirer{Client: client, UserAgent: cfg.UserAgent},
	}
}

func (i *Instagram) Platform() media.Platform { return media.SocialPhotoVideo }

type ajaxSearchResponse struct {
	Status string `json:"status"`
	Data   string `json:"data"`
	Msg    string `json:"mess"`
}

// Resolve submits the post URL and returns one asset per download button.
func (i *Instagram) Resolve(ctx context.Context, rawURL string) (*media.Result, error) {
	const op = "instagram: resolve"

	base := strings.TrimRight(i.cfg.Base, "/")
	auth, err := i.acquirer.Acquire(ctx, base+"/")
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Accept", "*/*")
	header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	header.Set("Origin", base)
	header.Set("Referer", base+"/")
	if auth.Cookie != "" {
		header.Set("Cookie", auth.Cookie)
	}
	form := url.Values{"q": {rawURL}, "w": {""}, "p": {"home"}, "lang": {"en"}}

	var resp ajaxSearchResponse
	if err := i.api.getJSON(ctx, "instagram: search", http.MethodPost, base+"/api/ajaxSearch", formBody(form), header, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, errs.Errorf(errs.ParseFailure, op, "search answered status %q: %s", resp.Status, resp.Msg)
	}

	doc, err := parseDocument(op, resp.Data)
	if err != nil {
		return nil, err
	}

	return finish(op, &media.Result{
		Platform: media.SocialPhotoVideo,
		Assets:   parseInstagramLinks(doc),
	}, "Instagram Media")
}
