package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"snaplink/internal/config"
	"snaplink/internal/convert"
	"snaplink/internal/errs"
	"snaplink/internal/httputil"
	"snaplink/internal/media"
)

var videoIDPattern = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`)

// YouTube resolves video-host links through a convert-and-poll aggregator,
// walking the quality ladder once per requested format.
type YouTube struct {
	cfg    config.YouTube
	api    requester
	poller convert.Poller
}

// NewYouTube creates the video-host adapter.
func NewYouTube(cfg config.YouTube, client *http.Client) *YouTube {
	return &YouTube{
		cfg: cfg,
		api: requester{client: client, userAgent: cfg.UserAgent},
		poller: convert.Poller{
			Interval:    cfg.PollInterval.Duration,
			MaxAttempts: cfg.MaxAttempts,
		},
	}
}

func (y *YouTube) Platform() media.Platform { return media.VideoHost }

// extractVideoID returns the 11-character video id in rawURL, or "".
func extractVideoID(rawURL string) string {
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// Resolve runs one ladder per configured format concurrently. Every format
// must produce an asset; the first failure fails the whole resolve.
func (y *YouTube) Resolve(ctx context.Context, rawURL string) (*media.Result, error) {
	const op = "youtube: resolve"

	id := extractVideoID(rawURL)
	if id == "" {
		return nil, errs.Errorf(errs.InvalidInput, op, "no video id in %q", rawURL)
	}

	formats := y.cfg.Formats
	assets := make([]media.Asset, len(formats))
	titles := make([]string, len(formats))

	g, gctx := errgroup.WithContext(ctx)
	for i, format := range formats {
		g.Go(func() error {
			format = normalizeFormat(format)
			asset, err := convert.ForEachTier(gctx, convert.TiersFor(format), func(ctx context.Context, tier int) (media.Asset, error) {
				job, err := y.poller.Submit(ctx,
					func(ctx context.Context) (media.ConversionJob, error) { return y.submit(ctx, id, format, tier) },
					y.check,
				)
				if err != nil {
					return media.Asset{}, err
				}
				if titles[i] == "" {
					titles[i] = job.Title
				}
				return media.Asset{
					Type:    assetTypeFor(format),
					URL:     job.DownloadURL,
					Quality: convert.TierLabel(format, tier),
					Format:  format,
				}, nil
			})
			if err != nil {
				return err
			}
			assets[i] = asset
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &media.Result{
		Platform:  media.VideoHost,
		Thumbnail: fmt.Sprintf("%s/vi/%s/hqdefault.jpg", strings.TrimRight(y.cfg.ThumbBase, "/"), id),
		Assets:    assets,
	}
	for _, t := range titles {
		if t != "" {
			result.Title = t
			break
		}
	}

	return finish(op, result, "YouTube Media")
}

// normalizeFormat maps format aliases onto the containers the converter
// accepts.
func normalizeFormat(format string) string {
	switch strings.ToLower(format) {
	case "mp4", "video":
		return "mp4"
	case "wav":
		return "wav"
	default:
		return "mp3"
	}
}

func assetTypeFor(format string) media.AssetType {
	if convert.IsAudioFormat(format) {
		return media.Audio
	}
	return media.Video
}

func (y *YouTube) header() http.Header {
	site := strings.TrimRight(y.cfg.Site, "/")
	h := http.Header{}
	if site != "" {
		h.Set("Referer", site+"/")
		h.Set("Origin", httputil.Origin(site))
	}
	return h
}

type convertResponse struct {
	JobID string `json:"jobId"`
	Title string `json:"title"`
}

func (y *YouTube) submit(ctx context.Context, id, format string, tier int) (media.ConversionJob, error) {
	q := url.Values{}
	q.Set("v", id)
	q.Set("f", format)
	q.Set("q", fmt.Sprint(tier))
	endpoint := strings.TrimRight(y.cfg.API, "/") + "/v1/convert?" + q.Encode()

	var resp convertResponse
	if err := y.api.getJSON(ctx, "youtube: submit conversion", http.MethodGet, endpoint, nil, y.header(), &resp); err != nil {
		return media.ConversionJob{}, err
	}
	return media.ConversionJob{ID: resp.JobID, Title: resp.Title, Status: media.JobPending}, nil
}

type statusResponse struct {
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	DownloadURL string `json:"downloadUrl"`
}

func (y *YouTube) check(ctx context.Context, job media.ConversionJob) (media.ConversionJob, error) {
	endpoint := strings.TrimRight(y.cfg.API, "/") + "/v1/status?jobId=" + url.QueryEscape(job.ID)

	var resp statusResponse
	if err := y.api.getJSON(ctx, "youtube: check conversion", http.MethodGet, endpoint, nil, y.header(), &resp); err != nil {
		return job, err
	}

	next := job
	next.Progress = resp.Progress
	next.DownloadURL = resp.DownloadURL
	switch strings.ToLower(resp.Status) {
	case "completed":
		next.Status = media.JobCompleted
	case "failed", "error":
		next.Status = media.JobFailed
	default:
		next.Status = media.JobPending
	}
	return next, nil
}
