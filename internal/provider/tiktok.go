package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"snaplink/internal/config"
	"snaplink/internal/errs"
	"snaplink/internal/httputil"
	"snaplink/internal/media"
)

// TikTok resolves short-video links with a single call to an aggregation
// API that already lists every variant.
type TikTok struct {
	cfg config.TikTok
	api requester
}

// NewTikTok creates the short-video adapter.
func NewTikTok(cfg config.TikTok, client *http.Client) *TikTok {
	return &TikTok{cfg: cfg, api: requester{client: client, userAgent: cfg.UserAgent}}
}

func (t *TikTok) Platform() media.Platform { return media.ShortVideo }

type tikwmResponse struct {
	Code int        `json:"code"`
	Msg  string     `json:"msg"`
	Data *tikwmData `json:"data"`
}

type tikwmData struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Cover         string   `json:"cover"`
	Duration      int64    `json:"duration"`
	Play          string   `json:"play"`
	WmPlay        string   `json:"wmplay"`
	Music         string   `json:"music"`
	Images        []string `json:"images"`
	PlayCount     int64    `json:"play_count"`
	DiggCount     int64    `json:"digg_count"`
	CommentCount  int64    `json:"comment_count"`
	ShareCount    int64    `json:"share_count"`
	DownloadCount int64    `json:"download_count"`
	CreateTime    int64    `json:"create_time"`
	Author        struct {
		UniqueID string `json:"unique_id"`
		Nickname string `json:"nickname"`
		Avatar   string `json:"avatar"`
	} `json:"author"`
}

// Resolve fetches the post and normalizes either its photo set or its video
// variants.
func (t *TikTok) Resolve(ctx context.Context, rawURL string) (*media.Result, error) {
	const op = "tiktok: resolve"

	q := url.Values{}
	q.Set("url", rawURL)
	q.Set("hd", "1")
	endpoint := t.cfg.API + "?" + q.Encode()

	var resp tikwmResponse
	if err := t.api.getJSON(ctx, "tiktok: fetch post", http.MethodPost, endpoint, nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 || resp.Data == nil {
		return nil, errs.Errorf(errs.ParseFailure, op, "api answered code %d: %s", resp.Code, resp.Msg)
	}

	return finish(op, t.normalize(resp.Data), "TikTok Video")
}

func (t *TikTok) normalize(d *tikwmData) *media.Result {
	abs := func(ref string) string { return httputil.Absolute(t.cfg.API, ref) }

	result := &media.Result{
		Platform:  media.ShortVideo,
		Title:     strings.TrimSpace(d.Title),
		Thumbnail: abs(d.Cover),
		Posted:    formatTimestamp(d.CreateTime),
		Author: &media.Author{
			UniqueID: d.Author.UniqueID,
			Nickname: d.Author.Nickname,
			Avatar:   abs(d.Author.Avatar),
		},
		Stats: &media.Stats{
			Views:     formatCount(d.PlayCount),
			Likes:     formatCount(d.DiggCount),
			Comments:  formatCount(d.CommentCount),
			Shares:    formatCount(d.ShareCount),
			Downloads: formatCount(d.DownloadCount),
		},
	}
	if d.Duration > 0 {
		result.Duration = formatDuration(time.Duration(d.Duration) * time.Second)
	}

	if len(d.Images) > 0 {
		for _, img := range d.Images {
			result.Assets = append(result.Assets, media.Asset{Type: media.Photo, URL: abs(img), Format: "jpg"})
		}
		return result
	}

	if d.Play != "" {
		result.Assets = append(result.Assets, media.Asset{Type: media.Unwatermarked, URL: abs(d.Play), Quality: "HD", Format: "mp4"})
	}
	if d.WmPlay != "" {
		result.Assets = append(result.Assets, media.Asset{Type: media.Watermarked, URL: abs(d.WmPlay), Quality: "SD", Format: "mp4"})
	}
	if d.Music != "" {
		result.Assets = append(result.Assets, media.Asset{Type: media.Audio, URL: abs(d.Music), Quality: "Audio", Format: "mp3"})
	}
	return result
}
