package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"snaplink/internal/config"
	"snaplink/internal/errs"
	"snaplink/internal/httputil"
	"snaplink/internal/media"
	"snaplink/internal/session"
)

// Spotify resolves music-streaming track links through a metadata mirror,
// with lyrics fetched from a separate lyrics site.
type Spotify struct {
	cfg      config.Spotify
	api      requester
	lyrics   requester
	acquirer *session.Acquirer
}

// NewSpotify creates the music-streaming adapter.
func NewSpotify(cfg config.Spotify, client *http.Client) *Spotify {
	return &Spotify{
		cfg:    cfg,
		api:    requester{client: client, userAgent: cfg.UserAgent},
		lyrics: requester{client: client, userAgent: cfg.LyricsUserAgent},
		acquirer: &session.Acquirer{
			Client:    client,
			UserAgent: cfg.UserAgent,
			Extract:   session.MetaToken(),
		},
	}
}

func (s *Spotify) Platform() media.Platform { return media.MusicStreaming }

// trackData is the metadata mirror's response.
type trackData struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DurationMS int64  `json:"duration_ms"`
	Album      struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
}

// Resolve returns the track metadata, lyrics and a constructed download URL.
func (s *Spotify) Resolve(ctx context.Context, rawURL string) (*media.Result, error) {
	const op = "spotify: resolve"

	base := strings.TrimRight(s.cfg.Base, "/")
	auth, err := s.acquirer.Acquire(ctx, base)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]string{"spotify_url": rawURL})
	if err != nil {
		return nil, errs.E(errs.InvalidInput, op, err)
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("X-CSRF-TOKEN", auth.Token)
	header.Set("X-Requested-With", "XMLHttpRequest")
	header.Set("Referer", base+"/")
	if auth.Cookie != "" {
		header.Set("Cookie", auth.Cookie)
	}

	var track trackData
	if err := s.api.getJSON(ctx, "spotify: fetch track data", http.MethodPost, base+"/getTrackData", bytes.NewReader(payload), header, &track); err != nil {
		return nil, err
	}
	if track.ID == "" || track.Name == "" {
		return nil, errs.Errorf(errs.ParseFailure, op, "track data has no id or name")
	}
	if len(track.Artists) == 0 || track.Artists[0].Name == "" {
		return nil, errs.Errorf(errs.ParseFailure, op, "track %s has no artist", track.ID)
	}

	artist := track.Artists[0].Name
	result := &media.Result{
		Platform: media.MusicStreaming,
		Title:    track.Name,
		Duration: formatDuration(time.Duration(track.DurationMS) * time.Millisecond),
		Track: &media.Track{
			ID:     track.ID,
			Artist: artist,
			Lyrics: s.fetchLyrics(ctx, artist, track.Name),
		},
		Assets: []media.Asset{{
			Type:    media.Audio,
			URL:     s.downloadURL(track.ID, track.Name, artist),
			Quality: "320kbps",
			Format:  "mp3",
		}},
	}
	if len(track.Album.Images) > 0 {
		result.Thumbnail = track.Album.Images[0].URL
	}

	return finish(op, result, "Unknown Track")
}

// downloadURL templates the CDN path for a track.
func (s *Spotify) downloadURL(id, title, artist string) string {
	return fmt.Sprintf("%s/download/%s/track?name=%s&artist=%s",
		strings.TrimRight(s.cfg.CDNBase, "/"), url.PathEscape(id), encodeComponent(title), encodeComponent(artist))
}

// fetchLyrics looks lyrics up by artist and title slug. Failures are not
// fatal to the resolve; the placeholder text is returned instead.
func (s *Spotify) fetchLyrics(ctx context.Context, artist, title string) string {
	page := httputil.Slug(artist) + "-" + httputil.Slug(title) + "-lyrics"
	lyricsURL := httputil.BuildURL(s.cfg.LyricsBase, page)

	doc, err := s.lyrics.getDocument(ctx, "spotify: fetch lyrics", http.MethodGet, lyricsURL, nil, nil)
	if err != nil {
		slog.Debug("Lyrics unavailable", "url", lyricsURL, "err", err)
		return media.LyricsNotFound
	}
	return parseLyrics(doc)
}
