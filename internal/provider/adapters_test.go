package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"snaplink/internal/config"
	"snaplink/internal/errs"
	"snaplink/internal/httputil"
	"snaplink/internal/media"
)

func testClient() *http.Client {
	return httputil.NewClient(httputil.ClientOptions{Timeout: 5 * time.Second})
}

func readFixture(t *testing.T, filename string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + filename)
	if err != nil {
		t.Fatalf("reading test fixture %s: %v", filename, err)
	}
	return data
}

func noSleep(ctx context.Context, d time.Duration) error { return ctx.Err() }

func TestSpotifyResolve(t *testing.T) {
	lyrics := readFixture(t, "lyrics.html")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "XSRF-TOKEN=x1; Path=/")
		w.Header().Add("Set-Cookie", "spotmate_session=s1; HttpOnly")
		w.Write([]byte(`<html><head><meta name="csrf-token" content="tok-123"></head><body></body></html>`))
	})
	mux.HandleFunc("POST /getTrackData", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-CSRF-TOKEN") != "tok-123" {
			http.Error(w, "csrf mismatch", http.StatusForbidden)
			return
		}
		if r.Header.Get("Cookie") != "XSRF-TOKEN=x1; spotmate_session=s1" {
			http.Error(w, "cookie mismatch", http.StatusForbidden)
			return
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["spotify_url"] == "" {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Song","id":"abc","album":{"images":[{"url":"http://img"}]},"duration_ms":245000,"artists":[{"name":"Artist"}]}`))
	})
	mux.HandleFunc("GET /lyrics/artist-song-lyrics", func(w http.ResponseWriter, r *http.Request) {
		w.Write(lyrics)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := config.Default().Spotify
	cfg.Base = srv.URL
	cfg.LyricsBase = srv.URL + "/lyrics"
	cfg.CDNBase = "https://cdn.test"

	result, err := NewSpotify(cfg, testClient()).Resolve(context.Background(), "https://open.spotify.com/track/abc")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	shape := media.Shape(result).(media.MusicShape)
	if shape.Metadata.Title != "Song" || shape.Metadata.Artist != "Artist" {
		t.Errorf("metadata = %+v", shape.Metadata)
	}
	if shape.Metadata.Duration != "04:05" {
		t.Errorf("duration = %q, want 04:05", shape.Metadata.Duration)
	}
	if shape.Metadata.Images != "http://img" {
		t.Errorf("images = %q", shape.Metadata.Images)
	}
	if shape.Download != "https://cdn.test/download/abc/track?name=Song&artist=Artist" {
		t.Errorf("download = %q", shape.Download)
	}
	if !strings.HasPrefix(shape.Metadata.Lyrics, "[Verse 1]\nFirst line & more") {
		t.Errorf("lyrics = %q", shape.Metadata.Lyrics)
	}
	if len(result.Assets) != 1 || result.Assets[0].Quality != "320kbps" {
		t.Errorf("assets = %+v", result.Assets)
	}
}

func TestSpotifyLyricsFailureIsNotFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<meta name="csrf-token" content="t">`))
	})
	mux.HandleFunc("POST /getTrackData", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Rock & Roll","id":"t1","album":{"images":[]},"duration_ms":61000,"artists":[{"name":"Some Band"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := config.Default().Spotify
	cfg.Base = srv.URL
	cfg.LyricsBase = srv.URL + "/missing"
	cfg.CDNBase = "https://cdn.test"

	result, err := NewSpotify(cfg, testClient()).Resolve(context.Background(), "https://open.spotify.com/track/t1")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if result.Track.Lyrics != "Lyrics not found" {
		t.Errorf("lyrics = %q", result.Track.Lyrics)
	}
	if result.Duration != "01:01" {
		t.Errorf("duration = %q", result.Duration)
	}
	if want := "https://cdn.test/download/t1/track?name=Rock%20%26%20Roll&artist=Some%20Band"; result.Assets[0].URL != want {
		t.Errorf("download = %q, want %q", result.Assets[0].URL, want)
	}
}

func TestSpotifyTokenNotFound(t *testing.T) {
	var metadataCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>new layout</title></head></html>`))
	})
	mux.HandleFunc("POST /getTrackData", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&metadataCalls, 1)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := config.Default().Spotify
	cfg.Base = srv.URL

	_, err := NewSpotify(cfg, testClient()).Resolve(context.Background(), "https://open.spotify.com/track/abc")
	if !errors.Is(err, errs.ErrTokenNotFound) {
		t.Fatalf("error = %v, want TokenNotFound", err)
	}
	if atomic.LoadInt32(&metadataCalls) != 0 {
		t.Error("metadata endpoint must not be called without a token")
	}
}

func TestSpotifyMetadataError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<meta name="csrf-token" content="t">`))
	})
	mux.HandleFunc("POST /getTrackData", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnprocessableEntity)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := config.Default().Spotify
	cfg.Base = srv.URL

	_, err := NewSpotify(cfg, testClient()).Resolve(context.Background(), "https://open.spotify.com/track/abc")
	if !errors.Is(err, errs.ErrUpstreamUnavailable) {
		t.Fatalf("error = %v, want UpstreamUnavailable", err)
	}
}

// fakeConverter serves the convert/status API. Tiers listed in failTiers end
// in a failed job; others complete after pollsToDone status checks.
type fakeConverter struct {
	failTiers   map[string]bool
	pollsToDone int

	mu        sync.Mutex
	polls     map[string]int
	submits   []string
	userAgent string
	origin    string
	referer   string
}

func (f *fakeConverter) handler() http.Handler {
	f.polls = map[string]int{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/convert", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f.mu.Lock()
		f.submits = append(f.submits, q.Get("f")+"@"+q.Get("q"))
		f.userAgent = r.Header.Get("User-Agent")
		f.origin = r.Header.Get("Origin")
		f.referer = r.Header.Get("Referer")
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]string{
			"jobId": q.Get("f") + "-" + q.Get("q"),
			"title": "Clip",
		})
	})
	mux.HandleFunc("GET /v1/status", func(w http.ResponseWriter, r *http.Request) {
		job := r.URL.Query().Get("jobId")
		tier := job[strings.Index(job, "-")+1:]

		f.mu.Lock()
		f.polls[job]++
		n := f.polls[job]
		f.mu.Unlock()

		switch {
		case f.failTiers[tier]:
			json.NewEncoder(w).Encode(map[string]any{"status": "failed", "progress": 0})
		case n < f.pollsToDone:
			json.NewEncoder(w).Encode(map[string]any{"status": "processing", "progress": n * 40})
		default:
			json.NewEncoder(w).Encode(map[string]any{"status": "completed", "progress": 100, "downloadUrl": "https://dl.test/" + job})
		}
	})
	return mux
}

func newTestYouTube(api string, formats ...string) *YouTube {
	cfg := config.Default().YouTube
	cfg.API = api
	cfg.Site = "https://ytmp3.gg/en/"
	cfg.Formats = formats
	y := NewYouTube(cfg, testClient())
	y.poller.Sleep = noSleep
	return y
}

func TestYouTubeFallsBackToNextTier(t *testing.T) {
	fake := &fakeConverter{failTiers: map[string]bool{"1080": true}, pollsToDone: 2}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	result, err := newTestYouTube(srv.URL, "mp4").Resolve(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(result.Assets) != 1 {
		t.Fatalf("assets = %+v", result.Assets)
	}
	if result.Assets[0].Quality != "720p" {
		t.Errorf("quality = %q, want 720p", result.Assets[0].Quality)
	}
	if result.Assets[0].URL != "https://dl.test/mp4-720" {
		t.Errorf("url = %q", result.Assets[0].URL)
	}
	if fake.polls["mp4-720"] != 2 {
		t.Errorf("polls at 720 = %d, want 2", fake.polls["mp4-720"])
	}
	if len(fake.submits) != 2 {
		t.Errorf("submits = %v, want 1080 then 720 only", fake.submits)
	}
	if result.Title != "Clip" {
		t.Errorf("title = %q", result.Title)
	}
	if !strings.HasSuffix(result.Thumbnail, "/vi/dQw4w9WgXcQ/hqdefault.jpg") {
		t.Errorf("thumbnail = %q", result.Thumbnail)
	}
}

func TestYouTubeVideoAndAudio(t *testing.T) {
	fake := &fakeConverter{pollsToDone: 1}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	result, err := newTestYouTube(srv.URL, "mp4", "mp3").Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(result.Assets) != 2 {
		t.Fatalf("assets = %+v", result.Assets)
	}
	if a := result.Assets[0]; a.Type != media.Video || a.Quality != "1080p" || a.Format != "mp4" {
		t.Errorf("video asset = %+v", a)
	}
	if a := result.Assets[1]; a.Type != media.Audio || a.Quality != "320kbps" || a.Format != "mp3" {
		t.Errorf("audio asset = %+v", a)
	}
	if fake.userAgent != config.Default().YouTube.UserAgent {
		t.Errorf("user agent = %q", fake.userAgent)
	}
	if fake.origin != "https://ytmp3.gg" || fake.referer != "https://ytmp3.gg/en/" {
		t.Errorf("origin = %q, referer = %q", fake.origin, fake.referer)
	}
}

func TestYouTubeAllTiersExhausted(t *testing.T) {
	fake := &fakeConverter{failTiers: map[string]bool{"320": true, "256": true, "128": true}, pollsToDone: 1}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	_, err := newTestYouTube(srv.URL, "mp4", "mp3").Resolve(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if !errors.Is(err, errs.ErrAllTiersExhausted) {
		t.Fatalf("error = %v, want AllTiersExhausted", err)
	}
}

func TestYouTubePollBudgetPerTier(t *testing.T) {
	// never completes: each tier times out and the ladder exhausts
	fake := &fakeConverter{pollsToDone: 1000}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	y := newTestYouTube(srv.URL, "mp3")
	y.poller.MaxAttempts = 3

	_, err := y.Resolve(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if !errors.Is(err, errs.ErrAllTiersExhausted) {
		t.Fatalf("error = %v, want AllTiersExhausted", err)
	}
	if !errors.Is(err, errs.ErrTimedOut) {
		t.Errorf("last tier error should be TimedOut, got %v", err)
	}
	for _, job := range []string{"mp3-320", "mp3-256", "mp3-128"} {
		if fake.polls[job] != 3 {
			t.Errorf("polls[%s] = %d, want 3", job, fake.polls[job])
		}
	}
}

func TestYouTubeInvalidID(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	_, err := newTestYouTube(srv.URL, "mp4").Resolve(context.Background(), "https://www.youtube.com/feed/trending")
	if !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("error = %v, want InvalidInput", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("no upstream call expected for an invalid id")
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/abcdefghijk", "abcdefghijk"},
		{"https://www.youtube.com/", ""},
	}
	for _, tt := range tests {
		if got := extractVideoID(tt.url); got != tt.want {
			t.Errorf("extractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func tiktokServer(t *testing.T, fixture string) *httptest.Server {
	t.Helper()
	body := readFixture(t, fixture)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("url") == "" || r.URL.Query().Get("hd") != "1" {
			http.Error(w, "missing params", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
}

func TestTikTokVideo(t *testing.T) {
	srv := tiktokServer(t, "tiktok_video.json")
	defer srv.Close()

	result, err := NewTikTok(config.TikTok{API: srv.URL + "/api/"}, testClient()).Resolve(context.Background(), "https://www.tiktok.com/@dancer.one/video/7300000000000000001")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if result.Title != "Morning routine" {
		t.Errorf("title = %q", result.Title)
	}
	if result.Duration != "01:15" || result.Posted != "2023-11-14 22:13" {
		t.Errorf("duration/posted = %q/%q", result.Duration, result.Posted)
	}

	wantTypes := []media.AssetType{media.Unwatermarked, media.Watermarked, media.Audio}
	if len(result.Assets) != len(wantTypes) {
		t.Fatalf("assets = %+v", result.Assets)
	}
	for i, typ := range wantTypes {
		if result.Assets[i].Type != typ {
			t.Errorf("asset[%d].Type = %s, want %s", i, result.Assets[i].Type, typ)
		}
	}
	if want := srv.URL + "/video/media/play/7300000000000000001.mp4"; result.Assets[0].URL != want {
		t.Errorf("relative play URL resolved to %q, want %q", result.Assets[0].URL, want)
	}

	s := result.Stats
	if s.Views != "1.2M" || s.Likes != "98.7K" || s.Comments != "999" || s.Shares != "1K" || s.Downloads != "2.5B" {
		t.Errorf("stats = %+v", s)
	}

	shape := media.Shape(result).(media.ShortVideoShape)
	if shape.Author.UniqueID != "dancer.one" || shape.Author.Fullname != "dancer.one" {
		t.Errorf("author = %+v", shape.Author)
	}
	if shape.Data[0].Type != "nowatermark" || shape.Data[1].Type != "watermark" {
		t.Errorf("data types = %q, %q", shape.Data[0].Type, shape.Data[1].Type)
	}
}

func TestTikTokImagesArePhotosOnly(t *testing.T) {
	srv := tiktokServer(t, "tiktok_images.json")
	defer srv.Close()

	result, err := NewTikTok(config.TikTok{API: srv.URL + "/api/"}, testClient()).Resolve(context.Background(), "https://www.tiktok.com/@photog/photo/7300000000000000002")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(result.Assets) != 3 {
		t.Fatalf("expected one asset per image, got %d", len(result.Assets))
	}
	for i, a := range result.Assets {
		if a.Type != media.Photo {
			t.Errorf("asset[%d].Type = %s, want photo", i, a.Type)
		}
	}
}

func TestTikTokAPIError(t *testing.T) {
	srv := tiktokServer(t, "tiktok_error.json")
	defer srv.Close()

	_, err := NewTikTok(config.TikTok{API: srv.URL + "/api/"}, testClient()).Resolve(context.Background(), "https://www.tiktok.com/@x/video/1")
	if !errors.Is(err, errs.ErrParseFailure) {
		t.Fatalf("error = %v, want ParseFailure", err)
	}
}

func instagramServer(t *testing.T, status, fragment string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "sid=ig1; Path=/")
	})
	mux.HandleFunc("POST /api/ajaxSearch", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "Postify/1.0.0" || r.Header.Get("Cookie") != "sid=ig1" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("q") == "" || r.PostForm.Get("p") != "home" {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": status, "data": fragment, "mess": "upstream said no"})
	})
	return httptest.NewServer(mux)
}

func TestInstagramResolve(t *testing.T) {
	srv := instagramServer(t, "ok", string(readFixture(t, "instagram_result.html")))
	defer srv.Close()

	cfg := config.Aggregator{Base: srv.URL, UserAgent: "Postify/1.0.0"}
	result, err := NewInstagram(cfg, testClient()).Resolve(context.Background(), "https://www.instagram.com/p/Cxyz/")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if result.Title != "Instagram Media" {
		t.Errorf("title = %q", result.Title)
	}

	items := media.Shape(result).([]media.FlatItem)
	if len(items) != 3 {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Type != "video" || items[1].Type != "photo" || items[2].Type != "photo" {
		t.Errorf("types = %s, %s, %s", items[0].Type, items[1].Type, items[2].Type)
	}
	if items[0].Title != "Download Video" || items[1].Title != "Download Photo" {
		t.Errorf("titles = %q, %q", items[0].Title, items[1].Title)
	}
}

func TestInstagramStatusNotOK(t *testing.T) {
	srv := instagramServer(t, "error", "")
	defer srv.Close()

	cfg := config.Aggregator{Base: srv.URL, UserAgent: "Postify/1.0.0"}
	_, err := NewInstagram(cfg, testClient()).Resolve(context.Background(), "https://www.instagram.com/p/Cxyz/")
	if !errors.Is(err, errs.ErrParseFailure) {
		t.Fatalf("error = %v, want ParseFailure", err)
	}
}

func TestInstagramNoLinks(t *testing.T) {
	srv := instagramServer(t, "ok", `<div class="download-items"></div>`)
	defer srv.Close()

	cfg := config.Aggregator{Base: srv.URL, UserAgent: "Postify/1.0.0"}
	_, err := NewInstagram(cfg, testClient()).Resolve(context.Background(), "https://www.instagram.com/p/Cxyz/")
	if !errors.Is(err, errs.ErrNoMediaFound) {
		t.Fatalf("error = %v, want NoMediaFound", err)
	}
}

func facebookServer(t *testing.T, fixture, wantID string) *httptest.Server {
	t.Helper()
	body := readFixture(t, fixture)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "locale=en")
	})
	mux.HandleFunc("POST /process", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Hx-Request") != "true" || r.Header.Get("Hx-Target") != "#target" {
			http.Error(w, "not htmx", http.StatusBadRequest)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("id") != wantID {
			http.Error(w, "bad id "+r.PostForm.Get("id"), http.StatusBadRequest)
			return
		}
		w.Write(body)
	})
	return httptest.NewServer(mux)
}

func TestFacebookResolve(t *testing.T) {
	srv := facebookServer(t, "facebook_process.html", "https://www.facebook.com/watch?v=123")
	defer srv.Close()

	cfg := config.Aggregator{Base: srv.URL}
	result, err := NewFacebook(cfg, testClient()).Resolve(context.Background(), "https%3A%2F%2Fwww.facebook.com%2Fwatch%3Fv%3D123")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	shape := media.Shape(result).(media.ResultsShape)
	if shape.Caption != "Sunset timelapse from the roof" {
		t.Errorf("caption = %q", shape.Caption)
	}
	if len(shape.Results) != 2 || shape.Results[0].Quality != "HD" || shape.Results[0].Type != "mp4" {
		t.Errorf("results = %+v", shape.Results)
	}
}

func TestFacebookSubmitsURLUnchanged(t *testing.T) {
	for _, in := range []string{
		"https://www.facebook.com/watch/?v=1&ref=a+b",
		"https://fb.watch/abc+def/",
	} {
		srv := facebookServer(t, "facebook_process.html", in)
		_, err := NewFacebook(config.Aggregator{Base: srv.URL}, testClient()).Resolve(context.Background(), in)
		srv.Close()
		if err != nil {
			t.Errorf("Resolve(%q) error: %v", in, err)
		}
	}
}

func TestFacebookNoMedia(t *testing.T) {
	srv := facebookServer(t, "facebook_empty.html", "https://www.facebook.com/watch?v=123")
	defer srv.Close()

	cfg := config.Aggregator{Base: srv.URL}
	_, err := NewFacebook(cfg, testClient()).Resolve(context.Background(), "https://www.facebook.com/watch?v=123")
	if !errors.Is(err, errs.ErrNoMediaFound) {
		t.Fatalf("error = %v, want NoMediaFound", err)
	}
}

func TestPinterestResolve(t *testing.T) {
	landing := readFixture(t, "pinterest_landing.html")
	result := readFixture(t, "pinterest_download.html")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /en/{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "session=pd1; Path=/; HttpOnly")
		w.Write(landing)
	})
	mux.HandleFunc("POST /en/download", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("csrf_token") != "pin-csrf-42" {
			http.Error(w, "csrf", http.StatusForbidden)
			return
		}
		if r.Header.Get("Cookie") != "session=pd1" || !strings.HasSuffix(r.Header.Get("Referer"), "/en/") {
			http.Error(w, "session", http.StatusForbidden)
			return
		}
		w.Write(result)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res, err := NewPinterest(config.Aggregator{Base: srv.URL}, testClient()).Resolve(context.Background(), "https://pin.it/abc")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	shape := media.Shape(res).(media.MediasShape)
	if shape.Title != "Cozy reading nook ideas" {
		t.Errorf("title = %q", shape.Title)
	}
	if len(shape.Medias) != 2 || shape.Medias[0].Type != "video" || shape.Medias[1].Type != "image" {
		t.Errorf("medias = %+v", shape.Medias)
	}
}

func TestPinterestLandingDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewPinterest(config.Aggregator{Base: srv.URL}, testClient()).Resolve(context.Background(), "https://pin.it/abc")
	if !errors.Is(err, errs.ErrUpstreamUnavailable) {
		t.Fatalf("error = %v, want UpstreamUnavailable", err)
	}
}

func TestNewSetCoversEveryPlatform(t *testing.T) {
	set := NewSet(config.Default(), testClient())
	for _, p := range []media.Platform{
		media.MusicStreaming, media.VideoHost, media.ShortVideo,
		media.SocialPhotoVideo, media.SocialVideo, media.PinBoard,
	} {
		prov, err := set.For(p)
		if err != nil {
			t.Errorf("For(%s) error: %v", p, err)
			continue
		}
		if prov.Platform() != p {
			t.Errorf("For(%s) returned adapter for %s", p, prov.Platform())
		}
	}
	if _, err := set.For(media.Unknown); !errors.Is(err, errs.ErrUnsupportedPlatform) {
		t.Errorf("For(Unknown) error = %v, want UnsupportedPlatform", err)
	}
}
