package provider

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"snaplink/internal/media"
)

func loadTestDoc(t *testing.T, filename string) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile("testdata/" + filename)
	if err != nil {
		t.Fatalf("reading test fixture %s: %v", filename, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("parsing test fixture %s: %v", filename, err)
	}
	return doc
}

func TestParseLyrics(t *testing.T) {
	doc := loadTestDoc(t, "lyrics.html")
	got := parseLyrics(doc)

	want := strings.Join([]string{
		"[Verse 1]",
		"First line & more",
		"Second line it's here",
		"Third line",
		"[Chorus]",
		"Fourth line",
		"Fifth line; with a semicolon",
	}, "\n")
	if got != want {
		t.Errorf("parseLyrics() =\n%s\nwant\n%s", got, want)
	}
	if strings.Contains(got, "Contributors") {
		t.Error("excluded header leaked into lyrics")
	}
	if strings.Contains(got, "Advertisement") {
		t.Error("text outside lyric containers leaked into lyrics")
	}
}

func TestParseLyricsMissing(t *testing.T) {
	doc := loadTestDoc(t, "lyrics_missing.html")
	if got := parseLyrics(doc); got != "Lyrics not found" {
		t.Errorf("parseLyrics() = %q, want placeholder", got)
	}
}

func TestParseInstagramLinks(t *testing.T) {
	doc := loadTestDoc(t, "instagram_result.html")
	assets := parseInstagramLinks(doc)

	if len(assets) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(assets))
	}

	want := []struct {
		typ    media.AssetType
		format string
	}{
		{media.Video, "mp4"},
		{media.Photo, "webp"},
		{media.Photo, "jpg"}, // titled thumbnail, extensionless href
	}
	for i, w := range want {
		if assets[i].Type != w.typ || assets[i].Format != w.format {
			t.Errorf("asset[%d] = %s/%s, want %s/%s", i, assets[i].Type, assets[i].Format, w.typ, w.format)
		}
		if assets[i].Quality != "Auto" {
			t.Errorf("asset[%d].Quality = %q, want Auto", i, assets[i].Quality)
		}
	}
	if assets[0].URL != "https://rapidcdn.example/v/AQN1.mp4?dl=1" {
		t.Errorf("asset[0].URL = %q", assets[0].URL)
	}
	for i, title := range []string{"Download Video", "Download Photo", "Download Thumbnail"} {
		if assets[i].Title != title {
			t.Errorf("asset[%d].Title = %q, want %q", i, assets[i].Title, title)
		}
	}
}

func TestParseFacebookResults(t *testing.T) {
	doc := loadTestDoc(t, "facebook_process.html")
	caption, thumb, assets := parseFacebookResults(doc)

	if caption != "Sunset timelapse from the roof" {
		t.Errorf("caption = %q", caption)
	}
	if thumb != "https://scontent.example/thumb.jpg" {
		t.Errorf("thumbnail = %q", thumb)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	if assets[0].Quality != "HD" || assets[0].URL != "https://video.example/hd.mp4?dl=1" {
		t.Errorf("asset[0] = %+v", assets[0])
	}
	if assets[1].Quality != "SD" {
		t.Errorf("asset[1].Quality = %q, want SD", assets[1].Quality)
	}
	for _, a := range assets {
		if a.Format != "mp4" || a.Type != media.Video {
			t.Errorf("asset %+v should be an mp4 video", a)
		}
	}
}

func TestParseFacebookResultsEmpty(t *testing.T) {
	doc := loadTestDoc(t, "facebook_empty.html")
	_, _, assets := parseFacebookResults(doc)
	if len(assets) != 0 {
		t.Errorf("expected no assets, got %d", len(assets))
	}
}

func TestParsePinterestResults(t *testing.T) {
	doc := loadTestDoc(t, "pinterest_download.html")
	title, thumb, assets := parsePinterestResults(doc)

	if title != "Cozy reading nook ideas" {
		t.Errorf("title = %q", title)
	}
	if thumb != "https://i.pinimg.example/236x/ab/cd/ef.jpg" {
		t.Errorf("thumbnail = %q", thumb)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	if assets[0].Type != media.Video || assets[0].Format != "mp4" {
		t.Errorf("asset[0] = %+v, want mp4 video", assets[0])
	}
	if assets[1].Type != media.Photo || assets[1].Format != "jpg" {
		t.Errorf("asset[1] = %+v, want jpg photo", assets[1])
	}
}

func TestClassifyLink(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		title string
		href  string
		want  media.AssetType
	}{
		{"photo text", "Download Photo", "", "https://cdn/x", media.Photo},
		{"image text", "Save IMAGE", "", "https://cdn/x", media.Photo},
		{"thumbnail title", "Download", "Download Thumbnail", "https://cdn/x", media.Photo},
		{"jpg href", "Download", "", "https://cdn/a.JPG?x=1", media.Photo},
		{"webp href", "Download", "", "https://cdn/a.webp", media.Photo},
		{"audio text", "Download Audio", "", "https://cdn/x", media.Audio},
		{"mp3 title", "Download", "MP3 320", "https://cdn/x", media.Audio},
		{"m4a href", "Download", "", "https://cdn/a.m4a", media.Audio},
		{"photo beats audio", "Photo + audio", "", "https://cdn/x", media.Photo},
		{"plain video", "Download Video", "Download Video", "https://cdn/v.mp4", media.Video},
		{"unknown defaults to video", "Download", "", "https://cdn/token", media.Video},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyLink(tt.text, tt.title, tt.href); got != tt.want {
				t.Errorf("ClassifyLink(%q, %q, %q) = %s, want %s", tt.text, tt.title, tt.href, got, tt.want)
			}
		})
	}
}

func TestLinkExtension(t *testing.T) {
	tests := []struct {
		href string
		typ  media.AssetType
		want string
	}{
		{"https://cdn/a.MP4?sig=1", media.Video, "mp4"},
		{"https://cdn/a.jpeg", media.Photo, "jpeg"},
		{"https://cdn/download?id=9", media.Photo, "jpg"},
		{"https://cdn/download?id=9", media.Audio, "mp3"},
		{"https://cdn/download.php", media.Video, "mp4"},
	}
	for _, tt := range tests {
		if got := LinkExtension(tt.href, tt.typ); got != tt.want {
			t.Errorf("LinkExtension(%q, %s) = %q, want %q", tt.href, tt.typ, got, tt.want)
		}
	}
}
