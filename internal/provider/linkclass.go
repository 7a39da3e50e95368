package provider

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"snaplink/internal/media"
)

// Scraped links carry no reliable type field, so the type is guessed from the
// anchor text, its title attribute and the href. Keep the tables in step with
// the fixtures under testdata/.
var (
	photoWords = []string{"photo", "image"}
	photoTitle = []string{"thumbnail", "photo", "image"}
	audioWords = []string{"audio", "mp3"}

	photoExt = regexp.MustCompile(`(?i)\.(jpeg|jpg|png|webp)`)
	audioExt = regexp.MustCompile(`(?i)\.(mp3|m4a)`)
)

// ClassifyLink infers the asset type of a scraped link. Photo wins over
// audio, and anything unrecognised is video.
func ClassifyLink(text, title, href string) media.AssetType {
	text = strings.ToLower(text)
	title = strings.ToLower(title)

	if containsAny(text, photoWords) || containsAny(title, photoTitle) || photoExt.MatchString(href) {
		return media.Photo
	}
	if containsAny(text, audioWords) || containsAny(title, audioWords) || audioExt.MatchString(href) {
		return media.Audio
	}
	return media.Video
}

var knownExt = map[string]bool{
	"mp4": true, "webm": true, "mov": true, "mkv": true,
	"mp3": true, "m4a": true, "wav": true,
	"jpg": true, "jpeg": true, "png": true, "webp": true, "gif": true,
}

// LinkExtension returns the file extension of href when it names a known
// media type, otherwise the default extension for t.
func LinkExtension(href string, t media.AssetType) string {
	if u, err := url.Parse(href); err == nil {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
		if knownExt[ext] {
			return ext
		}
	}
	switch t {
	case media.Photo:
		return "jpg"
	case media.Audio:
		return "mp3"
	default:
		return "mp4"
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
