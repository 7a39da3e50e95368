// Package platform maps input URLs to the platform that serves them.
package platform

import (
	"net/url"
	"strings"

	"snaplink/internal/errs"
	"snaplink/internal/media"
)

type rule struct {
	platform media.Platform
	hosts    []string // hostname substrings
}

// table is evaluated top to bottom; the first matching entry wins.
var table = []rule{
	{media.SocialPhotoVideo, []string{"instagram.com"}},
	{media.ShortVideo, []string{"tiktok.com"}},
	{media.SocialVideo, []string{"facebook.com", "fb.watch"}},
	{media.VideoHost, []string{"youtube.com", "youtu.be"}},
	{media.MusicStreaming, []string{"spotify.com"}},
	{media.PinBoard, []string{"pinterest.com", "pin.it"}},
}

// Classify returns the platform for rawURL. It performs no network access.
func Classify(rawURL string) (media.Platform, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return media.Unknown, errs.E(errs.InvalidInput, "classify", err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return media.Unknown, errs.Errorf(errs.InvalidInput, "classify", "URL %q has no host", rawURL)
	}

	for _, r := range table {
		for _, marker := range r.hosts {
			if strings.Contains(host, marker) {
				return r.platform, nil
			}
		}
		// Proxied track links carry the platform name in the path, not the host.
		if r.platform == media.MusicStreaming && isProxiedTrack(rawURL) {
			return media.MusicStreaming, nil
		}
	}

	return media.Unknown, errs.Errorf(errs.UnsupportedPlatform, "classify", "no platform matches host %q", host)
}

func isProxiedTrack(rawURL string) bool {
	return strings.Contains(rawURL, "spotify") && strings.Contains(rawURL, "googleusercontent")
}

// Platforms returns the supported platforms in table order.
func Platforms() []media.Platform {
	out := make([]media.Platform, 0, len(table))
	for _, r := range table {
		out = append(out, r.platform)
	}
	return out
}
