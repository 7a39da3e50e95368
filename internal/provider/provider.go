// Package provider defines the interface for platform adapters and their
// implementations.
package provider

import (
	"context"
	"net/http"

	"snaplink/internal/config"
	"snaplink/internal/errs"
	"snaplink/internal/media"
)

// Provider is the interface that platform adapters must implement.
type Provider interface {
	// Platform returns the platform this adapter serves.
	Platform() media.Platform

	// Resolve turns a content URL into downloadable assets. Errors are
	// *errs.Error values, apart from context cancellation which is
	// returned as is.
	Resolve(ctx context.Context, rawURL string) (*media.Result, error)
}

// Set maps each platform to its adapter.
type Set map[media.Platform]Provider

// NewSet builds every adapter from cfg, sharing one HTTP client.
func NewSet(cfg *config.Config, client *http.Client) Set {
	set := Set{}
	for _, p := range []Provider{
		NewSpotify(cfg.Spotify, client),
		NewYouTube(cfg.YouTube, client),
		NewTikTok(cfg.TikTok, client),
		NewInstagram(cfg.Instagram, client),
		NewFacebook(cfg.Facebook, client),
		NewPinterest(cfg.Pinterest, client),
	} {
		set[p.Platform()] = p
	}
	return set
}

// For returns the adapter for platform.
func (s Set) For(platform media.Platform) (Provider, error) {
	p, ok := s[platform]
	if !ok {
		return nil, errs.Errorf(errs.UnsupportedPlatform, "provider", "no adapter for %s", platform)
	}
	return p, nil
}
