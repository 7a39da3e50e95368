// Package convert holds the quality fallback ladder and the conversion job
// poller shared by adapters whose upstream transcodes asynchronously.
package convert

import (
	"context"
	"fmt"
	"log/slog"

	"snaplink/internal/errs"
	"snaplink/internal/media"
)

// Tier preferences, best first.
var (
	VideoTiers = []int{1080, 720, 480, 360}
	AudioTiers = []int{320, 256, 128}
)

// TiersFor returns the ladder for a format.
func TiersFor(format string) []int {
	if IsAudioFormat(format) {
		return AudioTiers
	}
	return VideoTiers
}

// IsAudioFormat reports whether format is an audio container.
func IsAudioFormat(format string) bool {
	switch format {
	case "mp3", "m4a", "aac", "opus", "wav":
		return true
	}
	return false
}

// TierLabel renders a tier for display: "720p" for video, "320kbps" for audio.
func TierLabel(format string, tier int) string {
	if IsAudioFormat(format) {
		return fmt.Sprintf("%dkbps", tier)
	}
	return fmt.Sprintf("%dp", tier)
}

// Attempt tries to produce an asset at one tier.
type Attempt func(ctx context.Context, tier int) (media.Asset, error)

// ForEachTier walks tiers in order and returns the first usable asset.
// Non-fatal failures move on to the next tier; fatal ones stop the walk.
func ForEachTier(ctx context.Context, tiers []int, attempt Attempt) (media.Asset, error) {
	const op = "convert: ladder"

	var lastErr error
	for _, tier := range tiers {
		if err := ctx.Err(); err != nil {
			return media.Asset{}, errs.FromContext(op, err)
		}

		asset, err := attempt(ctx, tier)
		if err == nil && asset.URL == "" {
			err = errs.Errorf(errs.NoMediaFound, op, "tier %d produced no download URL", tier)
		}
		if err == nil {
			return asset, nil
		}
		if errs.Fatal(err) {
			return media.Asset{}, err
		}

		slog.Debug("Tier failed", "tier", tier, "kind", errs.KindOf(err), "err", err)
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no tiers to try")
	}
	return media.Asset{}, errs.E(errs.AllTiersExhausted, op, lastErr)
}
