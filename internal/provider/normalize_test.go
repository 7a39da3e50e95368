package provider

import (
	"errors"
	"testing"
	"time"

	"snaplink/internal/errs"
	"snaplink/internal/media"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{245 * time.Second, "04:05"},
		{0, "00:00"},
		{59*time.Second + 999*time.Millisecond, "00:59"},
		{75 * time.Minute, "75:00"},
		{-time.Second, "00:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1K"},
		{1234, "1.2K"},
		{999_999, "999.9K"},
		{3_456_789, "3.4M"},
		{1_100_000_000, "1.1B"},
	}
	for _, tt := range tests {
		if got := formatCount(tt.in); got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := formatTimestamp(1700000000); got != "2023-11-14 22:13" {
		t.Errorf("formatTimestamp() = %q", got)
	}
	if got := formatTimestamp(0); got != "" {
		t.Errorf("formatTimestamp(0) = %q, want empty", got)
	}
}

func TestFinish(t *testing.T) {
	r := &media.Result{Assets: []media.Asset{{URL: ""}, {URL: "https://cdn/a.mp4"}, {URL: "  "}}}
	got, err := finish("test", r, "Fallback")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Assets) != 1 {
		t.Errorf("assets = %d, want 1", len(got.Assets))
	}
	if got.Title != "Fallback" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestFinishNoAssets(t *testing.T) {
	_, err := finish("test", &media.Result{Title: "x", Assets: []media.Asset{{URL: ""}}}, "Fallback")
	if !errors.Is(err, errs.ErrNoMediaFound) {
		t.Fatalf("error = %v, want NoMediaFound", err)
	}
}

func TestEncodeComponent(t *testing.T) {
	if got := encodeComponent("Rock & Roll"); got != "Rock%20%26%20Roll" {
		t.Errorf("encodeComponent() = %q", got)
	}
}
