// Package download saves a resolved asset to disk. Bytes come through the
// relay client and output paths are validated against directory traversal.
package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"snaplink/internal/httputil"
	"snaplink/internal/media"
	"snaplink/internal/relay"
)

// ProgressFunc receives the bytes written so far and the expected total
// (-1 when the upstream did not send a length).
type ProgressFunc func(written, total int64)

// Options configures Save.
type Options struct {
	Dir      string
	Progress ProgressFunc
}

// Filename builds a file name for asset a of result r, e.g.
// "Song Title (320kbps).mp3".
func Filename(r *media.Result, a media.Asset) string {
	name := strings.TrimSpace(r.Title)
	if name == "" {
		name = r.Platform.String()
	}
	if a.Quality != "" {
		name = fmt.Sprintf("%s (%s)", name, a.Quality)
	}
	return httputil.SanitizeFilename(name + "." + extension(a))
}

func extension(a media.Asset) string {
	if a.Format != "" {
		return strings.ToLower(a.Format)
	}
	switch a.Type {
	case media.Audio:
		return "mp3"
	case media.Photo:
		return "jpg"
	default:
		return "mp4"
	}
}

// Save streams asset a into opts.Dir and returns the written path. The file
// only appears under its final name once every byte has arrived.
func Save(ctx context.Context, rl *relay.Relay, r *media.Result, a media.Asset, opts Options) (string, error) {
	absDir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	outputPath, err := httputil.SafeDownloadPath(absDir, Filename(r, a))
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}

	stream, err := rl.Open(ctx, a.URL)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	partPath := outputPath + ".part"
	f, err := os.Create(partPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", partPath, err)
	}

	w := &progressWriter{w: f, total: stream.ContentLength, fn: opts.Progress}
	n, copyErr := relay.Copy(w, stream.Body)
	closeErr := f.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr == nil && stream.ContentLength >= 0 && n != stream.ContentLength {
		copyErr = fmt.Errorf("short download: got %d of %d bytes", n, stream.ContentLength)
	}
	if copyErr != nil {
		os.Remove(partPath)
		return "", fmt.Errorf("downloading %s: %w", filepath.Base(outputPath), copyErr)
	}

	if err := os.Rename(partPath, outputPath); err != nil {
		os.Remove(partPath)
		return "", fmt.Errorf("finalizing download: %w", err)
	}
	slog.Debug("Saved asset", "path", outputPath, "bytes", n)

	if Taggable(r, outputPath) {
		if err := Tag(outputPath, r); err != nil {
			slog.Warn("Tagging failed", "path", outputPath, "err", err)
		}
	}
	return outputPath, nil
}

type progressWriter struct {
	w       *os.File
	written int64
	total   int64
	fn      ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	if p.fn != nil {
		p.fn(p.written, p.total)
	}
	return n, err
}
