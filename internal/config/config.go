// Package config handles TOML-based configuration loading and validation.
// Values merge as defaults < config file < environment (.env included) <
// command-line flags, the last applied by cmd.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Duration is a time.Duration written as a string ("15s") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Spotify configures the music-streaming adapter.
type Spotify struct {
	Base            string `toml:"base"`
	LyricsBase      string `toml:"lyrics_base"`
	CDNBase         string `toml:"cdn_base"`
	UserAgent       string `toml:"user_agent"`
	LyricsUserAgent string `toml:"lyrics_user_agent"`
}

// YouTube configures the convert-and-poll video adapter.
type YouTube struct {
	API          string   `toml:"api"`
	Site         string   `toml:"site"`
	ThumbBase    string   `toml:"thumb_base"`
	UserAgent    string   `toml:"user_agent"`
	Formats      []string `toml:"formats"`
	PollInterval Duration `toml:"poll_interval"`
	MaxAttempts  int      `toml:"max_attempts"`
}

// TikTok configures the short-video aggregation API.
type TikTok struct {
	API       string `toml:"api"`
	UserAgent string `toml:"user_agent"`
}

// Aggregator configures an adapter that scrapes a mirror site.
type Aggregator struct {
	Base      string `toml:"base"`
	UserAgent string `toml:"user_agent"`
}

// Relay configures the streaming relay's client.
type Relay struct {
	UserAgent     string   `toml:"user_agent"`
	HeaderTimeout Duration `toml:"header_timeout"`
}

// Config holds all application configuration.
type Config struct {
	Addr           string   `toml:"addr"`
	LogLevel       string   `toml:"log_level"`
	Debug          bool     `toml:"debug"`
	ResolveTimeout Duration `toml:"resolve_timeout"`
	HTTPTimeout    Duration `toml:"http_timeout"`
	RelayTimeout   Duration `toml:"relay_timeout"`
	Retries        int      `toml:"retries"`
	AllowedOrigins []string `toml:"allowed_origins"`
	GzipLevel      int      `toml:"gzip_level"`
	History        bool     `toml:"history"`
	HistoryPath    string   `toml:"history_path"`
	DownloadDir    string   `toml:"download_dir"`

	Spotify   Spotify    `toml:"spotify"`
	YouTube   YouTube    `toml:"youtube"`
	TikTok    TikTok     `toml:"tiktok"`
	Instagram Aggregator `toml:"instagram"`
	Facebook  Aggregator `toml:"facebook"`
	Pinterest Aggregator `toml:"pinterest"`
	Relay     Relay      `toml:"relay"`
}

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36"

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Addr:           "localhost:8080",
		LogLevel:       "info",
		ResolveTimeout: Duration{60 * time.Second},
		HTTPTimeout:    Duration{20 * time.Second},
		RelayTimeout:   Duration{30 * time.Minute},
		Retries:        2,
		AllowedOrigins: []string{"*"},
		GzipLevel:      -1,
		History:        true,
		DownloadDir:    "~/Downloads/snaplink",

		Spotify: Spotify{
			Base:            "https://spotmate.online",
			LyricsBase:      "https://genius.com",
			CDNBase:         "https://cdn-spotify-247.zm.io.vn",
			UserAgent:       chromeUA,
			LyricsUserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		},
		YouTube: YouTube{
			API:          "https://api.ytmp3.gg",
			Site:         "https://ytmp3.gg",
			ThumbBase:    "https://i.ytimg.com",
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			Formats:      []string{"mp4", "mp3"},
			PollInterval: Duration{1500 * time.Millisecond},
			MaxAttempts:  15,
		},
		TikTok: TikTok{
			API:       "https://www.tikwm.com/api/",
			UserAgent: chromeUA,
		},
		Instagram: Aggregator{Base: "https://yt1s.io", UserAgent: "Postify/1.0.0"},
		Facebook:  Aggregator{Base: "https://getmyfb.com", UserAgent: chromeUA},
		Pinterest: Aggregator{Base: "https://pindown.cc", UserAgent: chromeUA},
		Relay: Relay{
			UserAgent:     chromeUA,
			HeaderTimeout: Duration{30 * time.Second},
		},
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "snaplink"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "snaplink"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at path (the XDG location when empty), then
// applies environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Unable to load .env file", "err", err)
	}

	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides file values with SNAPLINK_* variables and LOG_LEVEL.
func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *Duration) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		return dst.UnmarshalText([]byte(v))
	}

	str("SNAPLINK_ADDR", &c.Addr)
	str("LOG_LEVEL", &c.LogLevel)
	str("SNAPLINK_HISTORY_PATH", &c.HistoryPath)
	str("SNAPLINK_DOWNLOAD_DIR", &c.DownloadDir)

	for key, dst := range map[string]*Duration{
		"SNAPLINK_RESOLVE_TIMEOUT": &c.ResolveTimeout,
		"SNAPLINK_HTTP_TIMEOUT":    &c.HTTPTimeout,
		"SNAPLINK_RELAY_TIMEOUT":   &c.RelayTimeout,
	} {
		if err := dur(key, dst); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	if v, ok := os.LookupEnv("SNAPLINK_HISTORY"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SNAPLINK_HISTORY: %w", err)
		}
		c.History = b
	}
	if v, ok := os.LookupEnv("SNAPLINK_ALLOWED_ORIGINS"); ok && v != "" {
		c.AllowedOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("GZIP_MODE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GZIP_MODE: %w", err)
		}
		c.GzipLevel = n
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if c.Addr == "" {
		return fmt.Errorf("addr cannot be empty")
	}

	for name, d := range map[string]Duration{
		"resolve_timeout":       c.ResolveTimeout,
		"http_timeout":          c.HTTPTimeout,
		"relay_timeout":         c.RelayTimeout,
		"relay.header_timeout":  c.Relay.HeaderTimeout,
		"youtube.poll_interval": c.YouTube.PollInterval,
	} {
		if d.Duration <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d.Duration)
		}
	}

	if c.Retries < 0 {
		return fmt.Errorf("retries cannot be negative")
	}
	if c.GzipLevel < -1 || c.GzipLevel > 9 {
		return fmt.Errorf("gzip_level must be between -1 and 9, got %d", c.GzipLevel)
	}

	for name, endpoint := range map[string]string{
		"spotify.base":        c.Spotify.Base,
		"spotify.lyrics_base": c.Spotify.LyricsBase,
		"spotify.cdn_base":    c.Spotify.CDNBase,
		"youtube.api":         c.YouTube.API,
		"youtube.thumb_base":  c.YouTube.ThumbBase,
		"tiktok.api":          c.TikTok.API,
		"instagram.base":      c.Instagram.Base,
		"facebook.base":       c.Facebook.Base,
		"pinterest.base":      c.Pinterest.Base,
	} {
		if endpoint == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
	}

	if c.YouTube.MaxAttempts < 1 {
		return fmt.Errorf("youtube.max_attempts must be at least 1, got %d", c.YouTube.MaxAttempts)
	}
	if len(c.YouTube.Formats) == 0 {
		return fmt.Errorf("youtube.formats cannot be empty")
	}
	validFormats := map[string]bool{"mp4": true, "mp3": true, "wav": true}
	for _, f := range c.YouTube.Formats {
		if !validFormats[strings.ToLower(f)] {
			return fmt.Errorf("unsupported youtube format %q (valid: mp4, mp3, wav)", f)
		}
	}

	return nil
}

// SlogLevel parses LogLevel. Debug forces slog.LevelDebug.
func (c *Config) SlogLevel() (slog.Level, error) {
	if c.Debug {
		return slog.LevelDebug, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unsupported log level %q (valid: debug, info, warn, error)", c.LogLevel)
	}
	return level, nil
}

// ExpandDownloadDir resolves ~ in the download directory path.
func (c *Config) ExpandDownloadDir() (string, error) {
	dir := c.DownloadDir
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}

// ResolvedHistoryPath returns HistoryPath, or the XDG data location of the
// history database when it is unset.
func (c *Config) ResolvedHistoryPath() (string, error) {
	if c.HistoryPath != "" {
		return c.HistoryPath, nil
	}
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "snaplink", "history.db"), nil
}
