// Package media defines shared types for snaplink.
package media

// Platform identifies which upstream a URL belongs to.
type Platform int

const (
	Unknown Platform = iota
	MusicStreaming
	VideoHost
	ShortVideo
	SocialPhotoVideo
	SocialVideo
	PinBoard
)

func (p Platform) String() string {
	switch p {
	case MusicStreaming:
		return "music"
	case VideoHost:
		return "videohost"
	case ShortVideo:
		return "shortvideo"
	case SocialPhotoVideo:
		return "socialphotovideo"
	case SocialVideo:
		return "socialvideo"
	case PinBoard:
		return "pinboard"
	default:
		return "unknown"
	}
}

// AssetType describes what a downloadable asset contains.
type AssetType string

const (
	Video         AssetType = "video"
	Audio         AssetType = "audio"
	Photo         AssetType = "photo"
	Watermarked   AssetType = "watermarked"
	Unwatermarked AssetType = "unwatermarked"
)

// Asset is a single downloadable file.
type Asset struct {
	// Title is a per-asset label when the upstream provides one.
	Title   string
	Type    AssetType
	URL     string
	Quality string // e.g. "720p", "320kbps", "HD", "Auto"
	Format  string // file extension without dot, e.g. "mp4"
}

// Result is the normalized outcome of resolving one URL.
// Assets is never empty on success.
type Result struct {
	Platform  Platform
	Title     string
	Thumbnail string
	Duration  string // display form, "mm:ss"
	Assets    []Asset

	// Platform-specific metadata; nil when not applicable.
	Track  *Track
	Author *Author
	Stats  *Stats
	Posted string // display timestamp
}

// LyricsNotFound stands in for lyrics that could not be fetched.
const LyricsNotFound = "Lyrics not found"

// Track holds music metadata.
type Track struct {
	ID     string
	Artist string
	Lyrics string
}

// Author is the creator of a short video.
type Author struct {
	UniqueID string
	Nickname string
	Avatar   string
}

// Stats are engagement counters already rendered for display ("1.2K").
type Stats struct {
	Views     string
	Likes     string
	Comments  string
	Shares    string
	Downloads string
}

// AuthContext is a token and cookie pair scoped to a single resolve call.
type AuthContext struct {
	Token  string
	Cookie string
}

// JobStatus is the state of an asynchronous conversion job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// ConversionJob is an upstream transcoding task observed by polling.
type ConversionJob struct {
	ID          string
	Title       string
	Status      JobStatus
	Progress    int
	DownloadURL string
}
