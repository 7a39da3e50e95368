package media

// Wire shapes consumed by the presentation layer. Each platform keeps its
// own shape; field names are part of the public contract.

// MusicShape is returned for MusicStreaming results.
type MusicShape struct {
	Metadata MusicMetadata `json:"metadata"`
	Download string        `json:"download"`
}

type MusicMetadata struct {
	Title    string `json:"title"`
	ID       string `json:"id"`
	Artist   string `json:"artist"`
	Images   string `json:"images"`
	Duration string `json:"duration"`
	Lyrics   string `json:"lyrics"`
}

// ShortVideoShape is returned for ShortVideo results.
type ShortVideoShape struct {
	Title    string         `json:"title"`
	Cover    string         `json:"cover"`
	Duration string         `json:"duration,omitempty"`
	Created  string         `json:"created,omitempty"`
	Author   ShortAuthor    `json:"author"`
	Stats    ShortStats     `json:"stats"`
	Data     []ShortVariant `json:"data"`
}

type ShortAuthor struct {
	UniqueID string `json:"unique_id"`
	Nickname string `json:"nickname"`
	Fullname string `json:"fullname"`
	Avatar   string `json:"avatar"`
}

type ShortStats struct {
	Views    string `json:"views"`
	Likes    string `json:"likes"`
	Comment  string `json:"comment"`
	Share    string `json:"share"`
	Download string `json:"download"`
}

type ShortVariant struct {
	Type    string `json:"type"`
	URL     string `json:"url"`
	Quality string `json:"quality,omitempty"`
}

// MediasShape is returned for VideoHost and PinBoard results.
type MediasShape struct {
	Title     string      `json:"title"`
	Thumbnail string      `json:"thumbnail,omitempty"`
	Duration  string      `json:"duration,omitempty"`
	Medias    []MediaLink `json:"medias"`
}

type MediaLink struct {
	Type      string `json:"type"`
	Extension string `json:"extension"`
	Quality   string `json:"quality"`
	URL       string `json:"url"`
}

// FlatItem is one entry of the SocialPhotoVideo flat list.
type FlatItem struct {
	Title   string `json:"title"`
	Type    string `json:"type"`
	URL     string `json:"url"`
	Quality string `json:"quality"`
}

// ResultsShape is returned for SocialVideo results.
type ResultsShape struct {
	Caption   string       `json:"caption"`
	Thumbnail string       `json:"thumbnail,omitempty"`
	Results   []ResultLink `json:"results"`
}

type ResultLink struct {
	Type    string `json:"type"`
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// Shape renders r into the wire shape of its platform.
func Shape(r *Result) any {
	switch r.Platform {
	case MusicStreaming:
		return musicShape(r)
	case ShortVideo:
		return shortVideoShape(r)
	case SocialPhotoVideo:
		items := make([]FlatItem, 0, len(r.Assets))
		for _, a := range r.Assets {
			title := a.Title
			if title == "" {
				title = r.Title
			}
			items = append(items, FlatItem{Title: title, Type: string(a.Type), URL: a.URL, Quality: a.Quality})
		}
		return items
	case SocialVideo:
		out := ResultsShape{Caption: r.Title, Thumbnail: r.Thumbnail, Results: make([]ResultLink, 0, len(r.Assets))}
		for _, a := range r.Assets {
			out.Results = append(out.Results, ResultLink{Type: a.Format, Quality: a.Quality, URL: a.URL})
		}
		return out
	case PinBoard:
		return mediasShape(r, func(t AssetType) string {
			if t == Photo {
				return "image"
			}
			return string(t)
		})
	default:
		return mediasShape(r, func(t AssetType) string { return string(t) })
	}
}

func musicShape(r *Result) MusicShape {
	out := MusicShape{Metadata: MusicMetadata{
		Title:    r.Title,
		Images:   r.Thumbnail,
		Duration: r.Duration,
	}}
	if r.Track != nil {
		out.Metadata.ID = r.Track.ID
		out.Metadata.Artist = r.Track.Artist
		out.Metadata.Lyrics = r.Track.Lyrics
	}
	if len(r.Assets) > 0 {
		out.Download = r.Assets[0].URL
	}
	return out
}

func shortVideoShape(r *Result) ShortVideoShape {
	out := ShortVideoShape{
		Title:    r.Title,
		Cover:    r.Thumbnail,
		Duration: r.Duration,
		Created:  r.Posted,
		Data:     make([]ShortVariant, 0, len(r.Assets)),
	}
	if r.Author != nil {
		out.Author = ShortAuthor{
			UniqueID: r.Author.UniqueID,
			Nickname: r.Author.Nickname,
			Fullname: r.Author.UniqueID,
			Avatar:   r.Author.Avatar,
		}
	}
	if r.Stats != nil {
		out.Stats = ShortStats{
			Views:    r.Stats.Views,
			Likes:    r.Stats.Likes,
			Comment:  r.Stats.Comments,
			Share:    r.Stats.Shares,
			Download: r.Stats.Downloads,
		}
	}
	for _, a := range r.Assets {
		out.Data = append(out.Data, ShortVariant{Type: shortVariantType(a.Type), URL: a.URL, Quality: a.Quality})
	}
	return out
}

// shortVariantType maps asset types to the names the short-video view expects.
func shortVariantType(t AssetType) string {
	switch t {
	case Unwatermarked:
		return "nowatermark"
	case Watermarked:
		return "watermark"
	default:
		return string(t)
	}
}

func mediasShape(r *Result, typeName func(AssetType) string) MediasShape {
	out := MediasShape{
		Title:     r.Title,
		Thumbnail: r.Thumbnail,
		Duration:  r.Duration,
		Medias:    make([]MediaLink, 0, len(r.Assets)),
	}
	for _, a := range r.Assets {
		out.Medias = append(out.Medias, MediaLink{
			Type:      typeName(a.Type),
			Extension: a.Format,
			Quality:   a.Quality,
			URL:       a.URL,
		})
	}
	return out
}
