package download

import (
	"path/filepath"
	"strings"

	id3v2 "github.com/bogem/id3v2/v2"

	"snaplink/internal/media"
)

// Taggable reports whether path is an mp3 of a music track.
func Taggable(r *media.Result, path string) bool {
	return r.Track != nil && strings.EqualFold(filepath.Ext(path), ".mp3")
}

// Tag writes title, artist and lyrics into the ID3v2 tag of the mp3 at path.
func Tag(path string, r *media.Result) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if r.Title != "" {
		tag.SetTitle(r.Title)
	}
	if r.Track != nil {
		if r.Track.Artist != "" {
			tag.SetArtist(r.Track.Artist)
		}
		if lyrics := r.Track.Lyrics; lyrics != "" && lyrics != media.LyricsNotFound {
			tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
				Encoding:          id3v2.EncodingUTF8,
				Language:          "eng",
				ContentDescriptor: "",
				Lyrics:            lyrics,
			})
		}
	}
	return tag.Save()
}
