package provider

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"snaplink/internal/media"
)

var (
	brTag    = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockEnd = regexp.MustCompile(`(?i)</(div|p)>`)
	anyTag   = regexp.MustCompile(`<[^>]+>`)
)

// parseLyrics extracts lyric lines from the marked containers of a lyrics
// page. Annotation blocks excluded from selection are dropped.
func parseLyrics(doc *goquery.Document) string {
	var lines []string

	doc.Find(`[data-lyrics-container="true"]`).Each(func(_ int, s *goquery.Selection) {
		s.Find("[data-exclude-from-selection]").Remove()
		raw, err := s.Html()
		if err != nil {
			return
		}
		raw = brTag.ReplaceAllString(raw, "\n")
		raw = blockEnd.ReplaceAllString(raw, "\n")
		raw = html.UnescapeString(anyTag.ReplaceAllString(raw, ""))

		for _, line := range strings.Split(raw, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	})

	if len(lines) == 0 {
		return media.LyricsNotFound
	}
	return strings.Join(lines, "\n")
}

// parseInstagramLinks extracts download buttons from the aggregator's result
// fragment.
func parseInstagramLinks(doc *goquery.Document) []media.Asset {
	var assets []media.Asset

	doc.Find("a.abutton").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}

		title := strings.TrimSpace(s.AttrOr("title", ""))
		t := ClassifyLink(s.Text(), title, href)
		assets = append(assets, media.Asset{
			Title:   title,
			Type:    t,
			URL:     href,
			Quality: "Auto",
			Format:  LinkExtension(href, t),
		})
	})

	return assets
}

// parseFacebookResults extracts the caption, thumbnail and quality variants
// from the aggregator's result page.
func parseFacebookResults(doc *goquery.Document) (caption, thumbnail string, assets []media.Asset) {
	caption = strings.TrimSpace(doc.Find(".results-item-text").First().Text())
	thumbnail = doc.Find(".results-item-image img").First().AttrOr("src", "")

	doc.Find(".results-list-item").Each(func(_ int, s *goquery.Selection) {
		href := s.Find("a").First().AttrOr("href", "")
		if href == "" {
			return
		}
		quality := "SD"
		if strings.Contains(strings.TrimSpace(s.Text()), "HD") {
			quality = "HD"
		}
		assets = append(assets, media.Asset{
			Type:    media.Video,
			URL:     href,
			Quality: quality,
			Format:  "mp4",
		})
	})

	return caption, thumbnail, assets
}

// parsePinterestResults extracts the pin title, preview and download links.
// Buttons mentioning video are video; every other button is an image.
func parsePinterestResults(doc *goquery.Document) (title, thumbnail string, assets []media.Asset) {
	title = strings.TrimSpace(doc.Find(".font-weight-bold").First().Text())
	thumbnail = doc.Find(".square-box-img img, .square-box img").First().AttrOr("src", "")

	doc.Find(".square-box-btn a").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}
		t := media.Photo
		if strings.Contains(strings.ToLower(s.Text()), "video") {
			t = media.Video
		}
		assets = append(assets, media.Asset{
			Type:    t,
			URL:     href,
			Quality: "Original",
			Format:  LinkExtension(href, t),
		})
	})

	return title, thumbnail, assets
}
