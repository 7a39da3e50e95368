package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"snaplink/internal/media"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0B0B0B")).
			Background(lipgloss.Color("#FFE66D")).
			Bold(true).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6ADC8")).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	assetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00F5D4")).
			Bold(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7FDBFF")).
			Faint(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7FDBFF")).
			Padding(0, 1)
)

// RenderResult lays out r for a terminal.
func RenderResult(r *media.Result) string {
	var b strings.Builder

	title := r.Title
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	row := func(key, value string) {
		if value == "" {
			return
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(key), valueStyle.Render(value)))
		b.WriteString("\n")
	}

	row("platform", r.Platform.String())
	if r.Track != nil {
		row("artist", r.Track.Artist)
	}
	if r.Author != nil {
		author := r.Author.Nickname
		if r.Author.UniqueID != "" {
			author = strings.TrimSpace(author + " @" + r.Author.UniqueID)
		}
		row("author", author)
	}
	row("duration", r.Duration)
	row("posted", r.Posted)
	if r.Stats != nil {
		row("stats", fmt.Sprintf("%s views · %s likes · %s comments", r.Stats.Views, r.Stats.Likes, r.Stats.Comments))
	}
	row("thumbnail", r.Thumbnail)

	labels := AssetLabels(r)
	var assets strings.Builder
	for i, a := range r.Assets {
		if i > 0 {
			assets.WriteString("\n")
		}
		assets.WriteString(assetStyle.Render(labels[i]))
		assets.WriteString("\n   ")
		assets.WriteString(urlStyle.Render(a.URL))
	}
	b.WriteString(boxStyle.Render(assets.String()))
	b.WriteString("\n")

	if r.Track != nil && r.Track.Lyrics != "" && r.Track.Lyrics != media.LyricsNotFound {
		b.WriteString("\n")
		b.WriteString(valueStyle.Render(r.Track.Lyrics))
		b.WriteString("\n")
	}
	return b.String()
}
