package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/sharebox/internal/models"
)

type palette struct {
	accent lipgloss.Color
	price  lipgloss.Color
	muted  lipgloss.Color
	border lipgloss.Color
	like   lipgloss.Color
}

var palettes = map[models.Theme]palette{
	models.ThemeLight: {
		accent: lipgloss.Color("#5B3CC4"),
		price:  lipgloss.Color("#1F7A3A"),
		muted:  lipgloss.Color("#6B6B6B"),
		border: lipgloss.Color("#B8B8C8"),
		like:   lipgloss.Color("#C0356B"),
	},
	models.ThemeDark: {
		accent: lipgloss.Color("#CBA6F7"),
		price:  lipgloss.Color("#A6E3A1"),
		muted:  lipgloss.Color("#A6ADC8"),
		border: lipgloss.Color("#45475A"),
		like:   lipgloss.Color("#F38BA8"),
	},
}

// styles is the set of lipgloss styles for one theme.
type styles struct {
	header lipgloss.Style
	title  lipgloss.Style
	price  lipgloss.Style
	muted  lipgloss.Style
	likes  lipgloss.Style
	card   lipgloss.Style
	active lipgloss.Style
}

func stylesFor(t models.Theme) styles {
	p, ok := palettes[t]
	if !ok {
		p = palettes[models.ThemeLight]
	}
	return styles{
		header: lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		title:  lipgloss.NewStyle().Bold(true),
		price:  lipgloss.NewStyle().Foreground(p.price),
		muted:  lipgloss.NewStyle().Foreground(p.muted),
		likes:  lipgloss.NewStyle().Foreground(p.like),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		active: lipgloss.NewStyle().Foreground(p.accent).Bold(true),
	}
}
