package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/cadence/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	box   lipgloss.Style
	tiers map[models.BadgeTier]lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		box:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t)).Padding(0, 1),
		tiers: map[models.BadgeTier]lipgloss.Style{
			models.TierBronze:   NewBold("#CD7F32"),
			models.TierSilver:   NewBold("#C0C0C0"),
			models.TierGold:     NewBold("#FFD700"),
			models.TierPlatinum: NewBold("#E5E4E2"),
		},
	}
}

// tier returns the style for a badge tier, dimmed when the badge is locked.
func (p *Palette) tier(b models.Badge) lipgloss.Style {
	if !b.Earned {
		return p.help
	}
	if s, ok := p.tiers[b.Tier]; ok {
		return s
	}
	return p.ok
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
