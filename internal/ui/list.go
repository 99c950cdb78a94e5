package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track  models.Track
	resume int
}

func (i trackItem) FilterValue() string { return i.track.Title + " " + i.track.Artist }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string {
	desc := fmt.Sprintf("%s • %s • %s", i.track.Artist, i.track.Kind, shared.FormatDuration(i.track.Duration))
	switch {
	case i.resume >= i.track.Duration && i.track.Duration > 0:
		desc += " • played"
	case i.resume > 0:
		desc = fmt.Sprintf("%s • resume at %s", desc, shared.FormatDuration(i.resume))
	}
	return desc
}

// trackItems builds list items annotated with resume positions.
func trackItems(tracks []models.Track, resume map[string]int) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t, resume: resume[t.ID]}
	}
	return items
}
