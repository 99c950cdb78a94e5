package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/player"
	"github.com/desertthunder/cadence/internal/shared"
)

const volumeStep = 5

// Transport is the playback control surface the player view drives.
type Transport interface {
	LoadAndPlay(track models.Track)
	Toggle()
	Seek(target int)
	SkipForward(delta int)
	SkipBackward(delta int)
	SetVolume(v int)
	State() player.State
	Resume() player.ResumeTable
	Subscribe() <-chan player.State
}

// PlayerModel is the track list and now-playing panel.
type PlayerModel struct {
	transport Transport
	states    <-chan player.State
	state     player.State
	tracks    []models.Track
	list      list.Model
	bar       progress.Model
	help      help.Model
	keys      playerKeys
	width     int
	height    int
	lastTrack string
}

// NewPlayerModel creates a player view over transport listing tracks.
func NewPlayerModel(transport Transport, tracks []models.Track) *PlayerModel {
	l := list.New(trackItems(tracks, transport.Resume()), list.NewDefaultDelegate(), 0, 0)
	l.Title = "Today's Tracks"
	l.SetShowHelp(false)

	state := transport.State()
	m := &PlayerModel{
		transport: transport,
		states:    transport.Subscribe(),
		state:     state,
		tracks:    tracks,
		list:      l,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:      help.New(),
		keys:      newPlayerKeys(),
	}
	if state.Track != nil {
		m.lastTrack = state.Track.ID
	}
	return m
}

// ListenedSeconds reports how long audio has played in this session.
//
// It reads the controller directly, so snapshots the view never received still count.
func (m *PlayerModel) ListenedSeconds() int {
	return m.transport.State().Listened
}

// Init starts listening for controller state changes.
func (m *PlayerModel) Init() tea.Cmd {
	return m.waitForState()
}

func (m *PlayerModel) waitForState() tea.Cmd {
	states := m.states
	return func() tea.Msg {
		s, ok := <-states
		if !ok {
			return playerClosedMsg()
		}
		return stateChangedMsg(s)
	}
}

// Update handles incoming messages and updates the model state.
func (m *PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, max(msg.Height-10, 4))
		m.bar.Width = max(msg.Width-20, 10)
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgStateChanged:
			m.applyState(msg.data.(player.State))
			return m, m.waitForState()
		case MsgPlayerClosed:
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *PlayerModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.play):
		if item, ok := m.list.SelectedItem().(trackItem); ok {
			m.transport.LoadAndPlay(item.track)
		}
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		m.transport.Toggle()
		return m, nil
	case key.Matches(msg, m.keys.back):
		m.transport.SkipBackward(0)
		return m, nil
	case key.Matches(msg, m.keys.forward):
		m.transport.SkipForward(0)
		return m, nil
	case key.Matches(msg, m.keys.restart):
		m.transport.Seek(0)
		return m, nil
	case key.Matches(msg, m.keys.volUp):
		m.transport.SetVolume(m.state.Volume + volumeStep)
		return m, nil
	case key.Matches(msg, m.keys.volDown):
		m.transport.SetVolume(m.state.Volume - volumeStep)
		return m, nil
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// applyState records s and refreshes the resume column when the track changes.
func (m *PlayerModel) applyState(s player.State) {
	m.state = s
	if s.Track == nil || s.Track.ID == m.lastTrack {
		return
	}
	m.list.SetItems(trackItems(m.tracks, m.transport.Resume()))
	m.lastTrack = s.Track.ID
}

// View renders the track list above the now-playing panel.
func (m *PlayerModel) View() string {
	return fmt.Sprintf("%s\n\n%s\n\n%s", m.list.View(), m.renderNowPlaying(), m.help.View(m.keys))
}

func (m *PlayerModel) renderNowPlaying() string {
	s := m.state
	if s.Track == nil {
		return styles.help.Render("Nothing playing. Select a track and press enter.")
	}

	icon := "⏸"
	if s.Playing {
		icon = "▶"
	}

	var b strings.Builder
	b.WriteString(styles.ok.Render(fmt.Sprintf("%s %s", icon, s.Track.Title)))
	b.WriteString(fmt.Sprintf("  %s\n", s.Track.Artist))

	ratio := 0.0
	if s.Track.Duration > 0 {
		ratio = float64(s.Position) / float64(s.Track.Duration)
	}
	b.WriteString(fmt.Sprintf("%s %s / %s\n", m.bar.ViewAs(ratio),
		shared.FormatDuration(s.Position), shared.FormatDuration(s.Track.Duration)))

	b.WriteString(styles.help.Render(fmt.Sprintf("volume %d%%  listened %s", s.Volume, shared.FormatDuration(s.Listened))))
	if s.Track.Duration > 0 && s.Position >= s.Track.Duration {
		b.WriteString("  " + styles.warn.Render("finished"))
	}
	return b.String()
}
