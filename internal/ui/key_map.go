package ui

import "github.com/charmbracelet/bubbles/key"

// playerKeys defines the [key.Binding] mapping for the player.
type playerKeys struct {
	play    key.Binding
	toggle  key.Binding
	back    key.Binding
	forward key.Binding
	restart key.Binding
	volUp   key.Binding
	volDown key.Binding
	help    key.Binding
	quit    key.Binding
}

func newPlayerKeys() playerKeys {
	return playerKeys{
		play:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		toggle:  key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "play/pause")),
		back:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "back")),
		forward: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "forward")),
		restart: key.NewBinding(key.WithKeys("0", "home"), key.WithHelp("0", "restart")),
		volUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		volDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k playerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.play, k.toggle, k.back, k.forward, k.help, k.quit}
}

func (k playerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.play, k.toggle, k.restart},
		{k.back, k.forward},
		{k.volUp, k.volDown},
		{k.help, k.quit},
	}
}

// dashboardKeys defines the [key.Binding] mapping for the dashboard.
type dashboardKeys struct {
	refresh key.Binding
	quit    key.Binding
}

func newDashboardKeys() dashboardKeys {
	return dashboardKeys{
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k dashboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.refresh, k.quit}
}

func (k dashboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
