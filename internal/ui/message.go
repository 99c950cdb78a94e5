package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cadence/internal/player"
	"github.com/desertthunder/cadence/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgStateChanged MsgKind = iota
	MsgPlayerClosed
	MsgSnapshotLoaded
	MsgRefresh
)

// stateChangedMsg is the constructor for [MsgStateChanged]
func stateChangedMsg(s player.State) Msg {
	return Msg{kind: MsgStateChanged, data: s}
}

// playerClosedMsg is the constructor for [MsgPlayerClosed]
func playerClosedMsg() Msg {
	return Msg{kind: MsgPlayerClosed}
}

// snapshotLoadedMsg is the constructor for [MsgSnapshotLoaded]
func snapshotLoadedMsg(snap *tasks.Snapshot, err error) Msg {
	return Msg{
		kind: MsgSnapshotLoaded,
		data: struct {
			snap *tasks.Snapshot
			err  error
		}{snap, err},
	}
}

// refreshMsg is the constructor for [MsgRefresh]
func refreshMsg() Msg {
	return Msg{kind: MsgRefresh}
}
