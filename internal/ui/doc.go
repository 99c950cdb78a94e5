// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// Two programs are provided:
//  1. [PlayerModel] : Browse today's tracks and control playback
//  2. [DashboardModel] : Today's minutes, streak, weekly chart, goal timeline, and badges
//
// Both models implement bubbletea's standard Init/Update/View pattern, receiving messages via the Msg union type.
// The player never polls: it subscribes to the playback controller and re-arms a command that blocks on the
// next state snapshot, so ticks from the position source drive redraws.
//
// Keyboard navigation uses vim-style bindings (j/k, h/l, enter, space, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
