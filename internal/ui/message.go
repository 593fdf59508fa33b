package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/museekly/internal/search"
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
	MsgLookupComplete MsgKind = iota
)

type lookupOutcome struct {
	req    search.Request
	lyrics string
	err    error
}

// lookupCompleteMsg is the constructor for [MsgLookupComplete]
func lookupCompleteMsg(req search.Request, lyrics string, err error) Msg {
	return Msg{kind: MsgLookupComplete, data: lookupOutcome{req: req, lyrics: lyrics, err: err}}
}
