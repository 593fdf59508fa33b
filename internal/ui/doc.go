// Package ui implements the interactive terminal lyrics search using bubbletea's Elm architecture.
//
// The screen mirrors the web page: two text inputs (artist, song title), a submit control, an error banner,
// and a scrollable lyrics panel. Every keystroke in an input is forwarded to the search.Controller with
// SetField; enter submits.
//
// The (view) [Model] implements the standard Init/Update/View pattern. A submit calls Controller.Begin in the
// update loop, runs the lookup as a [tea.Cmd], and hands the result back through the Msg union type, where
// Controller.Complete applies it only if the request is still current.
//
// Keys: tab/shift+tab switch inputs, enter submits (ignored while a lookup is in flight), pgup/pgdown scroll
// the lyrics, ctrl+c/esc quit. Contextual help is rendered with charmbracelet/bubbles/help.
package ui
