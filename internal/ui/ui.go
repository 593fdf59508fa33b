package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/museekly/internal/search"
)

// chromeHeight is the number of lines drawn around the lyrics viewport.
const chromeHeight = 18

var fields = [...]search.Field{search.FieldArtist, search.FieldTitle}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	controller *search.Controller
	source     string
	inputs     [2]textinput.Model
	focus      int
	spinner    spinner.Model
	viewport   viewport.Model
	help       help.Model
	keys       keyMap
	width      int
	height     int
}

// NewModel creates a TUI model driving controller. Lookups run with ctx.
func NewModel(ctx context.Context, controller *search.Controller, source string) *Model {
	artist := textinput.New()
	artist.Placeholder = "Enter artist name"
	artist.Prompt = "› "
	artist.CharLimit = 256
	artist.Width = 40

	title := textinput.New()
	title.Placeholder = "Enter song title"
	title.Prompt = "› "
	title.CharLimit = 256
	title.Width = 40

	q := controller.Query()
	artist.SetValue(q.Artist)
	title.SetValue(q.Title)
	artist.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.label

	if source == "" {
		source = "Lyrics.ovh"
	}

	return &Model{
		ctx:        ctx,
		controller: controller,
		source:     source,
		inputs:     [2]textinput.Model{artist, title},
		spinner:    s,
		viewport:   viewport.New(60, 10),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init starts the cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(20, msg.Width-6)
		m.viewport.Height = max(3, msg.Height-chromeHeight)
		for i := range m.inputs {
			m.inputs[i].Width = max(10, msg.Width-8)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if m.controller.Result().Status() != search.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgLookupComplete:
			outcome := msg.data.(lookupOutcome)
			if m.controller.Complete(m.ctx, outcome.req, outcome.lyrics, outcome.err) {
				m.refreshLyrics()
			}
		}
		return m, nil
	}

	return m.updateInput(msg)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		return m, m.setFocus((m.focus + 1) % len(m.inputs))
	case key.Matches(msg, m.keys.prev):
		return m, m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.pageUp), key.Matches(msg, m.keys.pageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m.updateInput(msg)
}

func (m *Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.controller.SetField(fields[m.focus], m.inputs[m.focus].Value())
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

// submit begins a lookup. While one is in flight the key is ignored.
func (m *Model) submit() tea.Cmd {
	if m.controller.Result().Status() == search.Loading {
		return nil
	}

	req, err := m.controller.Begin()
	if err != nil {
		return nil
	}
	m.refreshLyrics()

	return tea.Batch(m.spinner.Tick, m.lookup(req))
}

func (m *Model) lookup(req search.Request) tea.Cmd {
	return func() tea.Msg {
		lyrics, err := m.controller.Fetch(m.ctx, req)
		return lookupCompleteMsg(req, lyrics, err)
	}
}

func (m *Model) refreshLyrics() {
	d := search.Render(m.controller.Result())
	m.viewport.SetContent(strings.ReplaceAll(d.Lyrics, "\r\n", "\n"))
	m.viewport.GotoTop()
}

// View renders the form, the banner or lyrics panel, and the footer.
func (m *Model) View() string {
	d := search.Render(m.controller.Result())

	var b strings.Builder

	b.WriteString(styles.title.Render("Museekly") + "\n")
	b.WriteString(styles.help.Render("Find lyrics to your favorite songs") + "\n\n")

	b.WriteString(styles.label.Render("Artist") + "\n")
	b.WriteString(m.inputs[0].View() + "\n")
	b.WriteString(styles.label.Render("Song Title") + "\n")
	b.WriteString(m.inputs[1].View() + "\n\n")

	if d.Busy {
		b.WriteString(fmt.Sprintf("%s Searching...", m.spinner.View()) + "\n\n")
	} else {
		b.WriteString(styles.button.Render("Search Lyrics") + "\n\n")
	}

	if d.Banner != "" {
		b.WriteString(styles.banner.Render(d.Banner) + "\n\n")
	}

	if d.Song != nil {
		b.WriteString(styles.ok.Render(d.Song.Title) + "\n")
		b.WriteString(styles.warn.Render("by "+d.Song.Artist) + "\n")
		b.WriteString(styles.panel.Render(m.viewport.View()) + "\n")
		if pct := m.viewport.ScrollPercent(); m.viewport.TotalLineCount() > m.viewport.Height {
			b.WriteString(styles.help.Render(fmt.Sprintf("%3.f%%", pct*100)) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.help.Render(fmt.Sprintf("Powered by %s API", m.source)) + "\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}
