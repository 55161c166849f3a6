// Package tui runs the explore screen in a terminal. Keys are translated
// into explore events; the list and the map are painted from the screen's
// Frame.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mishannn/explore-go/internal/explore"
	"github.com/mishannn/explore-go/internal/listing"
	"github.com/mishannn/explore-go/internal/sheet"
)

const (
	panStep  = 0.25
	zoomStep = 2.0
)

// Navigator remembers the last listing opened from the list or the map.
type Navigator struct {
	last string
}

func (n *Navigator) NavigateToListingDetail(listingID string) {
	n.last = listingID
}

func (n *Navigator) Last() string {
	return n.last
}

type Model struct {
	screen    *explore.Screen
	navigator *Navigator

	lang  string
	langs []string
	token string

	width  int
	height int

	// cursor is the highlighted row of the list, focus the highlighted
	// marker of the map. Both index into the current Frame.
	cursor int
	focus  int
}

func NewModel(screen *explore.Screen, navigator *Navigator, lang string, langs []string) *Model {
	if len(langs) == 0 {
		langs = []string{lang}
	}

	return &Model{
		screen:    screen,
		navigator: navigator,
		lang:      lang,
		langs:     langs,
	}
}

func (m *Model) Init() tea.Cmd {
	token, cmd := m.screen.Start(m.lang)
	m.token = token
	return cmd
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if k := msg.String(); k == "q" || k == "ctrl+c" {
			m.screen.Stop(m.token)
			return m, tea.Quit
		}

		event := m.eventForKey(msg.String())
		if event == nil {
			return m, nil
		}
		cmd := m.screen.Update(event)
		m.clamp()
		return m, cmd
	}

	cmd := m.screen.Update(msg)
	m.clamp()
	return m, cmd
}

// eventForKey maps a key to an explore event. Cursor movement is handled
// in place and yields nil.
func (m *Model) eventForKey(key string) tea.Msg {
	frame := m.screen.Frame()
	mapMode := frame.Sheet == sheet.MapDominant

	switch key {
	case "m":
		return explore.ShowMap{}
	case "l":
		return explore.ShowList{}
	case "tab":
		return explore.CategorySelected{Selection: m.cycleCategory(frame, 1)}
	case "shift+tab":
		return explore.CategorySelected{Selection: m.cycleCategory(frame, -1)}
	case "0":
		return explore.CategorySelected{Selection: listing.AllCategories()}
	case "g":
		m.lang = m.nextLanguage()
		return explore.LanguageChanged{Lang: m.lang}
	case "r":
		return explore.RecenterRequested{}
	case "enter":
		return m.press(frame, mapMode)
	}

	if !mapMode {
		switch key {
		case "up", "k":
			m.cursor--
		case "down", "j":
			m.cursor++
		}
		m.clamp()
		return nil
	}

	if !frame.HasViewport {
		return nil
	}

	v := frame.Viewport
	switch key {
	case "up", "k":
		return explore.ViewportChanged{Viewport: v.Panned(0, panStep)}
	case "down", "j":
		return explore.ViewportChanged{Viewport: v.Panned(0, -panStep)}
	case "left", "h":
		return explore.ViewportChanged{Viewport: v.Panned(-panStep, 0)}
	case "right":
		return explore.ViewportChanged{Viewport: v.Panned(panStep, 0)}
	case "+", "=":
		return explore.ViewportChanged{Viewport: v.Scaled(1 / zoomStep)}
	case "-":
		return explore.ViewportChanged{Viewport: v.Scaled(zoomStep)}
	case "n":
		m.focus++
	case "p":
		m.focus--
	}
	m.clamp()

	return nil
}

func (m *Model) press(frame explore.Frame, mapMode bool) tea.Msg {
	if !mapMode {
		if m.cursor < 0 || m.cursor >= len(frame.Visible) {
			return nil
		}
		return explore.ListItemPressed{ListingID: frame.Visible[m.cursor].ID}
	}

	if m.focus < 0 || m.focus >= len(frame.OnScreen) {
		return nil
	}

	c := frame.OnScreen[m.focus]
	if c.IsLeaf() {
		return explore.MarkerPressed{ListingID: c.Listing.ID}
	}
	return explore.ClusterPressed{Pass: frame.Pass, ClusterID: c.ID}
}

func (m *Model) cycleCategory(frame explore.Frame, step int) listing.Selection {
	options := make([]listing.Selection, 0, len(frame.Categories)+1)
	options = append(options, listing.AllCategories())
	for _, c := range frame.Categories {
		sel := listing.ParseSelection(c.Code)
		if sel.IsAll() {
			continue
		}
		options = append(options, sel)
	}

	current := 0
	for i, o := range options {
		if o == frame.Selection {
			current = i
			break
		}
	}

	next := (current + step + len(options)) % len(options)
	return options[next]
}

func (m *Model) nextLanguage() string {
	for i, l := range m.langs {
		if l == m.lang {
			return m.langs[(i+1)%len(m.langs)]
		}
	}

	return m.langs[0]
}

func (m *Model) clamp() {
	frame := m.screen.Frame()
	m.cursor = clampIndex(m.cursor, len(frame.Visible))
	m.focus = clampIndex(m.focus, len(frame.OnScreen))
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}

	return i
}
