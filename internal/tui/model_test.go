package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/mishannn/explore-go/internal/explore"
	"github.com/mishannn/explore-go/internal/geo"
	"github.com/mishannn/explore-go/internal/listing"
	"github.com/mishannn/explore-go/internal/location"
	"github.com/mishannn/explore-go/internal/sheet"
)

type stubDirectory struct {
	categories []listing.Category
}

func (d stubDirectory) FetchListings(ctx context.Context, lang string) ([]listing.Listing, error) {
	return []listing.Listing{
		{ID: lang + "-1", Title: "Riad " + lang, CategoryCode: "beach", Price: 90, Coordinates: &geo.Coordinates{Lat: 35.7595, Lng: -5.8340}},
		{ID: lang + "-2", Title: "Loft " + lang, CategoryCode: "city", Price: 140, Coordinates: &geo.Coordinates{Lat: 35.759545, Lng: -5.8340}},
		{ID: lang + "-3", Title: "Cabin " + lang, CategoryCode: "beach", Price: 60},
	}, nil
}

func (d stubDirectory) FetchCategories(ctx context.Context, lang string) ([]listing.Category, error) {
	if d.categories != nil {
		return d.categories, nil
	}
	return []listing.Category{{Code: "beach", Name: "Beach"}, {Code: "city", Name: "City"}}, nil
}

func newTestModel(t *testing.T, g location.Geolocator) (*Model, *explore.Screen, *Navigator) {
	t.Helper()
	return newTestModelWith(t, g, stubDirectory{})
}

func newTestModelWith(t *testing.T, g location.Geolocator, dir stubDirectory) (*Model, *explore.Screen, *Navigator) {
	t.Helper()

	nav := &Navigator{}
	screen := explore.NewScreen(explore.Dependencies{
		Directory:  dir,
		Geolocator: g,
		Navigator:  nav,
	})

	m := NewModel(screen, nav, "en", []string{"en", "fr", "ar"})
	run(m, m.Init())

	return m, screen, nav
}

func granted() location.Geolocator {
	fix := geo.Coordinates{Lat: 35.7595, Lng: -5.8340}
	return location.Static{Granted: true, Fix: &fix}
}

// run executes cmd and feeds every resulting message back into the model.
func run(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}

	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			run(m, c)
		}
		return
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		return
	}

	_, next := m.Update(msg)
	run(m, next)
}

func press(m *Model, key string) {
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}

	_, cmd := m.Update(msg)
	run(m, cmd)
}

func TestInitLoadsScreen(t *testing.T) {
	m, screen, _ := newTestModel(t, granted())

	if m.token == "" || !screen.Mounted() {
		t.Fatal("Init should start a session")
	}

	f := screen.Frame()
	if len(f.Visible) != 3 || f.Sheet != sheet.ListDominant {
		t.Errorf("visible %d, sheet %s", len(f.Visible), f.Sheet)
	}

	view := ansi.Strip(m.View())
	for _, want := range []string{"Explore", "All", "Beach", "City", "Riad en", "Map [m]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q:\n%s", want, view)
		}
	}
}

func TestCategoryKeys(t *testing.T) {
	m, screen, _ := newTestModel(t, granted())

	press(m, "tab")
	if code, _ := screen.Frame().Selection.Code(); code != "beach" {
		t.Errorf("tab selected %s, want beach", screen.Frame().Selection)
	}
	if len(screen.Frame().Visible) != 2 {
		t.Errorf("visible = %d, want 2", len(screen.Frame().Visible))
	}

	press(m, "tab")
	press(m, "tab")
	if !screen.Frame().Selection.IsAll() {
		t.Errorf("tab should wrap to all, got %s", screen.Frame().Selection)
	}

	press(m, "tab")
	press(m, "0")
	if !screen.Frame().Selection.IsAll() {
		t.Error("0 should select every category")
	}
}

func TestListEnterOpensListing(t *testing.T) {
	m, _, nav := newTestModel(t, granted())

	press(m, "down")
	press(m, "enter")

	if nav.Last() != "en-2" {
		t.Errorf("opened %q, want en-2", nav.Last())
	}
	if !strings.Contains(ansi.Strip(m.View()), "Opened Loft en") {
		t.Error("footer should show the opened listing")
	}
}

func TestMapMode(t *testing.T) {
	m, screen, nav := newTestModel(t, granted())

	press(m, "m")
	f := screen.Frame()
	if f.Sheet != sheet.MapDominant {
		t.Fatalf("sheet = %s, want map", f.Sheet)
	}
	if len(f.OnScreen) != 1 || f.OnScreen[0].Count != 2 {
		t.Fatalf("expected the pair as one marker, got %+v", f.OnScreen)
	}
	if !strings.Contains(ansi.Strip(m.View()), "(2)") {
		t.Error("map should draw the aggregate count")
	}

	before := f.Viewport
	press(m, "enter")
	f = screen.Frame()
	if f.Viewport.LongitudeDelta >= before.LongitudeDelta {
		t.Errorf("enter on an aggregate should zoom in, viewport %s", f.Viewport)
	}
	if len(f.OnScreen) != 2 {
		t.Fatalf("expected two leaves after zooming, got %d", len(f.OnScreen))
	}

	press(m, "n")
	press(m, "enter")
	if nav.Last() == "" {
		t.Error("enter on a leaf should open it")
	}

	zoomed := screen.Frame().Viewport
	press(m, "-")
	if got := screen.Frame().Viewport.LongitudeDelta; got != zoomed.LongitudeDelta*zoomStep {
		t.Errorf("zoom out delta = %g", got)
	}

	press(m, "l")
	if screen.Frame().Sheet != sheet.ListDominant {
		t.Error("l should return to the list")
	}
}

func TestLanguageKey(t *testing.T) {
	m, screen, _ := newTestModel(t, granted())

	press(m, "g")
	f := screen.Frame()
	if f.Lang != "fr" || f.Visible[0].ID != "fr-1" {
		t.Errorf("lang %s, first listing %s", f.Lang, f.Visible[0].ID)
	}
}

func TestDeniedMapMessage(t *testing.T) {
	m, screen, _ := newTestModel(t, location.Static{Granted: false})

	press(m, "m")
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Location unavailable") {
		t.Errorf("map should explain the missing region:\n%s", view)
	}
	if !strings.Contains(view, "Permission to access location was denied") {
		t.Errorf("notice should be shown:\n%s", view)
	}
	if len(screen.Frame().Clusters) != 0 {
		t.Error("no clusters without a viewport")
	}
}

func TestQuitStopsScreen(t *testing.T) {
	m, screen, _ := newTestModel(t, granted())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
	if screen.Mounted() {
		t.Error("quitting should stop the screen")
	}
}

func TestCategoryKeysSkipAllFromDirectory(t *testing.T) {
	dir := stubDirectory{categories: []listing.Category{
		{Code: "all", Name: "All"},
		{Code: "beach", Name: "Beach"},
		{Code: "city", Name: "City"},
	}}
	m, screen, _ := newTestModelWith(t, granted(), dir)

	press(m, "tab")
	if code, _ := screen.Frame().Selection.Code(); code != "beach" {
		t.Errorf("tab selected %s, want beach", screen.Frame().Selection)
	}

	press(m, "tab")
	press(m, "tab")
	if !screen.Frame().Selection.IsAll() {
		t.Errorf("tab should wrap to all after city, got %s", screen.Frame().Selection)
	}

	header := ansi.Strip(renderHeader(screen.Frame(), 80))
	if n := strings.Count(header, "All"); n != 1 {
		t.Errorf("header draws %d All chips:\n%s", n, header)
	}
}
