package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mishannn/explore-go/internal/explore"
	"github.com/mishannn/explore-go/internal/listing"
	"github.com/mishannn/explore-go/internal/location"
	"github.com/mishannn/explore-go/internal/sheet"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	chipStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	chipOnStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true)
	rowStyle    = lipgloss.NewStyle()
	rowOnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mapStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	buttonStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Background(lipgloss.Color("236")).Foreground(lipgloss.Color("255"))
)

const (
	headerHeight  = 2
	footerHeight  = 2
	stripHeight   = 3
	defaultWidth  = 80
	defaultHeight = 24
)

func (m *Model) View() string {
	frame := m.screen.Frame()

	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	body := max(height-headerHeight-footerHeight, 3)

	var b strings.Builder
	b.WriteString(renderHeader(frame, width))
	b.WriteString("\n")

	if frame.Sheet == sheet.ListDominant {
		b.WriteString(renderList(frame, m.cursor, width, body-1))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, buttonStyle.Render("Map [m]")))
	} else {
		b.WriteString(renderMap(frame, m.focus, width, body-stripHeight))
		b.WriteString("\n")
		b.WriteString(renderStrip(frame, width))
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter(frame, width))

	return b.String()
}

func renderHeader(frame explore.Frame, width int) string {
	chips := make([]string, 0, len(frame.Categories)+1)

	all := chipStyle
	if frame.Selection.IsAll() {
		all = chipOnStyle
	}
	chips = append(chips, all.Render("All"))

	if frame.LoadingCategories && len(frame.Categories) == 0 {
		chips = append(chips, faintStyle.Render("loading…"))
	}
	for _, c := range frame.Categories {
		// The "all" chip is drawn first whatever the directory sends.
		if listing.ParseSelection(c.Code).IsAll() {
			continue
		}
		style := chipStyle
		if code, ok := frame.Selection.Code(); ok && code == c.Code {
			style = chipOnStyle
		}
		chips = append(chips, style.Render(c.Name))
	}

	title := titleStyle.Render("Explore") + faintStyle.Render(" · "+frame.Lang)
	return truncate(title, width) + "\n" + truncate(lipgloss.JoinHorizontal(lipgloss.Top, chips...), width)
}

func renderList(frame explore.Frame, cursor, width, height int) string {
	lines := make([]string, 0, height)

	switch {
	case frame.LoadingListings && len(frame.Visible) == 0:
		lines = append(lines, faintStyle.Render("Loading listings…"))
	case frame.Empty():
		lines = append(lines, "No listings available for this category.")
	default:
		rows := max(height/2, 1)
		start := 0
		if cursor >= rows {
			start = cursor - rows + 1
		}

		for i := start; i < len(frame.Visible) && i < start+rows; i++ {
			l := frame.Visible[i]
			style, marker := rowStyle, "  "
			if i == cursor {
				style, marker = rowOnStyle, "> "
			}

			head := fmt.Sprintf("%s%s  ★ %.1f  $%.0f", marker, l.Title, l.Rating, l.Price)
			if !l.MapEligible() {
				head += faintStyle.Render("  (no map position)")
			}
			lines = append(lines, style.Render(truncate(head, width)))
			lines = append(lines, faintStyle.Render(truncate("  "+l.Description, width)))
		}
	}

	for len(lines) < height {
		lines = append(lines, "")
	}

	return strings.Join(lines[:height], "\n")
}

func renderMap(frame explore.Frame, focus, width, height int) string {
	inner := max(width-2, 1)
	rows := max(height-2, 1)

	if !frame.HasViewport {
		msg := "Map has no region yet"
		switch frame.LocationState {
		case location.RequestingPermission, location.Unrequested:
			msg = "Locating…"
		case location.PermissionDeniedState, location.LocationUnavailableState:
			msg = "Location unavailable, map is not centered"
		}
		return mapStyle.Render(lipgloss.Place(inner, rows, lipgloss.Center, lipgloss.Center, faintStyle.Render(msg)))
	}

	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", inner))
	}

	bound := frame.Viewport.Bound()
	for i, c := range frame.OnScreen {
		col := int((c.Center.Lng - bound.Min[0]) / (bound.Max[0] - bound.Min[0]) * float64(inner-1))
		row := int((bound.Max[1] - c.Center.Lat) / (bound.Max[1] - bound.Min[1]) * float64(rows-1))

		label := fmt.Sprintf("$%.0f", c.MedianPrice)
		if !c.IsLeaf() {
			label = fmt.Sprintf("(%d)", c.Count)
		}
		if i == focus {
			label = "[" + label + "]"
		}

		place(grid[clampIndex(row, rows)], clampIndex(col, inner), label)
	}

	lines := make([]string, rows)
	for i, r := range grid {
		lines[i] = string(r)
	}

	return mapStyle.Render(strings.Join(lines, "\n"))
}

func place(row []rune, col int, label string) {
	runes := []rune(label)
	if col+len(runes) > len(row) {
		col = max(len(row)-len(runes), 0)
	}
	for i, r := range runes {
		if col+i < len(row) {
			row[col+i] = r
		}
	}
}

func renderStrip(frame explore.Frame, width int) string {
	count := fmt.Sprintf("%d homes · %d markers", len(frame.Visible), len(frame.OnScreen))
	button := buttonStyle.Render("List [l]")

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, faintStyle.Render(count)) + "\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, button) + "\n"
}

func (m *Model) renderFooter(frame explore.Frame, width int) string {
	status := ""
	if id := m.navigator.Last(); id != "" {
		status = "Opened " + id
		for _, l := range frame.Visible {
			if l.ID == id {
				status = "Opened " + l.Title
				break
			}
		}
	}
	if len(frame.Notices) > 0 {
		status = noticeStyle.Render(frame.Notices[len(frame.Notices)-1])
	}

	help := "tab category · g language · enter open · q quit"
	if frame.Sheet == sheet.MapDominant {
		help = "arrows pan · +/- zoom · n/p marker · r recenter · " + help
	}

	return truncate(status, width) + "\n" + faintStyle.Render(truncate(help, width))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}

	return ansi.Truncate(s, width, "…")
}
