package carousel

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/carousel-stack/pkg/image"
)

const (
	fallbackWidth  = 80
	fallbackHeight = 24
	minHeaderRows  = 3
)

// screenLayout is the cell budget of each part of the screen.
type screenLayout struct {
	width, height int
	headerRows    int
	boxCols       int
	boxRows       int
}

// layout splits the screen: header on top (a quarter of the height, at
// least minHeaderRows), then the date/time line, the bordered carousel box,
// the indicator dots and the help line. A sized container converts its
// natural pixel size to cells and is capped to the space left.
func (m *Model) layout() screenLayout {
	w, h := m.width, m.height
	if w <= 0 || h <= 0 {
		w, h = fallbackWidth, fallbackHeight
	}
	l := screenLayout{width: w, height: h}
	l.headerRows = max(minHeaderRows, h/4)

	// date/time, dots, help, and the two border rows
	availRows := max(1, h-l.headerRows-5)
	availCols := max(1, w-2)

	if m.container.Fluid || m.container.Width <= 0 || m.container.Height <= 0 {
		l.boxCols, l.boxRows = availCols, availRows
		return l
	}
	l.boxCols, l.boxRows = image.CellsForPixels(m.container.Width, m.container.Height, m.cellW, m.cellH, availCols, availRows)
	return l
}

// View paints the current frame.
func (m *Model) View() string {
	if !m.alive {
		return ""
	}
	return m.paint(m.Frame(), m.layout())
}

func (m *Model) paint(f Frame, l screenLayout) string {
	var b strings.Builder

	b.WriteString(m.paintImage(f.Header, l.width, l.headerRows))
	b.WriteByte('\n')

	when := m.styles.Date.Render(f.Date) + "  " + m.styles.Clock.Render(f.Time)
	b.WriteString(lipgloss.PlaceHorizontal(l.width, lipgloss.Center, when))
	b.WriteByte('\n')

	var content string
	if f.OverlayShown {
		content = m.paintImage(f.OverlayRef, l.boxCols, l.boxRows)
	} else if s, ok := f.ActiveSlide(); ok {
		if s.Loaded && !s.Load.OK {
			content = m.placeholder(fmt.Sprintf("%s failed to load", filepath.Base(s.Ref)), l.boxCols, l.boxRows)
		} else {
			content = m.paintImage(s.Ref, l.boxCols, l.boxRows)
		}
	} else {
		content = m.placeholder("no images", l.boxCols, l.boxRows)
	}
	box := m.styles.Box.Render(content)
	b.WriteString(lipgloss.PlaceHorizontal(l.width, lipgloss.Center, box))
	b.WriteByte('\n')

	b.WriteString(lipgloss.PlaceHorizontal(l.width, lipgloss.Center, m.paintDots(f)))
	b.WriteByte('\n')

	b.WriteString(m.help.View(m.keys))

	out := b.String()
	if m.zones != nil {
		out = m.zones.Scan(m.zones.Mark(rootZone, out))
	}
	return out
}

// paintImage draws the finished rasterization of ref at cols x rows. View
// never renders itself: until Update has recorded a result the area holds
// the file name, and a failed render leaves a caption.
func (m *Model) paintImage(ref string, cols, rows int) string {
	if ref == "" {
		return m.placeholder("", cols, rows)
	}
	if m.images == nil {
		return m.caption(ref, cols, rows)
	}
	r, ok := m.rendered(ref, cols, rows)
	switch {
	case !ok:
		return m.caption(ref, cols, rows)
	case r.err != nil:
		return m.placeholder(fmt.Sprintf("%s unavailable", filepath.Base(ref)), cols, rows)
	case r.out == "":
		return m.placeholder("", cols, rows)
	}
	return r.out
}

func (m *Model) caption(ref string, cols, rows int) string {
	return lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, m.styles.Header.Render(truncate(filepath.Base(ref), cols)))
}

func (m *Model) placeholder(text string, cols, rows int) string {
	return lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, m.styles.Placeholder.Render(truncate(text, cols)))
}

// paintDots draws one indicator per mounted slide. The active dot is faint
// while its fade is running.
func (m *Model) paintDots(f Frame) string {
	dots := make([]string, 0, len(f.Slides))
	for _, s := range f.Slides {
		switch {
		case s.Active && f.Animating:
			dots = append(dots, m.styles.DotFading.Render("●"))
		case s.Active:
			dots = append(dots, m.styles.DotActive.Render("●"))
		default:
			dots = append(dots, m.styles.DotInactive.Render("○"))
		}
	}
	if f.OverlayShown {
		dots = append(dots, m.styles.Date.Render("paused"))
	}
	return strings.Join(dots, " ")
}

func truncate(s string, cols int) string {
	if cols <= 0 {
		return ""
	}
	return ansi.Truncate(s, cols, "…")
}
