package terminal

import (
	"strconv"

	"github.com/charmbracelet/x/term"
)

// Default cell geometry used when the terminal does not report pixels.
const (
	DefaultCellW = 8
	DefaultCellH = 16
)

// Size represents terminal dimensions in both character cells and pixels.
type Size struct {
	Cols   int // Character columns
	Rows   int // Character rows
	PixelW int // Total pixel width (0 if unknown)
	PixelH int // Total pixel height (0 if unknown)
	CellW  int // Pixel width per cell (0 if unknown)
	CellH  int // Pixel height per cell (0 if unknown)
}

// CellSize returns the per-cell pixel size, substituting the defaults for
// unknown values.
func (s Size) CellSize() (w, h int) {
	w, h = s.CellW, s.CellH
	if w <= 0 {
		w = DefaultCellW
	}
	if h <= 0 {
		h = DefaultCellH
	}
	return w, h
}

// GetSize measures the terminal behind fd. It tries, in order:
//  1. TIOCGWINSZ (cells and pixels)
//  2. charmbracelet/x/term (cells only)
//  3. COLUMNS/LINES from env
//  4. 80x24
func GetSize(fd uintptr, env Env) Size {
	if s := sizeFromIoctl(fd); s.Cols > 0 && s.Rows > 0 {
		return s
	}
	if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 0 {
		return Size{Cols: w, Rows: h}
	}
	return Size{
		Cols: envInt(env, "COLUMNS", 80),
		Rows: envInt(env, "LINES", 24),
	}
}

// envInt reads a positive integer from env, returning fallback otherwise.
func envInt(env Env, name string, fallback int) int {
	v := env(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
