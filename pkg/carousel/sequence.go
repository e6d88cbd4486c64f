// Package carousel implements the carousel stack: a static header image, a
// live date/time line, and a bottom carousel that walks a fixed
// back-and-forth sequence of images once per rotation interval. A click
// anywhere toggles an overlay image and pauses rotation while it is shown.
//
// The package is split the same way the widget is: sequence building,
// image preloading, the clock formatters, the rotator state machine, a pure
// Render from state to Frame, and the Bubbletea Model that owns the timers
// and paints frames into the terminal.
package carousel

// BuildSequence expands the bottom images into the display order. With at
// least three images it yields A B C B A B C (extra images are ignored);
// with fewer it returns a copy of the input unchanged.
func BuildSequence(imgs []string) []string {
	if len(imgs) < 3 {
		return append([]string(nil), imgs...)
	}
	a, b, c := imgs[0], imgs[1], imgs[2]
	return []string{a, b, c, b, a, b, c}
}

// UniqueImages returns the distinct references in seq in order of first
// appearance. Only these are preloaded and mounted.
func UniqueImages(seq []string) []string {
	seen := make(map[string]struct{}, len(seq))
	out := make([]string, 0, len(seq))
	for _, ref := range seq {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}
