package carousel

import (
	"time"
)

// Region labels carried by every frame, mirroring the ARIA roles of the
// carousel region.
const (
	RegionRole            = "region"
	RegionRoleDescription = "carousel"
	RegionLabel           = "Bottom images carousel"
	RegionLive            = "polite"
)

// State is everything a frame is computed from.
type State struct {
	Header       string
	Overlay      string
	Sequence     []string
	Index        int
	Animating    bool
	OverlayShown bool
	Now          time.Time
	Loaded       map[string]LoadResult
	Container    Size
	Fade         time.Duration
}

// Slide is one mounted carousel element. Exactly one slide per frame is
// Active; the rest stay mounted but hidden and non-interactive so they can
// cross-fade.
type Slide struct {
	Ref         string
	Active      bool
	Hidden      bool
	Interactive bool
	Transition  time.Duration
	Load        LoadResult
	Loaded      bool // a load result has been published for Ref
}

// Box is the carousel container. A fixed box is Width x Height pixels
// capped at MaxWidthPercent of the available width; a Fluid box spans the
// full width.
type Box struct {
	Width           int
	Height          int
	Fluid           bool
	MaxWidthPercent int
}

// Frame is the headless render of a State.
type Frame struct {
	Header string
	Date   string
	Time   string

	Role            string
	RoleDescription string
	Label           string
	Live            string

	Container Box
	Slides    []Slide

	OverlayShown bool
	OverlayRef   string
	Animating    bool
}

// ActiveSlide returns the active slide, if any.
func (f Frame) ActiveSlide() (Slide, bool) {
	for _, s := range f.Slides {
		if s.Active {
			return s, true
		}
	}
	return Slide{}, false
}

// Render computes the frame for s. It has no side effects.
func Render(s State) Frame {
	f := Frame{
		Header:          s.Header,
		Date:            FormatDate(s.Now),
		Time:            FormatTime(s.Now),
		Role:            RegionRole,
		RoleDescription: RegionRoleDescription,
		Label:           RegionLabel,
		Live:            RegionLive,
		OverlayShown:    s.OverlayShown,
		Animating:       s.Animating,
	}
	if s.OverlayShown {
		f.OverlayRef = s.Overlay
	}

	if s.Container.Fluid || s.Container.Width <= 0 || s.Container.Height <= 0 {
		f.Container = Box{Fluid: true, MaxWidthPercent: 100}
	} else {
		f.Container = Box{Width: s.Container.Width, Height: s.Container.Height, MaxWidthPercent: 100}
	}

	var current string
	if s.Index >= 0 && s.Index < len(s.Sequence) {
		current = s.Sequence[s.Index]
	}
	for _, ref := range UniqueImages(s.Sequence) {
		active := ref == current
		load, loaded := s.Loaded[ref]
		f.Slides = append(f.Slides, Slide{
			Ref:         ref,
			Active:      active,
			Hidden:      !active,
			Interactive: active,
			Transition:  s.Fade,
			Load:        load,
			Loaded:      loaded,
		})
	}
	return f
}
