package carousel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/carousel-stack/pkg/image"
)

// --- helpers ---

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

// fakeProber answers from a table; unknown refs fail.
type fakeProber struct {
	mu    sync.Mutex
	dims  map[string]image.Dimensions
	calls []string
}

func (p *fakeProber) Probe(ctx context.Context, ref string) (image.Dimensions, error) {
	p.mu.Lock()
	p.calls = append(p.calls, ref)
	p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return image.Dimensions{}, err
	}
	d, ok := p.dims[ref]
	if !ok {
		return image.Dimensions{}, errors.New("not found")
	}
	return d, nil
}

// fakeImages answers render requests inline and records each one as
// "ref colsxrows". A held fake never calls back.
type fakeImages struct {
	mu    sync.Mutex
	calls []string
	hold  bool
}

func (f *fakeImages) RenderRefAsync(_ context.Context, ref string, cols, rows int, callback func(string, error)) func() {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("%s %dx%d", ref, cols, rows))
	hold := f.hold
	f.mu.Unlock()
	switch {
	case hold:
	case strings.HasPrefix(ref, "broken"):
		callback("", errors.New("decode failed"))
	default:
		callback(fmt.Sprintf("IMG[%s %dx%d]", ref, cols, rows), nil)
	}
	return func() {}
}

func (f *fakeImages) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

var testNow = time.Date(2024, time.January, 5, 0, 5, 9, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestModel(t *testing.T, opts Options) *Model {
	t.Helper()
	if opts.Bottom == nil {
		opts.Bottom = []string{"a.png", "b.png", "c.png"}
	}
	if opts.Prober == nil {
		opts.Prober = &fakeProber{dims: map[string]image.Dimensions{
			"a.png": {Width: 400, Height: 300},
			"b.png": {Width: 200, Height: 100},
			"c.png": {Width: 640, Height: 480},
		}}
	}
	if opts.Clock == nil {
		opts.Clock = &fixedClock{t: testNow}
	}
	if opts.Header == "" {
		opts.Header = "header.jpeg"
	}
	if opts.Overlay == "" {
		opts.Overlay = "overlay.jpg"
	}
	opts.Logger = discardLogger()
	m := New(opts)
	t.Cleanup(m.Close)
	return m
}

func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// publish runs a preload to completion and feeds the result back.
func publish(m *Model) {
	send(m, m.startPreload()())
}

func leftClick() tea.MouseMsg {
	return tea.MouseMsg{X: 3, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

// --- sequence ---

func TestBuildSequence(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"three", []string{"A", "B", "C"}, []string{"A", "B", "C", "B", "A", "B", "C"}},
		{"empty", nil, nil},
		{"one", []string{"A"}, []string{"A"}},
		{"two", []string{"A", "B"}, []string{"A", "B"}},
		{"extra ignored", []string{"A", "B", "C", "D"}, []string{"A", "B", "C", "B", "A", "B", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSequence(tt.in)
			if !slices.Equal(got, tt.want) {
				t.Errorf("BuildSequence(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildSequenceCopiesShortInput(t *testing.T) {
	in := []string{"A", "B"}
	out := BuildSequence(in)
	out[0] = "Z"
	if in[0] != "A" {
		t.Error("BuildSequence aliased its input")
	}
}

func TestUniqueImages(t *testing.T) {
	got := UniqueImages(BuildSequence([]string{"A", "B", "C"}))
	if want := []string{"A", "B", "C"}; !slices.Equal(got, want) {
		t.Errorf("UniqueImages = %v, want %v", got, want)
	}
	got = UniqueImages([]string{"B", "A", "B", "A"})
	if want := []string{"B", "A"}; !slices.Equal(got, want) {
		t.Errorf("UniqueImages = %v, want %v", got, want)
	}
}

// --- clock ---

func TestFormatTime(t *testing.T) {
	tests := []struct {
		h, m, s int
		want    string
	}{
		{0, 5, 9, "12:05:09 AM"},
		{13, 0, 0, "1:00:00 PM"},
		{12, 0, 0, "12:00:00 PM"},
		{11, 59, 59, "11:59:59 AM"},
		{23, 1, 2, "11:01:02 PM"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			at := time.Date(2024, 1, 5, tt.h, tt.m, tt.s, 0, time.UTC)
			if got := FormatTime(at); got != tt.want {
				t.Errorf("FormatTime(%02d:%02d:%02d) = %q, want %q", tt.h, tt.m, tt.s, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)); got != "1/5/2024" {
		t.Errorf("FormatDate = %q, want 1/5/2024", got)
	}
	if got := FormatDate(time.Date(1999, time.December, 31, 0, 0, 0, 0, time.UTC)); got != "12/31/1999" {
		t.Errorf("FormatDate = %q, want 12/31/1999", got)
	}
}

// --- rotator ---

func TestRotatorIndexAfterKTicks(t *testing.T) {
	var r Rotator
	if !r.Restart(7, false) {
		t.Fatal("Restart(7, false) should start a timer")
	}
	gen := r.Generation()
	for k := 1; k <= 20; k++ {
		if !r.Tick(gen) {
			t.Fatalf("tick %d ignored", k)
		}
		if r.Index() != k%7 {
			t.Fatalf("after %d ticks index = %d, want %d", k, r.Index(), k%7)
		}
		if !r.Animating() {
			t.Fatalf("tick %d did not set animating", k)
		}
	}
}

func TestRotatorStaleGenerationIgnored(t *testing.T) {
	var r Rotator
	r.Restart(3, false)
	old := r.Generation()
	r.Restart(3, false)
	if r.Tick(old) {
		t.Error("tick from a canceled timer advanced the rotator")
	}
	if r.Index() != 0 {
		t.Errorf("index = %d, want 0", r.Index())
	}
}

func TestRotatorPausedAndEmpty(t *testing.T) {
	var r Rotator
	if r.Restart(7, true) {
		t.Error("paused Restart should not schedule")
	}
	if r.State() != Idle {
		t.Errorf("state = %v, want idle", r.State())
	}
	if r.Tick(r.Generation()) {
		t.Error("idle rotator ticked")
	}
	if r.Restart(0, false) {
		t.Error("empty sequence should not schedule")
	}
}

func TestRotatorClampsIndexOnShorterSequence(t *testing.T) {
	var r Rotator
	r.Restart(7, false)
	for range 5 {
		r.Tick(r.Generation())
	}
	r.Restart(2, false)
	if r.Index() != 0 {
		t.Errorf("index = %d after shrinking, want 0", r.Index())
	}
}

func TestRotatorStop(t *testing.T) {
	var r Rotator
	r.Restart(3, false)
	gen := r.Generation()
	r.Stop()
	if r.Tick(gen) || r.State() != Idle {
		t.Error("stopped rotator still ticks")
	}
	if Running.String() != "running" || Idle.String() != "idle" {
		t.Error("unexpected RotatorState strings")
	}
}

// --- preload ---

func TestPreloaderRecordsFailuresAsData(t *testing.T) {
	p := &fakeProber{dims: map[string]image.Dimensions{"a": {Width: 10, Height: 20}}}
	got := NewPreloader(p, discardLogger()).Load(context.Background(), []string{"a", "missing"})
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got["a"] != (LoadResult{Width: 10, Height: 20, OK: true}) {
		t.Errorf("a = %+v", got["a"])
	}
	if got["missing"] != (LoadResult{}) {
		t.Errorf("missing = %+v, want zero failure", got["missing"])
	}
}

func TestPreloaderProbesEachRefOnce(t *testing.T) {
	p := &fakeProber{dims: map[string]image.Dimensions{}}
	refs := UniqueImages(BuildSequence([]string{"a", "b", "c"}))
	NewPreloader(p, nil).Load(context.Background(), refs)
	slices.Sort(p.calls)
	if want := []string{"a", "b", "c"}; !slices.Equal(p.calls, want) {
		t.Errorf("probed %v, want %v", p.calls, want)
	}
}

func TestContainerSize(t *testing.T) {
	seq := BuildSequence([]string{"a", "b", "c"})
	tests := []struct {
		name    string
		results map[string]LoadResult
		want    Size
	}{
		{"all failed", map[string]LoadResult{"a": {}, "b": {}, "c": {}}, Size{Fluid: true}},
		{"first ok", map[string]LoadResult{"a": {400, 300, true}, "b": {}, "c": {}}, Size{Width: 400, Height: 300}},
		{"only later ok", map[string]LoadResult{"a": {}, "b": {10, 10, true}}, Size{Fluid: true}},
		{"no results", nil, Size{Fluid: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainerSize(seq, tt.results); got != tt.want {
				t.Errorf("ContainerSize = %+v, want %+v", got, tt.want)
			}
		})
	}
	if got := ContainerSize(nil, nil); !got.Fluid {
		t.Errorf("empty sequence = %+v, want fluid", got)
	}
}

// --- render ---

func TestRenderMarksExactlyOneActive(t *testing.T) {
	seq := BuildSequence([]string{"a", "b", "c"})
	for idx := range seq {
		f := Render(State{Sequence: seq, Index: idx, Now: testNow, Fade: 700 * time.Millisecond})
		if len(f.Slides) != 3 {
			t.Fatalf("index %d: %d slides, want 3", idx, len(f.Slides))
		}
		active := 0
		for _, s := range f.Slides {
			if s.Active {
				active++
				if s.Ref != seq[idx] || s.Hidden || !s.Interactive {
					t.Errorf("index %d: bad active slide %+v", idx, s)
				}
			} else if !s.Hidden || s.Interactive {
				t.Errorf("index %d: inactive slide visible %+v", idx, s)
			}
			if s.Transition != 700*time.Millisecond {
				t.Errorf("transition = %v, want 700ms", s.Transition)
			}
		}
		if active != 1 {
			t.Errorf("index %d: %d active slides", idx, active)
		}
	}
}

func TestRenderRegionAndClock(t *testing.T) {
	f := Render(State{Header: "h.jpeg", Now: testNow})
	if f.Role != "region" || f.RoleDescription != "carousel" || f.Label != "Bottom images carousel" || f.Live != "polite" {
		t.Errorf("unexpected region labels: %+v", f)
	}
	if f.Date != "1/5/2024" || f.Time != "12:05:09 AM" {
		t.Errorf("date/time = %q %q", f.Date, f.Time)
	}
	if f.Header != "h.jpeg" {
		t.Errorf("header = %q", f.Header)
	}
	if _, ok := f.ActiveSlide(); ok {
		t.Error("empty sequence should have no active slide")
	}
}

func TestRenderContainer(t *testing.T) {
	f := Render(State{Container: Size{Width: 400, Height: 300}})
	if f.Container != (Box{Width: 400, Height: 300, MaxWidthPercent: 100}) {
		t.Errorf("sized container = %+v", f.Container)
	}
	f = Render(State{Container: Size{Fluid: true}})
	if !f.Container.Fluid || f.Container.Width != 0 || f.Container.Height != 0 {
		t.Errorf("fluid container = %+v", f.Container)
	}
}

func TestRenderOverlay(t *testing.T) {
	f := Render(State{Overlay: "o.jpg"})
	if f.OverlayShown || f.OverlayRef != "" {
		t.Errorf("hidden overlay rendered: %+v", f)
	}
	f = Render(State{Overlay: "o.jpg", OverlayShown: true})
	if !f.OverlayShown || f.OverlayRef != "o.jpg" {
		t.Errorf("shown overlay missing: %+v", f)
	}
}

// --- model ---

func TestModelInitSchedules(t *testing.T) {
	m := newTestModel(t, Options{})
	if m.Init() == nil {
		t.Fatal("Init() returned nil")
	}
	if m.RotatorState() != Running {
		t.Errorf("rotator state = %v, want running", m.RotatorState())
	}
	if got := m.Sequence(); len(got) != 7 {
		t.Errorf("sequence = %v", got)
	}
	if got := slices.Clone(m.unique); !slices.Equal(got, []string{"a.png", "b.png", "c.png"}) {
		t.Errorf("unique = %v", got)
	}
}

func TestModelRotationTicks(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Init()
	gen := m.rotator.Generation()
	for k := 1; k <= 10; k++ {
		if cmd := send(m, rotateTickMsg{gen: gen}); cmd == nil {
			t.Fatalf("tick %d did not reschedule", k)
		}
		if m.Index() != k%7 {
			t.Fatalf("after %d ticks index = %d, want %d", k, m.Index(), k%7)
		}
	}
	if !m.Animating() {
		t.Error("animating should be set after a tick")
	}
	send(m, fadeClearMsg{})
	if m.Animating() {
		t.Error("fade clear did not reset animating")
	}
}

func TestModelOverlayPausesAndResumes(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Init()
	gen := m.rotator.Generation()
	send(m, rotateTickMsg{gen: gen})

	if cmd := send(m, leftClick()); cmd != nil {
		t.Error("showing the overlay should not schedule a tick")
	}
	if !m.OverlayShown() || m.RotatorState() != Idle {
		t.Fatalf("overlay=%v state=%v after click", m.OverlayShown(), m.RotatorState())
	}
	for range 5 {
		send(m, rotateTickMsg{gen: gen})
		send(m, rotateTickMsg{gen: m.rotator.Generation()})
	}
	if m.Index() != 1 {
		t.Errorf("index moved while overlay shown: %d", m.Index())
	}
	if !m.Frame().OverlayShown || m.Frame().OverlayRef != "overlay.jpg" {
		t.Error("frame does not show the overlay")
	}

	if cmd := send(m, leftClick()); cmd == nil {
		t.Error("hiding the overlay should schedule a tick")
	}
	if m.OverlayShown() || m.RotatorState() != Running {
		t.Fatalf("overlay=%v state=%v after second click", m.OverlayShown(), m.RotatorState())
	}
	send(m, rotateTickMsg{gen: gen})
	if m.Index() != 1 {
		t.Error("tick from the timer canceled by the overlay advanced the index")
	}
	send(m, rotateTickMsg{gen: m.rotator.Generation()})
	if m.Index() != 2 {
		t.Errorf("index = %d after resume, want 2", m.Index())
	}
}

func TestModelIgnoresOtherMouseEvents(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Init()
	send(m, tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	send(m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	send(m, tea.MouseMsg{Action: tea.MouseActionMotion})
	if m.OverlayShown() {
		t.Error("non-click mouse event toggled the overlay")
	}
}

func TestModelKeys(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Init()

	send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.OverlayShown() {
		t.Error("space did not toggle the overlay")
	}
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.OverlayShown() {
		t.Error("enter did not toggle the overlay")
	}

	send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !m.help.ShowAll {
		t.Error("? did not expand help")
	}

	cmd := send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if m.Alive() {
		t.Error("quit should close the model")
	}
}

func TestModelClockTick(t *testing.T) {
	clk := &fixedClock{t: testNow}
	m := newTestModel(t, Options{Clock: clk})
	clk.t = time.Date(2024, time.March, 9, 13, 0, 0, 0, time.UTC)
	if cmd := send(m, clockTickMsg{}); cmd == nil {
		t.Error("clock tick did not reschedule")
	}
	f := m.Frame()
	if f.Date != "3/9/2024" || f.Time != "1:00:00 PM" {
		t.Errorf("frame date/time = %q %q", f.Date, f.Time)
	}
}

func TestModelPreloadSizesContainer(t *testing.T) {
	m := newTestModel(t, Options{})
	if !m.Container().Fluid {
		t.Error("container should be fluid before preload")
	}
	publish(m)
	if got := m.Container(); got != (Size{Width: 400, Height: 300}) {
		t.Errorf("container = %+v, want 400x300", got)
	}
	if len(m.Loaded()) != 3 {
		t.Errorf("loaded = %v", m.Loaded())
	}
	if got := m.Frame().Container; got.Width != 400 || got.Height != 300 || got.MaxWidthPercent != 100 {
		t.Errorf("frame container = %+v", got)
	}
}

func TestModelAllLoadsFailFluid(t *testing.T) {
	m := newTestModel(t, Options{Prober: &fakeProber{}})
	publish(m)
	if !m.Container().Fluid {
		t.Errorf("container = %+v, want fluid", m.Container())
	}
	for ref, r := range m.Loaded() {
		if r.OK || r.Width != 0 || r.Height != 0 {
			t.Errorf("%s = %+v, want zero failure", ref, r)
		}
	}
}

func TestModelStalePreloadDropped(t *testing.T) {
	m := newTestModel(t, Options{})
	first := m.startPreload()
	second := m.startPreload()

	send(m, first())
	if m.Loaded() != nil {
		t.Fatal("superseded preload was published")
	}
	send(m, second())
	if m.Loaded() == nil {
		t.Fatal("current preload was not published")
	}
}

func TestModelSetImages(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Init()
	publish(m)

	send(m, SetImagesMsg{Header: "h2.jpeg", Overlay: "o2.jpg", Bottom: []string{"a.png", "b.png", "c.png"}})
	if m.Loaded() == nil {
		t.Error("unchanged bottom images should keep load results")
	}
	if f := m.Frame(); f.Header != "h2.jpeg" {
		t.Errorf("header = %q", f.Header)
	}

	cmd := send(m, SetImagesMsg{Header: "h2.jpeg", Overlay: "o2.jpg", Bottom: []string{"x.png", "y.png"}})
	if cmd == nil {
		t.Fatal("changed bottom images should restart preload")
	}
	if m.Loaded() != nil || !m.Container().Fluid {
		t.Error("changed bottom images should discard load results")
	}
	if got := slices.Clone(m.unique); !slices.Equal(got, []string{"x.png", "y.png"}) {
		t.Errorf("unique = %v", got)
	}
	if m.Index() != 0 {
		t.Errorf("index = %d, want 0", m.Index())
	}
}

func TestModelSetImagesEmptyStopsRotation(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Init()
	send(m, SetImagesMsg{Header: "h", Overlay: "o"})
	if m.RotatorState() != Idle {
		t.Errorf("state = %v with no images, want idle", m.RotatorState())
	}
	if _, ok := m.Frame().ActiveSlide(); ok {
		t.Error("no images should mean no active slide")
	}
}

func TestModelCloseDropsLateResults(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Init()
	gen := m.rotator.Generation()
	preload := m.startPreload()

	m.Close()
	m.Close()

	msg := preload()
	if cmd := send(m, msg); cmd != nil {
		t.Error("closed model returned a command")
	}
	if m.Loaded() != nil {
		t.Error("closed model published preload results")
	}
	send(m, rotateTickMsg{gen: gen})
	send(m, leftClick())
	if m.Index() != 0 || m.OverlayShown() {
		t.Error("closed model changed state")
	}
	if m.View() != "" {
		t.Error("closed model still paints")
	}
	if m.Init() != nil {
		t.Error("closed model Init scheduled work")
	}
}

func TestModelCloseCancelsInflightProbes(t *testing.T) {
	m := newTestModel(t, Options{})
	preload := m.startPreload()
	m.Close()
	done := preload().(preloadDoneMsg)
	for ref, r := range done.results {
		if r.OK {
			t.Errorf("%s probed after teardown", ref)
		}
	}
}

func TestModelLayout(t *testing.T) {
	m := newTestModel(t, Options{CellWidth: 8, CellHeight: 16})
	send(m, tea.WindowSizeMsg{Width: 80, Height: 40})

	l := m.layout()
	if l.headerRows != 10 {
		t.Errorf("header rows = %d, want 10", l.headerRows)
	}
	if l.boxCols != 78 || l.boxRows != 25 {
		t.Errorf("fluid box = %dx%d, want 78x25", l.boxCols, l.boxRows)
	}

	publish(m)
	l = m.layout()
	if l.boxCols != 50 || l.boxRows != 19 {
		t.Errorf("sized box = %dx%d, want 50x19", l.boxCols, l.boxRows)
	}

	send(m, tea.WindowSizeMsg{Width: 30, Height: 40})
	l = m.layout()
	if l.boxCols > 28 {
		t.Errorf("box %d cols exceeds available width", l.boxCols)
	}
}

func TestModelViewText(t *testing.T) {
	m := newTestModel(t, Options{})
	send(m, tea.WindowSizeMsg{Width: 80, Height: 30})
	v := m.View()
	for _, want := range []string{"1/5/2024", "12:05:09 AM", "header.jpeg", "a.png", "quit"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
}

func TestModelViewImages(t *testing.T) {
	imgs := &fakeImages{}
	m := newTestModel(t, Options{Images: imgs})
	m.runSync(send(m, tea.WindowSizeMsg{Width: 80, Height: 40}))
	m.Settle()

	v := m.View()
	if !strings.Contains(v, "IMG[a.png 50x19]") {
		t.Errorf("view missing the active slide:\n%s", v)
	}
	if !strings.Contains(v, "IMG[header.jpeg 80x10]") {
		t.Errorf("view missing the header:\n%s", v)
	}

	send(m, leftClick())
	if v := m.View(); !strings.Contains(v, "IMG[overlay.jpg 50x19]") || strings.Contains(v, "IMG[a.png") {
		t.Errorf("overlay not painted in place of the slide:\n%s", v)
	}
}

func TestModelViewNeverRenders(t *testing.T) {
	imgs := &fakeImages{hold: true}
	m := newTestModel(t, Options{Images: imgs})
	send(m, tea.WindowSizeMsg{Width: 80, Height: 40})
	publish(m)

	before := imgs.count("")
	for range 3 {
		v := m.View()
		if !strings.Contains(v, "header.jpeg") || !strings.Contains(v, "a.png") {
			t.Errorf("pending renders should show captions:\n%s", v)
		}
	}
	if got := imgs.count(""); got != before {
		t.Errorf("View issued %d render requests", got-before)
	}
}

func TestModelRenderFailureNotRetried(t *testing.T) {
	imgs := &fakeImages{}
	m := newTestModel(t, Options{Images: imgs, Header: "broken.jpeg"})
	m.runSync(send(m, tea.WindowSizeMsg{Width: 80, Height: 30}))

	for range 3 {
		if v := m.View(); !strings.Contains(v, "broken.jpeg unavailable") {
			t.Errorf("view missing failure caption:\n%s", v)
		}
	}
	send(m, clockTickMsg{})
	m.runSync(send(m, tea.WindowSizeMsg{Width: 80, Height: 30}))
	if got := imgs.count("broken.jpeg"); got != 1 {
		t.Errorf("failing header rendered %d times, want 1", got)
	}

	m.runSync(send(m, tea.WindowSizeMsg{Width: 100, Height: 30}))
	if got := imgs.count("broken.jpeg 100x"); got != 1 {
		t.Errorf("resize should render once at the new size, got %d", got)
	}
}

func TestModelRendersFollowPreloadGeneration(t *testing.T) {
	imgs := &fakeImages{hold: true}
	m := newTestModel(t, Options{Images: imgs})
	send(m, tea.WindowSizeMsg{Width: 80, Height: 40})
	stale := renderDoneMsg{key: renderKey{ref: "header.jpeg", cols: 80, rows: 10, gen: m.preloadGen}, out: "STALE"}

	publish(m)
	send(m, stale)
	if strings.Contains(m.View(), "STALE") {
		t.Error("render from a superseded preload was painted")
	}
	if len(m.pending) != 5 {
		t.Errorf("pending = %d, want header, three slides and overlay", len(m.pending))
	}

	m.Close()
	if len(m.pending) != 0 {
		t.Errorf("Close left %d renders in flight", len(m.pending))
	}
}

func TestModelViewFailedSlide(t *testing.T) {
	m := newTestModel(t, Options{Images: &fakeImages{}, Bottom: []string{"broken.png"}})
	send(m, tea.WindowSizeMsg{Width: 80, Height: 30})
	publish(m)
	if v := m.View(); !strings.Contains(v, "broken.png failed to load") {
		t.Errorf("view missing failure placeholder:\n%s", v)
	}
}

func TestModelRequestsSlidesAfterPreload(t *testing.T) {
	imgs := &fakeImages{hold: true}
	m := newTestModel(t, Options{Images: imgs, CellWidth: 8, CellHeight: 16})
	send(m, tea.WindowSizeMsg{Width: 80, Height: 40})
	if imgs.count("a.png") != 0 || imgs.count("header.jpeg 80x10") != 1 {
		t.Errorf("before preload calls = %v, want only the header", imgs.calls)
	}

	if cmd := send(m, m.startPreload()()); cmd == nil {
		t.Fatal("publishing a preload should request the slides")
	}
	for _, want := range []string{"a.png 50x19", "b.png 50x19", "c.png 50x19", "overlay.jpg 50x19"} {
		if n := imgs.count(want); n != 1 {
			t.Errorf("%s requested %d times, want 1", want, n)
		}
	}
	// the new generation supersedes the header requested at startup
	if n := imgs.count("header.jpeg 80x10"); n != 2 {
		t.Errorf("header requested %d times, want 2", n)
	}
}

func TestModelViewDotsFollowIndex(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Init()
	send(m, rotateTickMsg{gen: m.rotator.Generation()})
	s, ok := m.Frame().ActiveSlide()
	if !ok || s.Ref != "b.png" {
		t.Errorf("active slide = %+v, want b.png", s)
	}
	if dots := m.paintDots(m.Frame()); strings.Count(dots, "●") != 1 || strings.Count(dots, "○") != 2 {
		t.Errorf("dots = %q", dots)
	}
}
