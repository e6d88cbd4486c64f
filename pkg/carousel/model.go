package carousel

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/carousel-stack/pkg/image"
	"gitlab.com/tinyland/lab/carousel-stack/pkg/theme"
)

// Default cadences.
const (
	DefaultRotateInterval = time.Second
	DefaultFadeDuration   = 700 * time.Millisecond
	DefaultClockInterval  = time.Second
)

const rootZone = "carousel-root"

// ImageRenderer rasterizes an image reference into a cols x rows block of
// terminal cells off the UI loop. callback runs at most once, on another
// goroutine, and never after cancel returns.
type ImageRenderer interface {
	RenderRefAsync(ctx context.Context, ref string, cols, rows int, callback func(string, error)) (cancel func())
}

// Options configures a Model. Zero durations use the defaults.
type Options struct {
	Header  string
	Overlay string
	Bottom  []string

	RotateInterval time.Duration
	FadeDuration   time.Duration
	ClockInterval  time.Duration

	Prober image.Prober
	Images ImageRenderer // nil draws text placeholders

	// Cell pixel size used to convert natural image size to cells.
	CellWidth  int
	CellHeight int

	Clock  Clock
	Theme  theme.Theme
	Keys   KeyMap
	Zones  *zone.Manager // nil treats every left press as inside the root
	Logger *slog.Logger
}

// Model is the carousel screen. All state is owned by the model and only
// written from Update.
type Model struct {
	header  string
	overlay string
	bottom  []string

	seq    []string
	unique []string

	rotator      Rotator
	overlayShown bool
	now          time.Time

	loaded     map[string]LoadResult
	container  Size
	preloadGen uint64

	renders map[renderKey]renderResult
	pending map[renderKey]func()

	alive         bool
	ctx           context.Context
	cancel        context.CancelFunc
	preloadCancel context.CancelFunc

	rotateInterval time.Duration
	fadeDuration   time.Duration
	clockInterval  time.Duration

	preloader *Preloader
	images    ImageRenderer
	cellW     int
	cellH     int
	clock     Clock
	zones     *zone.Manager
	logger    *slog.Logger

	keys   KeyMap
	help   help.Model
	styles theme.Styles

	width  int
	height int
}

// New creates a Model. Timers and preloading start in Init.
func New(opts Options) *Model {
	if opts.RotateInterval <= 0 {
		opts.RotateInterval = DefaultRotateInterval
	}
	if opts.FadeDuration <= 0 {
		opts.FadeDuration = DefaultFadeDuration
	}
	if opts.ClockInterval <= 0 {
		opts.ClockInterval = DefaultClockInterval
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Prober == nil {
		opts.Prober = image.NewConfigProber(0)
	}
	if opts.Theme.Name == "" {
		opts.Theme = theme.Get("default")
	}
	if !opts.Keys.Quit.Enabled() {
		opts.Keys = DefaultKeyMap()
	}
	if opts.CellWidth <= 0 || opts.CellHeight <= 0 {
		opts.CellWidth, opts.CellHeight = 8, 16
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := help.New()
	styles := theme.NewStyles(opts.Theme)
	h.Styles.ShortKey = styles.HelpKey
	h.Styles.ShortDesc = styles.HelpDesc
	h.Styles.FullKey = styles.HelpKey
	h.Styles.FullDesc = styles.HelpDesc

	m := &Model{
		header:         opts.Header,
		overlay:        opts.Overlay,
		alive:          true,
		ctx:            ctx,
		cancel:         cancel,
		rotateInterval: opts.RotateInterval,
		fadeDuration:   opts.FadeDuration,
		clockInterval:  opts.ClockInterval,
		preloader:      NewPreloader(opts.Prober, opts.Logger),
		images:         opts.Images,
		renders:        make(map[renderKey]renderResult),
		pending:        make(map[renderKey]func()),
		cellW:          opts.CellWidth,
		cellH:          opts.CellHeight,
		clock:          opts.Clock,
		zones:          opts.Zones,
		logger:         opts.Logger,
		keys:           opts.Keys,
		help:           h,
		styles:         styles,
		now:            opts.Clock.Now(),
	}
	m.setBottom(opts.Bottom)
	return m
}

// Init starts the clock, the rotator and the first preload.
func (m *Model) Init() tea.Cmd {
	if !m.alive {
		return nil
	}
	m.now = m.clock.Now()
	return tea.Batch(
		m.clockCmd(),
		m.startPreload(),
		m.restartRotation(),
	)
}

// Update handles messages. Once the model is closed every message is
// dropped.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.alive {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, m.requestRenders()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			return m, m.ToggleOverlay()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.inRoot(msg) {
			return m, m.ToggleOverlay()
		}
		return m, nil

	case clockTickMsg:
		m.now = m.clock.Now()
		return m, m.clockCmd()

	case rotateTickMsg:
		if !m.rotator.Tick(msg.gen) {
			return m, nil
		}
		return m, tea.Batch(m.fadeCmd(), m.rotateCmd(msg.gen))

	case fadeClearMsg:
		m.rotator.ClearAnimating()
		return m, nil

	case preloadDoneMsg:
		if msg.gen != m.preloadGen {
			m.logger.Debug("dropping stale preload", "gen", msg.gen, "current", m.preloadGen)
			return m, nil
		}
		m.loaded = msg.results
		m.container = ContainerSize(m.seq, m.loaded)
		m.logger.Debug("preload published", "images", len(m.loaded), "container", m.container)
		return m, m.requestRenders()

	case renderDoneMsg:
		m.finishRender(msg)
		return m, nil

	case SetImagesMsg:
		return m, m.setImages(msg)
	}

	return m, nil
}

// Close tears the model down: timers are orphaned, in-flight preloads are
// canceled and any message delivered afterwards is dropped. Close is
// idempotent.
func (m *Model) Close() {
	if !m.alive {
		return
	}
	m.alive = false
	m.rotator.Stop()
	if m.preloadCancel != nil {
		m.preloadCancel()
	}
	m.resetRenders()
	m.cancel()
}

// ToggleOverlay flips the overlay flag. Showing it pauses rotation; hiding
// it restarts the rotation cadence from zero.
func (m *Model) ToggleOverlay() tea.Cmd {
	if !m.alive {
		return nil
	}
	m.overlayShown = !m.overlayShown
	return m.restartRotation()
}

// Settle runs a preload and the renders it triggers to completion on the
// caller's goroutine. It serves one-shot rendering without a program loop.
func (m *Model) Settle() {
	if !m.alive {
		return
	}
	m.runSync(m.startPreload())
}

// runSync executes cmd and feeds its messages back into Update until no
// work is left. Timer commands would block, so only preload and render
// chains may pass through here.
func (m *Model) runSync(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			m.runSync(c)
		}
	default:
		_, next := m.Update(msg)
		m.runSync(next)
	}
}

func (m *Model) setImages(msg SetImagesMsg) tea.Cmd {
	m.header = msg.Header
	m.overlay = msg.Overlay
	if slices.Equal(msg.Bottom, m.bottom) {
		return m.requestRenders()
	}
	m.setBottom(msg.Bottom)
	return tea.Batch(m.startPreload(), m.restartRotation(), m.requestRenders())
}

// setBottom rebuilds the sequence and discards every prior load result.
func (m *Model) setBottom(bottom []string) {
	m.bottom = slices.Clone(bottom)
	m.seq = BuildSequence(m.bottom)
	m.unique = UniqueImages(m.seq)
	m.loaded = nil
	m.container = Size{Fluid: true}
}

func (m *Model) restartRotation() tea.Cmd {
	if !m.rotator.Restart(len(m.seq), m.overlayShown) {
		return nil
	}
	return m.rotateCmd(m.rotator.Generation())
}

// startPreload supersedes any running preload, and every render keyed to
// it, and probes the current unique set.
func (m *Model) startPreload() tea.Cmd {
	m.preloadGen++
	if m.preloadCancel != nil {
		m.preloadCancel()
	}
	m.resetRenders()
	ctx, cancel := context.WithCancel(m.ctx)
	m.preloadCancel = cancel

	gen := m.preloadGen
	refs := slices.Clone(m.unique)
	p := m.preloader
	return func() tea.Msg {
		return preloadDoneMsg{gen: gen, results: p.Load(ctx, refs)}
	}
}

func (m *Model) clockCmd() tea.Cmd {
	return tea.Tick(m.clockInterval, func(time.Time) tea.Msg {
		return clockTickMsg{}
	})
}

func (m *Model) rotateCmd(gen uint64) tea.Cmd {
	return tea.Tick(m.rotateInterval, func(time.Time) tea.Msg {
		return rotateTickMsg{gen: gen}
	})
}

func (m *Model) fadeCmd() tea.Cmd {
	return tea.Tick(m.fadeDuration, func(time.Time) tea.Msg {
		return fadeClearMsg{}
	})
}

func (m *Model) inRoot(msg tea.MouseMsg) bool {
	if m.zones == nil {
		return true
	}
	z := m.zones.Get(rootZone)
	if z.IsZero() {
		return true
	}
	return z.InBounds(msg)
}

// State snapshots the model for Render.
func (m *Model) State() State {
	return State{
		Header:       m.header,
		Overlay:      m.overlay,
		Sequence:     m.seq,
		Index:        m.rotator.Index(),
		Animating:    m.rotator.Animating(),
		OverlayShown: m.overlayShown,
		Now:          m.now,
		Loaded:       m.loaded,
		Container:    m.container,
		Fade:         m.fadeDuration,
	}
}

// Frame renders the current state headlessly.
func (m *Model) Frame() Frame { return Render(m.State()) }

func (m *Model) Index() int { return m.rotator.Index() }

func (m *Model) Animating() bool { return m.rotator.Animating() }

func (m *Model) RotatorState() RotatorState { return m.rotator.State() }

func (m *Model) OverlayShown() bool { return m.overlayShown }

func (m *Model) Sequence() []string { return slices.Clone(m.seq) }

func (m *Model) Loaded() map[string]LoadResult { return m.loaded }

func (m *Model) Container() Size { return m.container }

// Alive reports whether Close has not been called.
func (m *Model) Alive() bool { return m.alive }
