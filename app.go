package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/carousel-stack/pkg/carousel"
	"gitlab.com/tinyland/lab/carousel-stack/pkg/config"
	"gitlab.com/tinyland/lab/carousel-stack/pkg/image"
	"gitlab.com/tinyland/lab/carousel-stack/pkg/terminal"
	"gitlab.com/tinyland/lab/carousel-stack/pkg/theme"
)

// flagOverrides are command-line values that win over the config file.
type flagOverrides struct {
	AssetDir string
	Protocol string
	Theme    string
	Verbose  bool
}

// loadConfig reads path, or the first config on the search path when path
// is empty. The returned file name is "" when defaults were used.
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		path = config.Locate()
		if path == "" {
			cfg, err := config.Load()
			return cfg, "", err
		}
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, "", err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return cfg, "", nil
	}
	return cfg, path, nil
}

func applyFlags(cfg *config.Config, f flagOverrides) {
	if f.AssetDir != "" {
		cfg.Carousel.AssetDir = f.AssetDir
	}
	if f.Protocol != "" {
		cfg.Image.Protocol = f.Protocol
	}
	if f.Theme != "" {
		cfg.Theme.Name = f.Theme
	}
	if f.Verbose {
		cfg.General.LogLevel = "debug"
	}
}

// setupLogging writes structured logs to the configured file. The terminal
// belongs to the TUI, so nothing is logged to stdout or stderr.
func setupLogging(gc config.GeneralConfig) (*slog.Logger, io.Closer, error) {
	if err := ensureLogDir(gc.LogFile); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(gc.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: parseLevel(gc.LogLevel),
	}))
	return logger, f, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ensureLogDir(logFile string) error {
	dir := filepath.Dir(logFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log dir %s: %w", dir, err)
	}
	return nil
}

// loadTheme resolves the configured theme, loading a theme file first when
// one is named, and adapts it to the terminal's color profile.
func loadTheme(tc config.ThemeConfig, caps terminal.Capabilities) (theme.Theme, error) {
	name := tc.Name
	var err error
	if tc.File != "" {
		var t theme.Theme
		if t, err = theme.LoadFile(tc.File); err == nil {
			name = t.Name
		}
	}
	if _, ok := theme.Lookup(name); !ok && err == nil {
		err = fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(theme.Names(), ", "))
	}
	return theme.ForProfile(name, caps.Profile), err
}

// modelOptions maps the config onto carousel options. Images are drawn
// through the async pool so the UI loop never decodes.
func modelOptions(cfg *config.Config, ar *image.AsyncRenderer, th theme.Theme, logger *slog.Logger) carousel.Options {
	cellW, cellH := ar.Renderer().CellSize()
	c := cfg.Carousel
	return carousel.Options{
		Header:         c.ResolvePath(c.Header),
		Overlay:        c.ResolvePath(c.Overlay),
		Bottom:         c.BottomRefs(),
		RotateInterval: c.RotateInterval.Duration,
		FadeDuration:   c.FadeDuration.Duration,
		ClockInterval:  c.ClockInterval.Duration,
		Prober:         image.NewConfigProber(cfg.Image.ProbeTimeout.Duration),
		Images:         ar,
		CellWidth:      cellW,
		CellHeight:     cellH,
		Theme:          th,
		Logger:         logger,
	}
}

func imagesMsg(c config.CarouselConfig) carousel.SetImagesMsg {
	return carousel.SetImagesMsg{
		Header:  c.ResolvePath(c.Header),
		Overlay: c.ResolvePath(c.Overlay),
		Bottom:  c.BottomRefs(),
	}
}

// snapshot renders one frame without a program loop: the preload and the
// renders it triggers finish first so the frame matches the live view.
func snapshot(m *carousel.Model, size terminal.Size) string {
	defer m.Close()
	m.Update(tea.WindowSizeMsg{Width: size.Cols, Height: size.Rows})
	m.Settle()
	return m.View()
}

func logCacheStats(logger *slog.Logger, c *image.Cache) {
	st := c.Stats()
	logger.Debug("render cache",
		"hits", st.Hits,
		"misses", st.Misses,
		"evictions", st.Evictions,
		"entries", st.Entries,
		"bytes", st.SizeBytes,
	)
}
