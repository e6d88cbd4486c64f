// carousel-stack draws a header image, a live date and time line, and an
// auto-rotating image carousel in the terminal. A click anywhere (or space)
// toggles an overlay image and pauses the rotation while it is shown.
//
// Usage:
//
//	carousel-stack [flags]
//
// Flags:
//
//	-config string    Path to configuration file (TOML, or YAML by extension)
//	-assets string    Directory holding the carousel images
//	-protocol string  Graphics protocol (auto|kitty|iterm2|sixel|halfblocks|none)
//	-theme string     Color theme
//	-once             Render a single frame to stdout and exit
//	-watch            Reload the images when the config file changes
//	-verbose          Enable verbose logging
//	-version          Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/carousel-stack/pkg/carousel"
	"gitlab.com/tinyland/lab/carousel-stack/pkg/config"
	"gitlab.com/tinyland/lab/carousel-stack/pkg/image"
	"gitlab.com/tinyland/lab/carousel-stack/pkg/terminal"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always runs.
func run() int {
	var (
		configPath  = flag.String("config", "", "Path to configuration file (TOML, or YAML by extension)")
		assetDir    = flag.String("assets", "", "Directory holding the carousel images")
		protocol    = flag.String("protocol", "", "Graphics protocol (auto|kitty|iterm2|sixel|halfblocks|none)")
		themeName   = flag.String("theme", "", "Color theme")
		once        = flag.Bool("once", false, "Render a single frame to stdout and exit")
		watch       = flag.Bool("watch", false, "Reload the images when the config file changes")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("carousel-stack %s (%s) built %s\n", version, commit, date)
		return 0
	}

	cfg, cfgFile, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	applyFlags(cfg, flagOverrides{AssetDir: *assetDir, Protocol: *protocol, Theme: *themeName, Verbose: *verbose})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return 1
	}

	logger, logFile, err := setupLogging(cfg.General)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		return 1
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	caps := terminal.DetectCapabilities(os.Stdout, cfg.Image.Protocol)
	logger.Info("starting carousel-stack",
		"version", version,
		"config", cfgFile,
		"terminal", caps.Term,
		"protocol", caps.Protocol,
		"cols", caps.Size.Cols,
		"rows", caps.Size.Rows,
	)

	th, err := loadTheme(cfg.Theme, caps)
	if err != nil {
		logger.Warn("theme load failed, using default", "error", err)
	}

	renderer := image.NewRenderer(caps, cfg.Image)
	async := image.NewAsyncRenderer(renderer, 0)
	defer async.Close()
	defer logCacheStats(logger, renderer.Cache())

	opts := modelOptions(cfg, async, th, logger)

	if *once || !caps.Interactive {
		m := carousel.New(opts)
		fmt.Println(snapshot(m, caps.Size))
		return 0
	}

	zones := zone.New()
	defer zones.Close()
	opts.Zones = zones

	m := carousel.New(opts)
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if *watch {
		if cfgFile == "" {
			logger.Warn("-watch needs a config file; none found")
		} else {
			go func() {
				err := config.Watch(ctx, cfgFile, logger, func(c *config.Config) {
					applyFlags(c, flagOverrides{AssetDir: *assetDir})
					renderer.Cache().Invalidate()
					p.Send(imagesMsg(c.Carousel))
				})
				if err != nil {
					logger.Error("config watch stopped", "error", err)
				}
			}()
		}
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Error("TUI error", "error", err)
		return 1
	}
	return 0
}
