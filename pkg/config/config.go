// Package config provides TOML (or YAML) configuration for carousel-stack.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration document.
type Config struct {
	General  GeneralConfig  `toml:"general" yaml:"general"`
	Carousel CarouselConfig `toml:"carousel" yaml:"carousel"`
	Image    ImageConfig    `toml:"image" yaml:"image"`
	Theme    ThemeConfig    `toml:"theme" yaml:"theme"`
}

// GeneralConfig holds process-wide settings.
type GeneralConfig struct {
	LogLevel string `toml:"log_level" yaml:"log_level"`
	LogFile  string `toml:"log_file" yaml:"log_file"`
}

// CarouselConfig describes the images and cadences of the carousel stack.
//
// Header is the static image drawn above the clock, Bottom is the list of
// rotating images (three expected), and Overlay is shown over the carousel
// region while toggled on. Relative paths resolve against AssetDir.
//
// The cadences default to the stock behavior: a slide advance every 1000ms,
// a 700ms fade and a once-per-second clock. Overriding them changes the
// transition each slide reports, so keep FadeDuration within
// RotateInterval.
type CarouselConfig struct {
	AssetDir       string   `toml:"asset_dir" yaml:"asset_dir"`
	Header         string   `toml:"header" yaml:"header"`
	Bottom         []string `toml:"bottom" yaml:"bottom"`
	Overlay        string   `toml:"overlay" yaml:"overlay"`
	RotateInterval Duration `toml:"rotate_interval" yaml:"rotate_interval"`
	FadeDuration   Duration `toml:"fade_duration" yaml:"fade_duration"`
	ClockInterval  Duration `toml:"clock_interval" yaml:"clock_interval"`
}

// ImageConfig controls terminal image rendering.
type ImageConfig struct {
	// Protocol forces a graphics protocol: auto, kitty, iterm2, sixel,
	// halfblocks or none.
	Protocol       string `toml:"protocol" yaml:"protocol"`
	MaxCacheSizeMB int    `toml:"max_cache_size_mb" yaml:"max_cache_size_mb"`
	// CellWidth and CellHeight override the detected pixel size of one
	// terminal cell. Zero means detect.
	CellWidth  int `toml:"cell_width" yaml:"cell_width"`
	CellHeight int `toml:"cell_height" yaml:"cell_height"`
	// ProbeTimeout bounds a single image dimension probe.
	ProbeTimeout Duration `toml:"probe_timeout" yaml:"probe_timeout"`
}

// ThemeConfig selects the color theme.
type ThemeConfig struct {
	Name string `toml:"name" yaml:"name"`
	File string `toml:"file" yaml:"file"`
}

var validProtocols = map[string]bool{
	"": true, "auto": true, "kitty": true, "iterm2": true,
	"sixel": true, "halfblocks": true, "none": true,
}

var validLogLevels = map[string]bool{
	"": true, "debug": true, "info": true, "warn": true, "error": true,
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if !validLogLevels[strings.ToLower(c.General.LogLevel)] {
		errs = append(errs, fmt.Errorf("general.log_level: unknown level %q", c.General.LogLevel))
	}
	if !validProtocols[strings.ToLower(c.Image.Protocol)] {
		errs = append(errs, fmt.Errorf("image.protocol: unknown protocol %q", c.Image.Protocol))
	}
	if c.Image.CellWidth < 0 || c.Image.CellHeight < 0 {
		errs = append(errs, errors.New("image.cell_width/cell_height must not be negative"))
	}

	cc := c.Carousel
	if cc.RotateInterval.Duration <= 0 {
		errs = append(errs, errors.New("carousel.rotate_interval must be positive"))
	}
	if cc.ClockInterval.Duration <= 0 {
		errs = append(errs, errors.New("carousel.clock_interval must be positive"))
	}
	if cc.FadeDuration.Duration <= 0 {
		errs = append(errs, errors.New("carousel.fade_duration must be positive"))
	} else if cc.FadeDuration.Duration > cc.RotateInterval.Duration {
		errs = append(errs, fmt.Errorf("carousel.fade_duration %s exceeds rotate_interval %s",
			cc.FadeDuration.Duration, cc.RotateInterval.Duration))
	}

	return errors.Join(errs...)
}

// defaultCarousel mirrors the stock asset set: a header, three bottom
// images rotated once a second with a 700ms fade, and a click overlay.
func defaultCarousel() CarouselConfig {
	return CarouselConfig{
		AssetDir:       "assets",
		Header:         "upper part.jpeg",
		Bottom:         []string{"IMG 1.jpg", "IMG 2.jpg", "IMG 3.jpg"},
		Overlay:        "IMG_click.jpg",
		RotateInterval: Duration{1000 * time.Millisecond},
		FadeDuration:   Duration{700 * time.Millisecond},
		ClockInterval:  Duration{1000 * time.Millisecond},
	}
}
