package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies a config file encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatForPath picks the decoder from the file extension. Anything other
// than .yaml/.yml is treated as TOML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Locate returns the first existing config file on the search path, or ""
// when there is none.
func Locate() string {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/carousel-stack/config.toml
//  2. ~/.config/carousel-stack/config.toml
//
// If no file exists, returns DefaultConfig().
func Load() (*Config, error) {
	if p := Locate(); p != "" {
		return LoadFromFile(p)
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. A missing
// file yields the defaults. Relative asset_dir values resolve against the
// directory holding the file.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Carousel.AssetDir != "" && !filepath.IsAbs(cfg.Carousel.AssetDir) {
		cfg.Carousel.AssetDir = filepath.Join(filepath.Dir(path), cfg.Carousel.AssetDir)
	}
	return cfg, nil
}

// LoadFromReader decodes configuration on top of DefaultConfig().
func LoadFromReader(r io.Reader, format Format) (*Config, error) {
	cfg := DefaultConfig()
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
			LogFile:  filepath.Join(xdgStateHome(home), "carousel-stack", "carousel-stack.log"),
		},
		Carousel: defaultCarousel(),
		Image: ImageConfig{
			Protocol:       "auto",
			MaxCacheSizeMB: 32,
			ProbeTimeout:   Duration{5 * time.Second},
		},
		Theme: ThemeConfig{
			Name: "default",
		},
	}
}

// ResolvePath joins a relative asset reference onto AssetDir. URLs and
// absolute paths are returned unchanged, as is the empty string.
func (c CarouselConfig) ResolvePath(ref string) string {
	if ref == "" || filepath.IsAbs(ref) || strings.Contains(ref, "://") || c.AssetDir == "" {
		return ref
	}
	return filepath.Join(c.AssetDir, ref)
}

// BottomRefs returns the resolved bottom image references in order.
func (c CarouselConfig) BottomRefs() []string {
	refs := make([]string, len(c.Bottom))
	for i, b := range c.Bottom {
		refs[i] = c.ResolvePath(b)
	}
	return refs
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CSTACK_PROTOCOL"); v != "" {
		cfg.Image.Protocol = v
	}
	if v := os.Getenv("CSTACK_THEME"); v != "" {
		cfg.Theme.Name = v
	}
	if v := os.Getenv("CSTACK_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
	if v := os.Getenv("CSTACK_ASSETS"); v != "" {
		cfg.Carousel.AssetDir = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "carousel-stack", "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "carousel-stack", "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgStateHome returns XDG_STATE_HOME or ~/.local/state as fallback.
func xdgStateHome(home string) string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".local", "state")
}
