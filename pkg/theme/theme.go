package theme

import (
	"sort"
	"strings"
	"sync"
)

// Theme defines the color palette for the carousel screen.
type Theme struct {
	Name string

	// Base colors
	Background string // hex color e.g. "#1a1b26"
	Foreground string // hex color
	Dim        string // dimmed text
	Accent     string // highlights

	// Carousel colors
	Border      string // carousel box border
	Header      string // header caption
	Date        string
	Clock       string
	DotActive   string // indicator for the active slide
	DotInactive string
	Placeholder string // text shown where an image failed to load

	// Help line
	HelpKey  string // keybinding highlight color
	HelpDesc string // help description color
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	thRegisterBuiltins()
}

// Get returns a named theme, falling back to Default if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["default"]
}

// Lookup is Get without the fallback.
func Lookup(name string) (Theme, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := registry[strings.ToLower(name)]
	return t, ok
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds a theme to the registry under its lowercase name,
// replacing any theme with the same name.
func Register(t Theme) {
	thRegister(t)
}

func thRegister(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
