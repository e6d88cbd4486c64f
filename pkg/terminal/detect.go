// Package terminal identifies the terminal emulator, picks an inline
// graphics protocol for it, and measures the window in cells and pixels.
//
// Detection only inspects environment variables; it never writes query
// sequences to the terminal, so it is safe to run before the TUI starts.
package terminal

import (
	"strings"
)

// Terminal identifies the terminal emulator in use.
type Terminal int

const (
	TermGeneric Terminal = iota
	TermGhostty
	TermKitty
	TermWezTerm
	TermITerm2
	TermAlacritty
	TermVTE
	TermVSCode
	TermTmux
	TermScreen
)

var terminalNames = [...]string{
	TermGeneric:   "generic",
	TermGhostty:   "ghostty",
	TermKitty:     "kitty",
	TermWezTerm:   "wezterm",
	TermITerm2:    "iterm2",
	TermAlacritty: "alacritty",
	TermVTE:       "vte",
	TermVSCode:    "vscode",
	TermTmux:      "tmux",
	TermScreen:    "screen",
}

// String returns the human-readable name of the terminal.
func (t Terminal) String() string {
	if int(t) >= 0 && int(t) < len(terminalNames) {
		return terminalNames[t]
	}
	return "unknown"
}

// SupportsTrueColor reports whether the emulator is known to render 24-bit
// color without COLORTERM being set.
func (t Terminal) SupportsTrueColor() bool {
	switch t {
	case TermGhostty, TermKitty, TermWezTerm, TermITerm2, TermAlacritty, TermVTE, TermVSCode:
		return true
	default:
		return false
	}
}

// Env looks up an environment variable. os.Getenv satisfies it; tests pass
// a map-backed lookup instead.
type Env func(key string) string

// MapEnv adapts a map to Env.
func MapEnv(m map[string]string) Env {
	return func(key string) string { return m[key] }
}

// detectRule maps one environment signal to a terminal. Rules are tried in
// order; the first match wins.
type detectRule struct {
	key   string
	match func(v string) bool
	term  Terminal
}

func equalFold(want string) func(string) bool {
	return func(v string) bool { return strings.EqualFold(v, want) }
}

func nonEmpty(v string) bool { return v != "" }

var detectRules = []detectRule{
	{"TERM_PROGRAM", equalFold("ghostty"), TermGhostty},
	{"TERM_PROGRAM", equalFold("kitty"), TermKitty},
	{"TERM_PROGRAM", equalFold("wezterm"), TermWezTerm},
	{"TERM_PROGRAM", equalFold("iterm.app"), TermITerm2},
	{"TERM_PROGRAM", equalFold("vscode"), TermVSCode},
	{"TERM_PROGRAM", equalFold("alacritty"), TermAlacritty},
	{"TERM", equalFold("xterm-ghostty"), TermGhostty},
	{"TERM", equalFold("xterm-kitty"), TermKitty},
	{"TERM", func(v string) bool { return strings.HasPrefix(v, "alacritty") }, TermAlacritty},
	{"KITTY_WINDOW_ID", nonEmpty, TermKitty},
	{"ITERM_SESSION_ID", nonEmpty, TermITerm2},
	{"WEZTERM_EXECUTABLE", nonEmpty, TermWezTerm},
	{"VTE_VERSION", nonEmpty, TermVTE},
	{"LC_TERMINAL", equalFold("iTerm2"), TermITerm2},
	// Multiplexers last so the inner terminal wins when it is visible.
	{"TMUX", nonEmpty, TermTmux},
	{"STY", nonEmpty, TermScreen},
}

// Detect identifies the terminal emulator from environment variables.
func Detect(env Env) Terminal {
	for _, r := range detectRules {
		if r.match(env(r.key)) {
			return r.term
		}
	}
	return TermGeneric
}

// IsSSH reports whether the session appears to be running over SSH.
func IsSSH(env Env) bool {
	return env("SSH_TTY") != "" || env("SSH_CONNECTION") != "" || env("SSH_CLIENT") != ""
}
