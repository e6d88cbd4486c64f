package terminal

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Capabilities summarizes what the attached terminal can display.
type Capabilities struct {
	Term        Terminal
	Protocol    GraphicsProtocol
	Size        Size
	TrueColor   bool
	Profile     termenv.Profile
	SSH         bool
	Interactive bool // output is a real terminal, not a pipe or file
}

// DetectCapabilities inspects the process environment and the terminal
// behind out. override is the configured protocol ("" or "auto" to detect).
func DetectCapabilities(out *os.File, override string) Capabilities {
	fd := out.Fd()
	caps := detectFromEnv(os.Getenv, override)
	caps.Size = GetSize(fd, os.Getenv)
	caps.Interactive = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	caps.Profile = termenv.EnvColorProfile()
	if caps.TrueColor && caps.Profile < termenv.TrueColor && caps.Interactive {
		caps.Profile = termenv.TrueColor
	}
	if !caps.TrueColor {
		caps.TrueColor = caps.Profile == termenv.TrueColor
	}
	return caps
}

// detectFromEnv fills everything that can be derived from env alone.
func detectFromEnv(env Env, override string) Capabilities {
	t := Detect(env)
	ssh := IsSSH(env)

	trueColor := t.SupportsTrueColor()
	if ct := env("COLORTERM"); ct == "truecolor" || ct == "24bit" {
		trueColor = true
	}

	proto, ok := ParseProtocol(override)
	if !ok {
		proto = SelectProtocol(t, ssh)
	}

	return Capabilities{
		Term:      t,
		Protocol:  proto,
		TrueColor: trueColor,
		SSH:       ssh,
	}
}
