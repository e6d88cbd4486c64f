package terminal

import "strings"

// GraphicsProtocol identifies which image rendering protocol to use.
type GraphicsProtocol int

const (
	ProtocolNone       GraphicsProtocol = iota // No graphics support
	ProtocolKitty                              // Kitty graphics protocol (Ghostty, Kitty, WezTerm)
	ProtocolITerm2                             // iTerm2 inline images protocol
	ProtocolSixel                              // Sixel graphics protocol
	ProtocolHalfblocks                         // Unicode half-block characters with ANSI color
)

var protocolNames = [...]string{
	ProtocolNone:       "none",
	ProtocolKitty:      "kitty",
	ProtocolITerm2:     "iterm2",
	ProtocolSixel:      "sixel",
	ProtocolHalfblocks: "halfblocks",
}

// String returns the human-readable name of the graphics protocol.
func (p GraphicsProtocol) String() string {
	if int(p) >= 0 && int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return "unknown"
}

// SelectProtocol returns the best graphics protocol for term. Over SSH
// every pixel protocol degrades to halfblocks, which only need true color.
func SelectProtocol(term Terminal, ssh bool) GraphicsProtocol {
	var proto GraphicsProtocol
	switch term {
	case TermGhostty, TermKitty, TermWezTerm:
		proto = ProtocolKitty
	case TermITerm2:
		proto = ProtocolITerm2
	default:
		proto = ProtocolHalfblocks
	}
	if ssh {
		return ProtocolHalfblocks
	}
	return proto
}

// ParseProtocol maps a user override to a protocol. ok is false for empty,
// "auto" or unrecognized values, meaning detection should decide.
func ParseProtocol(s string) (proto GraphicsProtocol, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kitty":
		return ProtocolKitty, true
	case "iterm2":
		return ProtocolITerm2, true
	case "sixel":
		return ProtocolSixel, true
	case "halfblocks", "unicode", "half-blocks":
		return ProtocolHalfblocks, true
	case "none", "off", "disabled":
		return ProtocolNone, true
	default:
		return ProtocolNone, false
	}
}
