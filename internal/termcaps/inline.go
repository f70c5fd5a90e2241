package termcaps

import (
	"os"
	"strings"
	"time"
)

type InlineProtocol int

const (
	InlineNone InlineProtocol = iota
	InlineKitty
	InlineIterm
)

func (p InlineProtocol) String() string {
	switch p {
	case InlineNone:
		return "none"
	case InlineKitty:
		return "kitty"
	case InlineIterm:
		return "iterm"
	default:
		return "none"
	}
}

// DetectInline guesses the inline image protocol from the environment alone.
// GIFENGINE_INLINE overrides the guess.
func DetectInline(getenv func(string) string) InlineProtocol {
	if getenv == nil {
		getenv = os.Getenv
	}

	switch strings.ToLower(strings.TrimSpace(getenv("GIFENGINE_INLINE"))) {
	case "kitty":
		return InlineKitty
	case "iterm", "iterm2":
		return InlineIterm
	case "none", "off", "false", "0", "blocks":
		return InlineNone
	case "", "auto":
	default:
		return InlineNone
	}

	if strings.TrimSpace(getenv("KITTY_WINDOW_ID")) != "" {
		return InlineKitty
	}

	termProgram := strings.ToLower(getenv("TERM_PROGRAM"))
	if strings.Contains(termProgram, "ghostty") || strings.Contains(termProgram, "wezterm") {
		return InlineKitty
	}
	if strings.Contains(termProgram, "iterm") || strings.TrimSpace(getenv("ITERM_SESSION_ID")) != "" {
		return InlineIterm
	}
	if strings.Contains(termProgram, "apple_terminal") {
		return InlineNone
	}

	termEnv := strings.ToLower(getenv("TERM"))
	if strings.Contains(termEnv, "xterm-kitty") || strings.Contains(termEnv, "ghostty") {
		return InlineKitty
	}

	return InlineNone
}

// TrueColor reports whether the terminal advertises 24-bit colour. The block
// surface degrades badly without it.
func TrueColor(getenv func(string) string) bool {
	if getenv == nil {
		getenv = os.Getenv
	}
	switch strings.ToLower(strings.TrimSpace(getenv("COLORTERM"))) {
	case "truecolor", "24bit":
		return true
	}
	if DetectInline(getenv) != InlineNone {
		return true
	}
	termEnv := strings.ToLower(getenv("TERM"))
	return strings.Contains(termEnv, "direct") || strings.Contains(termEnv, "truecolor")
}

type kittyProbeResult int

const (
	kittyProbeUnknown kittyProbeResult = iota
	kittyProbeSupported
	kittyProbeNotSupported
)

func (r kittyProbeResult) String() string {
	switch r {
	case kittyProbeSupported:
		return "supported"
	case kittyProbeNotSupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// DetectInlineRobust is DetectInline plus a live kitty graphics query on
// /dev/tty when the environment only suggests kitty.
func DetectInlineRobust(getenv func(string) string) InlineProtocol {
	return detectInlineRobust(getenv, func() kittyProbeResult {
		tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return kittyProbeUnknown
		}
		defer func() { _ = tty.Close() }()
		return probeKittyGraphics(tty, 150*time.Millisecond)
	})
}

func detectInlineRobust(getenv func(string) string, probeKitty func() kittyProbeResult) InlineProtocol {
	if getenv == nil {
		getenv = os.Getenv
	}
	p := DetectInline(getenv)
	if p != InlineKitty {
		return p
	}

	// Explicit override or a kitty/ghostty session id is trusted; ghostty does
	// not always answer the query.
	if strings.TrimSpace(getenv("GIFENGINE_INLINE")) != "" {
		return InlineKitty
	}
	termProgram := strings.ToLower(getenv("TERM_PROGRAM"))
	if strings.Contains(termProgram, "ghostty") {
		return InlineKitty
	}
	if strings.TrimSpace(getenv("KITTY_WINDOW_ID")) != "" {
		return InlineKitty
	}

	switch probeKitty() {
	case kittyProbeNotSupported:
		return InlineNone
	default:
		return InlineKitty
	}
}
