// termcaps-check prints what gifengine detects about the current terminal:
// the inline image protocol, the surface auto would pick, and 24-bit color.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Arknight38/Gif-Engine/internal/player"
	"github.com/Arknight38/Gif-Engine/internal/termcaps"
	"github.com/alecthomas/kong"
)

type report struct {
	Detected     string `json:"detected"`
	Surface      string `json:"surface"`
	TrueColor    bool   `json:"truecolor"`
	TermProgram  string `json:"term_program,omitempty"`
	Term         string `json:"term,omitempty"`
	ColorTerm    string `json:"colorterm,omitempty"`
	ItermSession string `json:"iterm_session_id,omitempty"`
	KittyWindow  string `json:"kitty_window_id,omitempty"`
}

type cli struct {
	Expect  string `help:"Expected protocol (none, kitty or iterm)."`
	Surface string `help:"Expected surface for --surface auto (blocks, kitty or iterm)."`
	JSON    bool   `help:"Emit JSON." negatable:"" default:"true"`
}

func main() {
	var c cli
	kong.Parse(&c, kong.Name("termcaps-check"), kong.Description("Report terminal graphics capabilities."))

	detected := termcaps.DetectInlineRobust(os.Getenv)
	r := report{
		Detected:     detected.String(),
		Surface:      string(player.ResolveSurface(player.SurfaceAuto, os.Getenv)),
		TrueColor:    termcaps.TrueColor(os.Getenv),
		TermProgram:  os.Getenv("TERM_PROGRAM"),
		Term:         os.Getenv("TERM"),
		ColorTerm:    os.Getenv("COLORTERM"),
		ItermSession: os.Getenv("ITERM_SESSION_ID"),
		KittyWindow:  os.Getenv("KITTY_WINDOW_ID"),
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			os.Exit(1)
		}
	} else {
		if _, err := fmt.Fprintf(os.Stdout, "%s\t%s\n", r.Detected, r.Surface); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "write: %v\n", err)
			os.Exit(1)
		}
	}

	if c.Expect != "" && c.Expect != r.Detected {
		_, _ = fmt.Fprintf(os.Stderr, "expected protocol %q, got %q\n", c.Expect, r.Detected)
		os.Exit(1)
	}
	if c.Surface != "" && c.Surface != r.Surface {
		_, _ = fmt.Fprintf(os.Stderr, "expected surface %q, got %q\n", c.Surface, r.Surface)
		os.Exit(1)
	}
}
