package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Arknight38/Gif-Engine/animdecode"
	"github.com/Arknight38/Gif-Engine/internal/model"
	"golang.org/x/term"
)

type outputFormat string

const (
	formatAuto  outputFormat = "auto"
	formatPlain outputFormat = "plain"
	formatTSV   outputFormat = "tsv"
	formatJSON  outputFormat = "json"
)

var isTerminalWriter = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

var getenv = os.Getenv

// infoRecord is the printed shape of an animdecode.Info.
type infoRecord struct {
	Input      string  `json:"input"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FrameCount int     `json:"frame_count"`
	DurationMS int64   `json:"duration_ms"`
	FPS        float64 `json:"fps"`
}

func newInfoRecord(input string, info animdecode.Info) infoRecord {
	return infoRecord{
		Input:      input,
		Width:      info.Width,
		Height:     info.Height,
		FrameCount: info.FrameCount,
		DurationMS: info.Duration.Milliseconds(),
		FPS:        info.FPS(),
	}
}

// resolveOutputFormat: plain on a terminal, tsv when piped.
func resolveOutputFormat(jsonFlag bool, format string, out io.Writer) outputFormat {
	if jsonFlag {
		return formatJSON
	}
	f := outputFormat(strings.ToLower(strings.TrimSpace(format)))
	if f == "" || f == formatAuto {
		if isTerminalWriter(out) {
			return formatPlain
		}
		return formatTSV
	}
	return f
}

func shouldUseColor(opts model.Options, w io.Writer) bool {
	if opts.Color == "never" {
		return false
	}
	if opts.Color == "always" {
		return true
	}
	if getenv("NO_COLOR") != "" {
		return false
	}
	termEnv := strings.ToLower(strings.TrimSpace(getenv("TERM")))
	if termEnv == "dumb" || termEnv == "" {
		return false
	}
	return isTerminalWriter(w)
}

func renderJSON(out *bufio.Writer, records []infoRecord) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func renderTSV(out *bufio.Writer, records []infoRecord) {
	for _, r := range records {
		_, _ = fmt.Fprintf(out, "%s\t%d\t%d\t%d\t%d\t%.2f\n",
			r.Input, r.Width, r.Height, r.FrameCount, r.DurationMS, r.FPS)
	}
}

func renderPlain(out *bufio.Writer, useColor bool, records []infoRecord) {
	for _, r := range records {
		name := r.Input
		if useColor {
			name = "\x1b[1m" + name + "\x1b[0m"
		}
		_, _ = fmt.Fprintln(out, name)
		detail := fmt.Sprintf("  %dx%d  %s  %s  %s",
			r.Width, r.Height, plural(r.FrameCount, "frame"), formatMS(r.DurationMS), formatFPS(r.FPS))
		if useColor {
			detail = "\x1b[36m" + detail + "\x1b[0m"
		}
		_, _ = fmt.Fprintln(out, detail)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func formatMS(ms int64) string {
	return fmt.Sprintf("%.2fs", float64(ms)/1000)
}

func formatFPS(fps float64) string {
	if fps <= 0 {
		return "static"
	}
	return fmt.Sprintf("%.1f fps", fps)
}
