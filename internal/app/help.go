package app

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/Arknight38/Gif-Engine/internal/model"
)

func helpPrinter(options kong.HelpOptions, ctx *kong.Context) error {
	useColor := helpWantsColor(ctx)
	_, _ = fmt.Fprintln(ctx.Stdout, helpBanner(useColor))
	_, _ = fmt.Fprintln(ctx.Stdout)

	if useColor {
		orig := ctx.Stdout
		var buf bytes.Buffer
		ctx.Stdout = &buf
		err := kong.DefaultHelpPrinter(options, ctx)
		ctx.Stdout = orig
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(orig, colorizeHelpText(buf.String()))
	} else {
		if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
			return err
		}
	}

	if options.Summary {
		return nil
	}
	lines := helpExtras(ctx)
	if len(lines) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(ctx.Stdout)
	for _, line := range lines {
		_, _ = fmt.Fprintln(ctx.Stdout, line)
	}
	return nil
}

func helpBanner(useColor bool) string {
	if !useColor {
		return fmt.Sprintf("%s %s: %s", model.AppName, model.Version, model.Tagline)
	}
	return "\x1b[1m\x1b[36m" + model.AppName + "\x1b[0m" +
		" " +
		"\x1b[1m" + model.Version + "\x1b[0m" +
		"\x1b[90m: " + model.Tagline + "\x1b[0m"
}

var (
	reFlagLong     = regexp.MustCompile(`--[a-zA-Z0-9][a-zA-Z0-9-]*(?:=(?:"[^"]*"|[^\s]+))?`)
	reFlagShort    = regexp.MustCompile(`(^|[\s,])(-[a-zA-Z])([\s,]|$)`)
	reAngleToken   = regexp.MustCompile(`(<[^>]+>)`)
	reBracketToken = regexp.MustCompile(`(^|[\s])(\[[^\]]+\])`)
)

func colorizeHelpText(text string) string {
	if text == "" {
		return text
	}

	var out strings.Builder
	out.Grow(len(text) + 64)

	inCommands := false
	lines := strings.SplitAfter(text, "\n")
	for _, lineWithNL := range lines {
		line := strings.TrimSuffix(lineWithNL, "\n")

		trim := strings.TrimSpace(line)
		switch trim {
		case "Commands:":
			inCommands = true
		case "Flags:", "Usage:":
			inCommands = false
		}

		if strings.HasPrefix(line, "Usage:") || strings.HasPrefix(line, "Flags:") || strings.HasPrefix(line, "Commands:") {
			if strings.HasPrefix(line, "Usage:") {
				rest := strings.TrimPrefix(line, "Usage:")
				line = "\x1b[1mUsage:\x1b[0m" + rest
				line = strings.ReplaceAll(line, " "+model.AppName+" ", " \x1b[36m"+model.AppName+"\x1b[0m ")
				line = reAngleToken.ReplaceAllString(line, "\x1b[90m$1\x1b[0m")
				line = reBracketToken.ReplaceAllString(line, "$1\x1b[90m$2\x1b[0m")
			} else {
				line = "\x1b[1m" + line + "\x1b[0m"
			}
		} else {
			line = reFlagLong.ReplaceAllString(line, "\x1b[36m$0\x1b[0m")
			line = reFlagShort.ReplaceAllString(line, "$1\x1b[36m$2\x1b[0m$3")
			line = reAngleToken.ReplaceAllString(line, "\x1b[90m$1\x1b[0m")
			line = reBracketToken.ReplaceAllString(line, "$1\x1b[90m$2\x1b[0m")

			if inCommands {
				lead := len(line) - len(strings.TrimLeft(line, " "))
				if lead >= 0 && lead < len(line) {
					rest := line[lead:]
					fields := strings.Fields(rest)
					if len(fields) > 0 && !strings.HasPrefix(fields[0], "-") && fields[0] != "Run" {
						first := fields[0]
						idx := strings.Index(rest, first)
						if idx >= 0 {
							rest = rest[:idx] + "\x1b[36m" + first + "\x1b[0m" + rest[idx+len(first):]
							line = strings.Repeat(" ", lead) + rest
						}
					}
				}
			}
		}

		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.String()
}

func helpWantsColor(ctx *kong.Context) bool {
	if getenv("NO_COLOR") != "" {
		return false
	}
	termEnv := strings.ToLower(strings.TrimSpace(getenv("TERM")))
	if termEnv == "" || termEnv == "dumb" {
		return false
	}

	for i := 0; i < len(ctx.Args); i++ {
		arg := ctx.Args[i]
		if arg == "--no-color" {
			return false
		}
		if strings.HasPrefix(arg, "--color=") {
			val := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(arg, "--color=")))
			if val == "never" {
				return false
			}
			if val == "always" {
				return true
			}
		}
		if arg == "--color" && i+1 < len(ctx.Args) {
			val := strings.ToLower(strings.TrimSpace(ctx.Args[i+1]))
			if val == "never" {
				return false
			}
			if val == "always" {
				return true
			}
			i++
		}
	}

	return isTerminalWriter(ctx.Stdout)
}

func helpExtras(ctx *kong.Context) []string {
	selected := ctx.Selected()
	if selected == nil {
		return rootHelpExtras()
	}
	switch selected.Name {
	case "play":
		return playHelpExtras()
	case "tui":
		return tuiHelpExtras()
	case "info":
		return infoHelpExtras()
	case "still":
		return stillHelpExtras()
	case "sheet":
		return sheetHelpExtras()
	case "export":
		return exportHelpExtras()
	default:
		return rootHelpExtras()
	}
}

func rootHelpExtras() []string {
	return []string{
		"Examples:",
		"  gifengine play cat.gif",
		"  gifengine tui ~/Pictures/reactions -r",
		"  gifengine info --json *.gif | jq '.[0].fps'",
		"  gifengine still cat.gif --at 1.5s -o still.png",
		"  gifengine sheet cat.apng --frames 12 --cols 4 -o sheet.webp",
		"  gifengine export cat.gif -o cat.webp --fps 24",
		"",
		"Formats:",
		"  input   .gif .png .apng (picked by extension)",
		"  output  .png .webp (stills)  .png .apng .webp (export)",
	}
}

func playHelpExtras() []string {
	return []string{
		"Keys:",
		"  q, Esc, Ctrl-C  quit",
		"",
		"Surfaces:",
		"  auto picks kitty or iterm when the terminal supports inline images,",
		"  otherwise half-block characters in 24-bit color.",
		"",
		"Examples:",
		"  gifengine play cat.gif --align bottom-right --scale 0.5",
		"  gifengine play https://example.com/cat.gif --loops 3",
		"  gifengine play cat.apng --align custom --x 10 --y 4 --surface blocks",
	}
}

func tuiHelpExtras() []string {
	return []string{
		"Keys:",
		"  /      filter",
		"  ↑↓ jk  select",
		"  Enter  play full screen",
		"  + -    change preview fps (0 restores)",
		"  s      save the shown frame as PNG",
		"  f      reveal last saved frame in file manager",
		"  r      rescan",
		"  q      quit",
		"",
		"Examples:",
		"  gifengine tui",
		"  gifengine tui ~/Pictures --recursive --query cat",
	}
}

func infoHelpExtras() []string {
	return []string{
		"Output:",
		"  Default on a pipe: <input>\\t<width>\\t<height>\\t<frames>\\t<duration ms>\\t<fps>",
		"",
		"Examples:",
		"  gifengine info cat.gif dog.apng",
		"  gifengine info --json *.gif | jq '.[] | .frame_count'",
	}
}

func stillHelpExtras() []string {
	return []string{
		"Examples:",
		"  gifengine still cat.gif --at 0 -o still.png",
		"  gifengine still cat.apng --at 250ms -o still.webp --lossless",
		"  gifengine still https://example.com/cat.gif --at 1.25s -o - > still.png",
	}
}

func sheetHelpExtras() []string {
	return []string{
		"Examples:",
		"  gifengine sheet cat.gif -o sheet.png",
		"  gifengine sheet cat.gif --frames 16 --cols 4 --padding 4 --tile 128 -o sheet.png",
	}
}

func exportHelpExtras() []string {
	return []string{
		"Notes:",
		"  APNG cannot mix opaque and transparent frames; use .webp for those.",
		"",
		"Examples:",
		"  gifengine export cat.gif -o cat.apng",
		"  gifengine export cat.apng -o cat.webp --quality 85 --loops 1",
	}
}
