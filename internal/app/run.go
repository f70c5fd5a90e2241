package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/Arknight38/Gif-Engine/animdecode"
	"github.com/Arknight38/Gif-Engine/internal/model"
	"github.com/Arknight38/Gif-Engine/internal/termio"
	"github.com/alecthomas/kong"
)

type exitPanic int

// Run parses args and executes the selected command, returning the process
// exit code.
func Run(args []string, out, errOut io.Writer) (code int) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name(model.AppName),
		kong.Description(model.Tagline),
		kong.Help(helpPrinter),
		kong.Vars{"version": model.Version},
		kong.Writers(out, errOut),
		kong.Exit(func(c int) { panic(exitPanic(c)) }),
	)
	if err != nil {
		_, _ = fmt.Fprintf(errOut, "%s: %v\n", model.AppName, err)
		return 2
	}

	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitPanic)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	ctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintf(errOut, "%s: %v\nRun '%s --help' for usage.\n", model.AppName, err, model.AppName)
		return 2
	}
	if err := ctx.Run(&cli); err != nil {
		_, _ = fmt.Fprintf(errOut, "%s: %v\n", model.AppName, err)
		return exitCode(err)
	}
	return 0
}

// exitCode maps errors to exit codes: 2 for usage, 3 for unreadable or
// undecodable input, 1 otherwise.
func exitCode(err error) int {
	switch {
	case errors.Is(err, termio.ErrNotTerminal):
		return 2
	case errors.Is(err, animdecode.ErrUnsupportedFormat),
		errors.Is(err, animdecode.ErrIO),
		errors.Is(err, animdecode.ErrDecode),
		errors.Is(err, animdecode.ErrNotAnimated),
		errors.Is(err, animdecode.ErrNoFrames),
		errors.Is(err, animdecode.ErrUnsupportedColorType),
		errors.Is(err, animdecode.ErrTooLarge),
		errors.Is(err, animdecode.ErrInvalidSize):
		return 3
	}
	return 1
}
