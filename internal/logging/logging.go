// Package logging builds the root hclog logger.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/term"
)

// Options configures New.
type Options struct {
	// Level is an hclog level name; empty means info.
	Level string

	// JSON switches to JSON lines.
	JSON bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates the root logger. Colour is only used for a terminal on stderr.
func New(opts Options) hclog.Logger {
	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	colour := hclog.ColorOff
	if !opts.JSON && isTerminal(output) {
		colour = hclog.AutoColor
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:            "tinctd",
		Level:           level,
		Output:          output,
		JSONFormat:      opts.JSON,
		Color:           colour,
		IncludeLocation: level <= hclog.Debug,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
