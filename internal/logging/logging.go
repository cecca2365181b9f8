// Package logging builds the hclog loggers shared by the server, the chat
// assistant and the CLI.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Options configures New.
type Options struct {
	Name   string
	Level  string
	JSON   bool
	Quiet  bool
	Output io.Writer
}

// New returns a named logger. Quiet discards everything; an unknown or empty
// level falls back to info.
func New(opts Options) hclog.Logger {
	if opts.Quiet {
		return hclog.New(&hclog.LoggerOptions{
			Name:   opts.Name,
			Output: io.Discard,
			Level:  hclog.Off,
		})
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:            opts.Name,
		Output:          output,
		Level:           ParseLevel(opts.Level),
		JSONFormat:      opts.JSON,
		IncludeLocation: false,
	})
}

// ParseLevel maps a level name onto hclog, defaulting to Info.
func ParseLevel(level string) hclog.Level {
	l := hclog.LevelFromString(strings.TrimSpace(level))
	if l == hclog.NoLevel {
		return hclog.Info
	}
	return l
}

// Discard returns a logger that drops all output, for tests and library defaults.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
