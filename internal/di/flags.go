package di

import (
	"io"

	"github.com/spf13/pflag"

	"github.com/mikey/spam-console/internal/factory"
)

// CLIFlags contains all command line flags for the console
type CLIFlags struct {
	// Input flags
	Message     string
	File        string
	Interactive bool
	Check       bool

	ConfigFile string

	// FlagSet carries the flags that override configuration keys
	FlagSet *pflag.FlagSet
}

// Stdio is the terminal the console is attached to
type Stdio struct {
	In         io.Reader
	Out        io.Writer
	IsTerminal bool
}

// ParseFlags parses command line arguments (without the program name)
func ParseFlags(args []string) (*CLIFlags, error) {
	flags := &CLIFlags{}
	fs := pflag.NewFlagSet("spam-console", pflag.ContinueOnError)

	// Input flags
	fs.StringVarP(&flags.Message, "message", "m", "", "Message to analyze (skips the interactive console)")
	fs.StringVarP(&flags.File, "file", "f", "", "Read the message from a text or .eml file")
	fs.BoolVarP(&flags.Interactive, "interactive", "i", false, "Force the interactive console even when stdin is not a terminal")
	fs.BoolVar(&flags.Check, "check", false, "Check the classification service health and exit")
	fs.StringVarP(&flags.ConfigFile, "config", "c", "", "Path to config file")

	// Configuration overrides
	fs.String("endpoint", "", "Classification service predict URL")
	fs.String("health-url", "", "Classification service health URL (derived from --endpoint when empty)")
	fs.String("timeout", "0s", "Request timeout, 0 for none")
	fs.String("format", "text", "Output format (text, json)")
	fs.Bool("advanced", false, "Show the advanced signal breakdown")
	fs.Int("bar-width", 30, "Width of rendered bars")
	fs.String("platform", "", "Platform used for the submit shortcut (darwin uses Cmd)")
	fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
	fs.String("log-format", "console", "Log format (console, json)")
	fs.String("metrics-addr", "", "Serve Prometheus metrics on this address")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	flags.FlagSet = fs
	return flags, nil
}

// Mode selects the frontend for these flags
func (f *CLIFlags) Mode(stdinIsTerminal bool) string {
	switch {
	case f.Check:
		return factory.ModeCheck
	case f.Message != "" || f.File != "":
		return factory.ModeOneShot
	case f.Interactive || stdinIsTerminal:
		return factory.ModeInteractive
	default:
		return factory.ModeOneShot
	}
}
