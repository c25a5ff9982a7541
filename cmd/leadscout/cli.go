package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/yourorg/lead-scout/internal/config"
	"github.com/yourorg/lead-scout/internal/logger"
)

type CLI struct {
	Verbose bool   `help:"Enable debug logging." env:"LEADSCOUT_VERBOSE"`
	Config  string `help:"Path to a YAML or JSON5 config file." env:"LEADSCOUT_CONFIG" type:"path"`
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`

	Search SearchCmd `cmd:"" help:"Search listings and print scored leads."`
	Sweep  SweepCmd  `cmd:"" help:"Refresh zip codes on a schedule."`
}

// Context is handed to every command's Run.
type Context struct {
	Out          io.Writer
	Err          io.Writer
	Config       config.Config
	Logger       zerolog.Logger
	ColorEnabled bool
	errOutput    *termenv.Output
}

func newContext(cli *CLI) (*Context, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if cli.Verbose {
		level = "debug"
	}
	out := termenv.NewOutput(os.Stdout)
	return &Context{
		Out:          os.Stdout,
		Err:          os.Stderr,
		Config:       cfg,
		Logger:       logger.New(level, "console", os.Stderr),
		ColorEnabled: colorEnabled(out, cli.Color),
		errOutput:    termenv.NewOutput(os.Stderr),
	}, nil
}

func colorEnabled(out *termenv.Output, mode string) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return out.ColorProfile() != termenv.Ascii
	}
}

func (c *Context) Errorf(format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	if c.ColorEnabled {
		msg = c.errOutput.String(msg).Foreground(c.errOutput.Color("1")).String()
	}
	fmt.Fprintln(c.Err, msg)
}

func (c *Context) Warnf(format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	if c.ColorEnabled {
		msg = c.errOutput.String(msg).Foreground(c.errOutput.Color("3")).String()
	}
	fmt.Fprintln(c.Err, msg)
}
