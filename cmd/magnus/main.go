// Magnus - Rock RMS source sync CLI
//
// Pulls Lava, themes and application endpoints from a Rock RMS server into a
// local working copy, and pushes edited files back.
//
// Sub-commands:
//
//	magnus config                        Configure server and credentials
//	magnus login                         Start a fresh session
//	magnus logout                        Forget the stored session
//	magnus cd [path]                     Change the current remote directory
//	magnus ls [path]                     List a remote directory
//	magnus pull [path]                   Pull a remote directory or file
//	magnus push <file> [remote-name]     Push a local file
//	magnus version                       Print the version
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bayside-church/magnus-cli/internal/config"
	"github.com/bayside-church/magnus-cli/internal/logging"
)

var version = "dev"

var commands = map[string]func(ctx context.Context, args []string) error{
	"config": cmdConfig,
	"login":  cmdLogin,
	"logout": cmdLogout,
	"cd":     cmdCd,
	"ls":     cmdLs,
	"pull":   cmdPull,
	"push":   cmdPush,
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	name := os.Args[1]
	switch name {
	case "version", "--version":
		fmt.Printf("magnus %s\n", version)
		return
	case "help", "-h", "--help":
		usage()
		return
	}

	run, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", name)
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[2:])
	stop()
	logging.Sync()

	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: magnus <command> [flags]

Commands:
  config                      Configure server URL and credentials
  login                       Start a fresh session with the server
  logout                      Forget the stored session cookie
  cd [path]                   Change the current remote directory (default: root)
  ls [path]                   List a remote directory (default: current)
  pull [path]                 Pull a remote directory or file (default: current)
  push <file> [remote-name]   Push a local file to the server
  version                     Print the version

Global flags:
  -v, --verbose               Debug logging
  -q, --quiet                 Only log errors
      --config FILE           Config file (default: `+config.DefaultPath()+`)
      --retries N             Retry failed server requests N times`)
}

// globals are the flags every command accepts.
type globals struct {
	verbose    bool
	quiet      bool
	configPath string
	retries    int
}

func newFlagSet(name, usage string) (*pflag.FlagSet, *globals) {
	g := &globals{}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")
	fs.BoolVarP(&g.quiet, "quiet", "q", false, "Only log errors")
	fs.StringVar(&g.configPath, "config", config.DefaultPath(), "Config file")
	fs.IntVar(&g.retries, "retries", -1, "Retry failed server requests N times (default from config)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: magnus %s\n\nFlags:\n", usage)
		fs.PrintDefaults()
	}
	return fs, g
}

// load reads the config file and applies flag overrides.
func (g *globals) load() *config.Config {
	cfg := config.Load(g.configPath)
	if g.retries >= 0 {
		cfg.Retries = g.retries
	}
	return cfg
}

// setup loads the config and initializes logging.
func (g *globals) setup() *config.Config {
	cfg := g.load()

	level := cfg.Log.Level
	switch {
	case g.verbose:
		level = "debug"
	case g.quiet:
		level = "error"
	}
	if err := logging.Init(logging.Config{Level: level, Format: cfg.Log.Format}); err != nil {
		logging.InitDefault()
		logging.SetLevel(level)
	}
	return cfg
}
