// Package main is the entry point for the hotkeyd demo binary. It loads
// a shortcut configuration, takes over the terminal, and dispatches
// keypresses to the configured Lua actions until Ctrl+Q.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/hotkeyd/internal/app"
	"github.com/dshills/hotkeyd/internal/event"
	"github.com/dshills/hotkeyd/internal/input/key"
	"github.com/dshills/hotkeyd/internal/input/shortcut"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, logLevel := parseFlags()

	logger := app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(logLevel),
		Output: os.Stderr,
		Prefix: "hotkeyd",
	})
	opts.Logger = logger

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	source, err := app.NewKeySource(application.Bus(), application.Scope(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open terminal: %v\n", err)
		return 1
	}
	if err := source.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to take over terminal: %v\n", err)
		return 1
	}

	// Ctrl+Q ends the poll loop. The subscription sees every keydown on
	// the root scope, before dispatch marks it handled.
	quitKey, _ := key.CodeFromName("q")
	err = application.Bus().Subscribe(shortcut.DefaultEventType, application.Scope(), "quit-watch",
		func(ev *event.Event) {
			if ev.Key == quitKey && ev.Ctrl {
				source.Stop()
			}
		})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to install quit handler: %v\n", err)
		source.Stop()
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		source.Stop()
	}()

	source.Run()
	return 0
}

func parseFlags() (app.Options, string) {
	var opts app.Options
	var logLevel string
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to shortcut configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to shortcut configuration file (shorthand)")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload the configuration when it changes")
	flag.BoolVar(&opts.Watch, "w", false, "Reload the configuration when it changes (shorthand)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "hotkeyd - keyboard shortcut dispatch daemon\n\n")
		fmt.Fprintf(os.Stderr, "Usage: hotkeyd -c shortcuts.yaml [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  hotkeyd -c shortcuts.yaml       Run with a shortcut config\n")
		fmt.Fprintf(os.Stderr, "  hotkeyd -c shortcuts.toml -w    Reload the config on change\n")
		fmt.Fprintf(os.Stderr, "\nPress Ctrl+Q to quit.\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("hotkeyd %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch logLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", logLevel)
		os.Exit(1)
	}

	return opts, logLevel
}
