// Command shadowctl exercises the shadowlink device stack from a shell.
//
// Usage:
//
//	shadowctl <command> [flags] [args]
//
// Commands:
//
//	probe    Connect to the configured broker and report the TLS session
//	build    Build a get, delete, or update document
//	parse    Parse a document and look up properties
//	log      View, filter, export, or summarize a capture file
//	shell    Compose documents interactively
//
// Examples:
//
//	# Check that the device credentials reach the broker
//	shadowctl probe --config device.yaml
//
//	# Build an update from a property file into a 200-byte buffer
//	shadowctl build --size 200 update props.jsonc
//
//	# Look up properties in a delta document
//	shadowctl parse --props props.jsonc delta.json
//
//	# View only codec-layer events of a capture
//	shadowctl log view --layer codec device.scap
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/shadowlink/shadowlink-go/cmd/shadowctl/commands"
	"github.com/shadowlink/shadowlink-go/pkg/config"
	"github.com/shadowlink/shadowlink-go/pkg/log"
)

const usage = `shadowctl - device shadow toolkit

Usage:
  shadowctl <command> [flags] [args]

Commands:
  probe    Connect to the configured broker and report the TLS session
  build    Build a get, delete, or update document
  parse    Parse a document and look up properties
  log      View, filter, export, or summarize a capture file
  shell    Compose documents interactively
  version  Print the SDK version, optionally checking a requirement

Use "shadowctl <command> --help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "probe":
		err = runProbe(args)
	case "build":
		err = runBuild(args)
	case "parse":
		err = runParse(args)
	case "log":
		err = runLog(args)
	case "shell":
		err = runShell(args)
	case "version", "--version":
		err = runVersion(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		if err != pflag.ErrHelp {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// newFlagSet returns a flag set whose usage shows synopsis above the flags.
func newFlagSet(name, synopsis string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\nFlags:\n", synopsis)
		fs.PrintDefaults()
	}
	return fs
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

// openCapture opens path for capture, or returns nil when path is empty.
func openCapture(path string) (*log.FileLogger, error) {
	if path == "" {
		return nil, nil
	}
	fl, err := log.NewFileLogger(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	return fl, nil
}

// captureLogger avoids a typed-nil log.Logger.
func captureLogger(fl *log.FileLogger) log.Logger {
	if fl == nil {
		return nil
	}
	return fl
}

func runVersion(args []string) error {
	fs := newFlagSet("version", `shadowctl version - Print the SDK version

Usage:
  shadowctl version [--require <major.minor.patch>]
`)
	req := fs.String("require", "", "Fail unless the SDK satisfies this version")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return commands.RunVersion(*req, os.Stdout)
}

func runProbe(args []string) error {
	fs := newFlagSet("probe", `shadowctl probe - Connect to the broker and report the TLS session

Usage:
  shadowctl probe --config <file.yaml>
`)
	cfgPath := fs.StringP("config", "c", "shadowlink.yaml", "Device configuration file")
	host := fs.String("host", "", "Override endpoint host")
	port := fs.Uint16("port", 0, "Override endpoint port")
	capture := fs.String("capture", "", "Capture file (default: from config)")
	logLevel := fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := newLogger(*logLevel)
	if err != nil {
		return err
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if *host != "" {
		cfg.Endpoint.Host = *host
	}
	if *port != 0 {
		cfg.Endpoint.Port = *port
	}
	if *capture != "" {
		cfg.Capture = *capture
	}

	fl, err := openCapture(cfg.Capture)
	if err != nil {
		return err
	}
	if fl != nil {
		defer fl.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return commands.RunProbe(ctx, commands.ProbeOptions{
		Config:  cfg,
		Logger:  logger,
		Capture: captureLogger(fl),
	}, os.Stdout)
}

func runBuild(args []string) error {
	fs := newFlagSet("build", `shadowctl build - Build a shadow document

Usage:
  shadowctl build [flags] get|delete
  shadowctl build [flags] update <props.jsonc>
`)
	size := fs.IntP("size", "s", 512, "Document buffer size in bytes")
	clientID := fs.String("client-id", "", "Client id (default: from property file)")
	capture := fs.String("capture", "", "Append a codec event to this capture file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("document kind required")
	}

	opts := commands.BuildOptions{
		Kind:     strings.ToLower(fs.Arg(0)),
		Size:     *size,
		ClientID: *clientID,
		Props:    fs.Arg(1),
	}
	fl, err := openCapture(*capture)
	if err != nil {
		return err
	}
	if fl != nil {
		defer fl.Close()
		opts.Capture = fl
	}
	return commands.RunBuild(opts, os.Stdout)
}

func runParse(args []string) error {
	fs := newFlagSet("parse", `shadowctl parse - Parse a shadow document

Usage:
  shadowctl parse [flags] <document.json>
`)
	props := fs.StringP("props", "p", "", "Property file naming values to look up")
	capacity := fs.Int("tokens", 0, "Token table capacity (default 120)")
	capture := fs.String("capture", "", "Append a codec event to this capture file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("document path required")
	}

	opts := commands.ParseOptions{
		Doc:      fs.Arg(0),
		Props:    *props,
		Capacity: *capacity,
	}
	fl, err := openCapture(*capture)
	if err != nil {
		return err
	}
	if fl != nil {
		defer fl.Close()
		opts.Capture = fl
	}
	return commands.RunParse(opts, os.Stdout)
}

func runShell(args []string) error {
	fs := newFlagSet("shell", `shadowctl shell - Compose documents interactively

Usage:
  shadowctl shell [flags]
`)
	size := fs.IntP("size", "s", 512, "Document buffer size in bytes")
	clientID := fs.String("client-id", commands.DefaultClientID, "Client id")
	capture := fs.String("capture", "", "Append codec events to this capture file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *size < 1 {
		return fmt.Errorf("invalid size %d", *size)
	}

	fl, err := openCapture(*capture)
	if err != nil {
		return err
	}
	if fl != nil {
		defer fl.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	return commands.NewShell(*clientID, *size, os.Stdout, captureLogger(fl)).Run(ctx)
}
