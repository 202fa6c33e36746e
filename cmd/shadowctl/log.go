package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/shadowlink/shadowlink-go/cmd/shadowctl/commands"
)

const logUsage = `shadowctl log - Inspect capture files

Usage:
  shadowctl log <command> [flags] <file.scap>

Commands:
  view     View capture in human-readable format
  export   Export capture to JSONL or CSV
  filter   Filter capture and write to new file
  stats    Show statistics about the capture
`

func runLog(args []string) error {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, logUsage)
		return fmt.Errorf("log command required")
	}

	switch args[0] {
	case "view":
		return runLogView(args[1:])
	case "export":
		return runLogExport(args[1:])
	case "filter":
		return runLogFilter(args[1:])
	case "stats":
		return runLogStats(args[1:])
	case "-h", "--help", "help":
		fmt.Print(logUsage)
		return nil
	default:
		fmt.Fprint(os.Stderr, logUsage)
		return fmt.Errorf("unknown log command: %s", args[0])
	}
}

// addFilterFlags registers the event filter flags on fs.
func addFilterFlags(fs *pflag.FlagSet) *commands.FilterOptions {
	var o commands.FilterOptions
	fs.StringVar(&o.ConnID, "conn-id", "", "Filter by connection ID")
	fs.StringVar(&o.ClientID, "client-id", "", "Filter by client ID")
	fs.StringVar(&o.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&o.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&o.Layer, "layer", "", "Filter by layer (transport, codec)")
	fs.StringVar(&o.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&o.Category, "category", "", "Filter by category (message, state, error)")
	return &o
}

func capturePath(fs *pflag.FlagSet) (string, error) {
	if fs.NArg() < 1 {
		fs.Usage()
		return "", fmt.Errorf("capture file path required")
	}
	return fs.Arg(0), nil
}

func runLogView(args []string) error {
	fs := newFlagSet("view", `shadowctl log view - View capture in human-readable format

Usage:
  shadowctl log view [flags] <file.scap>
`)
	opts := addFilterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := capturePath(fs)
	if err != nil {
		return err
	}
	filter, err := opts.Filter()
	if err != nil {
		return err
	}
	return commands.RunView(path, filter, os.Stdout)
}

func runLogExport(args []string) error {
	fs := newFlagSet("export", `shadowctl log export - Export capture to JSONL or CSV

Usage:
  shadowctl log export [flags] <file.scap>
`)
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.StringP("output", "o", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := capturePath(fs)
	if err != nil {
		return err
	}
	return commands.RunExport(path, *format, *output)
}

func runLogFilter(args []string) error {
	fs := newFlagSet("filter", `shadowctl log filter - Filter capture and write to new file

Usage:
  shadowctl log filter -o <out.scap> [flags] <file.scap>
`)
	output := fs.StringP("output", "o", "", "Output file (required)")
	opts := addFilterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := capturePath(fs)
	if err != nil {
		return err
	}
	if *output == "" {
		fs.Usage()
		return fmt.Errorf("output file (-o) required")
	}
	filter, err := opts.Filter()
	if err != nil {
		return err
	}

	count, err := commands.RunFilter(path, *output, filter)
	if err != nil {
		return err
	}
	fmt.Printf("Filtered %d events to %s\n", count, *output)
	return nil
}

func runLogStats(args []string) error {
	fs := newFlagSet("stats", `shadowctl log stats - Show statistics about the capture

Usage:
  shadowctl log stats <file.scap>
`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := capturePath(fs)
	if err != nil {
		return err
	}
	return commands.RunStats(path, os.Stdout)
}
