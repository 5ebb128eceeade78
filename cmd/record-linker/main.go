// Package main provides the CLI entrypoint for record-linker.
//
// record-linker runs one-to-one enrichment joins over collections stored
// anywhere afs can reach:
//   - join: run every join of a YAML plan and write the enriched collections
//   - index: build the lookup index of one collection and dump it
//   - check: validate a plan and the Go record types it declares
//
// Settings come from the environment and an optional .env file
// (LINKER_LOG_LEVEL, LINKER_SEQ_URL, LINKER_KEY_CATEGORIES).
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/viant/afs"

	"record-linker/internal/config"
	"record-linker/internal/logging"
	"record-linker/internal/source"
)

const usage = `usage: record-linker <command> [flags]

commands:
  join   -plan URL [-join NAME]         run the joins of a plan
  index  -in URL -key FIELD [flags]     dump the index of a collection
  check  -plan URL                      validate a plan and its record types
`

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	fs     afs.Service
	store  *source.Store
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return exitError
	}

	logger, closeLog := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		SeqURL: cfg.SeqURL,
		Output: stderr,
	})
	defer closeLog()

	fs := afs.New()
	a := &app{
		cfg:    cfg,
		logger: logger,
		fs:     fs,
		store:  source.New(fs, logger),
		stdout: stdout,
		stderr: stderr,
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "join":
		return a.join(ctx, rest)
	case "index":
		return a.index(ctx, rest)
	case "check":
		return a.check(ctx, rest)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return exitUsage
	}
}
