// Command analyzer is the streaming market-depth analyzer's CLI
// entrypoint (spec.md §6). It validates the single target_size argument,
// wires the analyzer driver to standard input/output, and supervises the
// read loop the same way the teacher's cmd/main.go supervises its TCP
// accept loop: a cancellable context fed by os/signal, and a tomb.Tomb
// that lets SIGINT/SIGTERM stop things cooperatively.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"fenrir/internal/analyzer"
	"fenrir/internal/ingest"
)

func main() {
	debug := flag.Bool("debug", false, "log one structured debug line per processed event to stderr")
	flag.Parse()

	targetSize, err := parseTargetSize(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	runID := uuid.New().String()
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("run_id", runID).
		Logger()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	driver := analyzer.New(targetSize)

	t, ctx := tomb.WithContext(ctx)
	t.Go(func() error {
		return ingest.Run(t, os.Stdin, os.Stdout, driver)
	})

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down on signal")
		t.Kill(nil)
	case <-t.Dead():
	}

	if err := t.Wait(); err != nil {
		log.Error().Err(err).Msg("analyzer exited with error")
		os.Exit(1)
	}
}

// parseTargetSize validates the single positional target_size argument
// (spec.md §6: a positive decimal integer; missing or invalid is a fatal
// startup error).
func parseTargetSize(args []string) (uint64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: analyzer [-debug] <target_size>")
	}
	targetSize, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || targetSize == 0 {
		return 0, fmt.Errorf("target_size must be a positive integer, got %q", args[0])
	}
	return targetSize, nil
}
