package ingest

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"fenrir/internal/analyzer"
)

const maxLineSize = 1024 * 1024

// Run drains r line by line, feeding each one through ParseLine and
// driver.Apply, writing any resulting emission to w. It is supervised by
// t the same way the teacher's Server.Run supervises its accept loop
// (internal/net/server.go): a SIGINT/SIGTERM-triggered t.Dying() stops the
// loop between lines rather than mid-write, while end-of-input stops it
// on its own with no signal involved.
//
// scanner.Scan() blocks on r with no cancellation of its own, so a scan
// that is idle waiting for the next line would otherwise never notice
// t.Dying(). A background goroutine does the blocking reads and posts
// each line (or the terminal error/EOF) to a channel; the loop below
// races that channel against t.Dying() so a kill lands immediately even
// mid-read. If Run returns while that goroutine is still blocked in
// Scan(), it leaks until r is closed or the process exits — acceptable
// here since a kill only happens on the way to process shutdown.
//
// Per-event errors (spec.md §7) are logged and the line is skipped; they
// never stop the loop or propagate as the return error. The return error
// is non-nil only for a read failure on r itself.
func Run(t *tomb.Tomb, r io.Reader, w io.Writer, driver *analyzer.Driver) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	out := bufio.NewWriter(w)
	defer out.Flush()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-t.Dying():
			return nil
		case err := <-scanErr:
			return err
		case line := <-lines:
			if line == "" {
				continue
			}
			if err := processLine(line, driver, out); err != nil {
				log.Error().Err(err).Str("line", line).Msg("rejected market log line")
			}
		}
	}
}

func processLine(line string, driver *analyzer.Driver, out *bufio.Writer) error {
	event, err := ParseLine(line)
	if err != nil {
		return err
	}

	emission, emitted, err := driver.Apply(event)
	if err != nil {
		return err
	}
	if !emitted {
		return nil
	}

	if _, err := fmt.Fprintln(out, FormatLine(emission)); err != nil {
		return err
	}
	return out.Flush()
}
