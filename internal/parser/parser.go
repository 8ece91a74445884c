// Package parser turns event files into a single table of rows.
//
// Each file is parsed sequentially by its own assembler. A format error stops
// that file: rows of the games completed before the error are kept, the game
// in progress is dropped, and the error names the file, line and field.
// ParseAll spreads files over a bounded set of goroutines and concatenates
// the results in input order, so the output does not depend on scheduling.
package parser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/retro-events/internal/game"
	"github.com/pfrederiksen/retro-events/internal/logger"
	"github.com/pfrederiksen/retro-events/internal/record"
	"github.com/pfrederiksen/retro-events/internal/table"
)

// File is one event file already read into lines.
type File struct {
	Name  string
	Lines []string
}

// Options configures parsing. The zero value is usable.
type Options struct {
	// Hands supplies handedness for standard play lines.
	Hands game.Hands
	// Logger defaults to logger.Default().
	Logger *logger.Logger
	// Workers bounds ParseAll concurrency. Values below 1 mean one.
	Workers int
}

func (o Options) logger() *logger.Logger {
	if o.Logger == nil {
		return logger.Default()
	}
	return o.Logger
}

// FileResult summarizes one file of a batch.
type FileResult struct {
	Name        string
	Rows        int
	Games       int
	Skipped     int
	Fingerprint uint64
	Err         error
}

// ParseFile parses the lines of one file. On error the returned table holds
// the rows of every game completed before the failing line.
func ParseFile(name string, lines []string, opts Options) (*table.Table, error) {
	tb, _, err := parse(name, lines, opts)
	return tb, err
}

func parse(name string, lines []string, opts Options) (*table.Table, FileResult, error) {
	start := time.Now()
	log := opts.logger()

	out := table.New()
	a := game.New(name, out, game.WithHands(opts.Hands), game.WithLogger(log))

	var err error
	for i, text := range lines {
		if err = a.Feed(record.Parse(i+1, text)); err != nil {
			break
		}
	}
	if err == nil {
		a.Finish()
	}

	res := FileResult{
		Name:        name,
		Rows:        out.Len(),
		Games:       a.Games(),
		Skipped:     a.Skipped(),
		Fingerprint: out.Fingerprint(),
		Err:         err,
	}

	logger.RecordTiming("parse.file", time.Since(start))
	logger.AddCounter("lines.skipped", int64(a.Skipped()))
	logger.AddCounter("rows.emitted", int64(out.Len()))

	if err != nil {
		logger.IncrCounter("files.failed")
		log.Error("Parse failed", logger.Fields{"file": name, "rows_kept": out.Len()}, err)
		return out, res, err
	}
	logger.IncrCounter("files.parsed")
	log.Debug("Parsed event file", logger.Fields{
		"file":    name,
		"rows":    out.Len(),
		"games":   a.Games(),
		"skipped": a.Skipped(),
	})
	return out, res, nil
}

// ParseAll parses files concurrently. The returned table holds the rows of
// every file in input order, including the rows kept from failed files.
// Failures are reported per file and joined into the returned error.
// Cancelling ctx stops files that have not started yet.
func ParseAll(ctx context.Context, files []File, opts Options) (*table.Table, []FileResult, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	tables := make([]*table.Table, len(files))
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, f := range files {
		i, f := i, f
		if err := gctx.Err(); err != nil {
			results[i] = FileResult{Name: f.Name, Err: fmt.Errorf("%s: %w", f.Name, err)}
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = FileResult{Name: f.Name, Err: fmt.Errorf("%s: %w", f.Name, err)}
				return nil
			}
			tables[i], results[i], _ = parse(f.Name, f.Lines, opts)
			return nil
		})
	}
	// Workers report failures through results; Wait only synchronizes.
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return table.Concat(tables...), results, errors.Join(errs...)
}
