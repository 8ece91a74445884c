package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/retro-events/internal/catalog"
	"github.com/pfrederiksen/retro-events/internal/decode"
	"github.com/pfrederiksen/retro-events/internal/logger"
	"github.com/pfrederiksen/retro-events/internal/parser"
	"github.com/pfrederiksen/retro-events/internal/schema"
	"github.com/pfrederiksen/retro-events/internal/table"
)

// Verify statuses.
const (
	StatusNew       = "new"
	StatusUnchanged = "unchanged"
	StatusInput     = "input-changed"
	StatusOutput    = "output-changed"
	StatusFailed    = "failed"
)

type parseRun struct {
	table   *table.Table
	results []parser.FileResult
	digests []uint64
}

func newParseCmd() *cobra.Command {
	var (
		sel      selection
		preview  int
		sortBy   string
		noRecord bool
	)
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a season's event files into rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := parseSortOrder(sortBy)
			if err != nil {
				return err
			}
			if preview < 0 {
				return fmt.Errorf("--preview must not be negative")
			}
			return runParse(cmd.Context(), sel, preview, order, !noRecord)
		},
	}
	addSelectionFlags(cmd, &sel)
	cmd.Flags().IntVar(&preview, "preview", 0, "Show the first N rows")
	cmd.Flags().StringVar(&sortBy, "sort", "name", "Sort file summaries by: name, rows or games")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Do not record runs in the catalog")
	return cmd
}

func runParse(ctx context.Context, sel selection, preview int, order SortOrder, record bool) error {
	e := current
	format, _ := parseFormat(flagFormat)

	start := time.Now()
	pr, parseErr := e.parse(ctx, sel)
	if pr == nil {
		return parseErr
	}

	result := &ParseResult{
		ParsedAt:    time.Now().UTC(),
		Year:        sel.year,
		Rows:        pr.table.Len(),
		Fingerprint: fingerprint(pr.table.Fingerprint()),
	}
	for _, r := range pr.results {
		fs := FileSummary{
			Name:        r.Name,
			Rows:        r.Rows,
			Games:       r.Games,
			Skipped:     r.Skipped,
			Fingerprint: fingerprint(r.Fingerprint),
		}
		if r.Err != nil {
			fs.Error = r.Err.Error()
			result.Failed++
		}
		result.Games += r.Games
		result.Files = append(result.Files, fs)
	}
	sortFiles(result.Files, order)

	if preview > 0 {
		n := min(preview, pr.table.Len())
		result.Columns = pr.table.Headers()
		result.Preview = make([]decode.Row, n)
		for i := 0; i < n; i++ {
			result.Preview[i] = pr.table.Row(i)
		}
	}

	if record {
		if err := e.record(ctx, pr); err != nil {
			return err
		}
	}

	e.log.Info("Parse complete", logger.Fields{
		"year":     sel.year,
		"files":    len(pr.results),
		"rows":     result.Rows,
		"failed":   result.Failed,
		"duration": time.Since(start).String(),
	})

	if err := WriteParse(e.out, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if result.Failed > 0 {
		return errFilesFailed
	}
	return nil
}

// record stores a catalog run for every file that parsed cleanly.
func (e *env) record(ctx context.Context, pr *parseRun) error {
	cat, err := catalog.Open(e.cfg.Catalog)
	if err != nil {
		return err
	}
	defer cat.Close() // nolint:errcheck

	for i, r := range pr.results {
		if r.Err != nil {
			continue
		}
		run, err := cat.Record(ctx, catalog.Run{
			File:        r.Name,
			InputDigest: pr.digests[i],
			TableDigest: r.Fingerprint,
			Rows:        r.Rows,
			Games:       r.Games,
		})
		if err != nil {
			return err
		}
		e.log.Debug("Recorded run", logger.Fields{"file": r.Name, "run_id": run.ID})
	}
	return nil
}

func newVerifyCmd() *cobra.Command {
	var sel selection
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Re-parse event files and compare with their last recorded runs",
		Long: `Re-parse event files and compare each with its last recorded run.

A file whose input is unchanged but whose rows differ is reported as
output-changed and makes the command exit with status 2.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), sel)
		},
	}
	addSelectionFlags(cmd, &sel)
	return cmd
}

func runVerify(ctx context.Context, sel selection) error {
	e := current
	format, _ := parseFormat(flagFormat)

	pr, parseErr := e.parse(ctx, sel)
	if pr == nil {
		return parseErr
	}

	cat, err := catalog.Open(e.cfg.Catalog)
	if err != nil {
		return err
	}
	defer cat.Close() // nolint:errcheck

	result := &VerifyResult{CheckedAt: time.Now().UTC(), Year: sel.year}
	failed := 0
	for i, r := range pr.results {
		check := FileCheck{Name: r.Name, Rows: r.Rows}
		if r.Err != nil {
			check.Status = StatusFailed
			check.Error = r.Err.Error()
			failed++
			result.Files = append(result.Files, check)
			continue
		}

		last, err := cat.LastRun(ctx, r.Name)
		switch {
		case errors.Is(err, catalog.ErrNoRun):
			check.Status = StatusNew
		case err != nil:
			return err
		default:
			parsed := last.ParsedAt
			check.LastParsed = &parsed
			check.LastRows = last.Rows
			switch {
			case last.InputDigest != pr.digests[i]:
				check.Status = StatusInput
			case last.TableDigest != r.Fingerprint:
				check.Status = StatusOutput
				result.Changed++
				e.log.Warn("Output changed for unchanged input", logger.Fields{
					"file":      r.Name,
					"rows":      r.Rows,
					"last_rows": last.Rows,
					"last_run":  last.ID,
				})
			default:
				check.Status = StatusUnchanged
			}
		}
		result.Files = append(result.Files, check)
	}

	if err := WriteVerify(e.out, result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if result.Changed > 0 {
		return errChanged
	}
	if failed > 0 {
		return errFilesFailed
	}
	return nil
}

func newSchemaCmd() *cobra.Command {
	var implemented bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "List the output columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := parseFormat(flagFormat)
			entries := schema.Entries()
			if implemented {
				kept := entries[:0]
				for _, e := range entries {
					if e.Implemented {
						kept = append(kept, e)
					}
				}
				entries = kept
			}
			return WriteSchema(current.out, entries, format)
		},
	}
	cmd.Flags().BoolVar(&implemented, "implemented", false, "Only list populated columns")
	return cmd
}

func newUnpackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpack ARCHIVE.zip",
		Short: "Extract event and roster files from a season archive",
		Long: `Extract event and roster files from a season archive into the data
directory. A bare archive name is looked up under <data-dir>/archives.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := current
			paths, err := e.store.Unpack(args[0])
			if err != nil {
				return fmt.Errorf("unpacking %s: %w", args[0], err)
			}
			for _, p := range paths {
				fmt.Fprintln(e.out, filepath.Base(p))
			}
			fmt.Fprintf(e.out, "\nExtracted %s into %s\n", plural(len(paths), "file"), e.store.Dir())
			return nil
		},
	}
}

func newFilesCmd() *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "files",
		Short: "List the event and roster files of a season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := current
			events, err := e.store.EventFiles(year)
			if err != nil {
				return err
			}
			teams, err := e.store.RosterTeams(year)
			if err != nil {
				return err
			}

			format, _ := parseFormat(flagFormat)
			if format == FormatJSON {
				names := make([]string, len(events))
				for i, p := range events {
					names[i] = filepath.Base(p)
				}
				return writeJSON(e.out, struct {
					Year    int      `json:"year"`
					Events  []string `json:"event_files"`
					Rosters []string `json:"roster_teams"`
				}{year, names, teams})
			}

			for _, p := range events {
				size := "?"
				if info, err := os.Stat(p); err == nil {
					size = humanize.Bytes(uint64(info.Size()))
				}
				fmt.Fprintf(e.out, "%s  %s\n", filepath.Base(p), size)
			}
			fmt.Fprintf(e.out, "\n%s, rosters for %s\n", plural(len(events), "event file"), plural(len(teams), "team"))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Season year (required)")
	cmd.MarkFlagRequired("year") // nolint:errcheck
	return cmd
}

func newRunsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded parse runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := current
			cat, err := catalog.Open(e.cfg.Catalog)
			if err != nil {
				return err
			}
			defer cat.Close() // nolint:errcheck

			runs, err := cat.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			format, _ := parseFormat(flagFormat)
			return WriteRuns(e.out, runs, format)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}
