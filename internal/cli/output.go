package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pfrederiksen/retro-events/internal/catalog"
	"github.com/pfrederiksen/retro-events/internal/decode"
	"github.com/pfrederiksen/retro-events/internal/schema"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// previewColumns are the columns shown in a text row preview.
var previewColumns = []int{
	schema.GameID, schema.Inning, schema.BatHome, schema.Outs,
	schema.Balls, schema.Strikes, schema.AwayScore, schema.HomeScore,
	schema.BatterID, schema.PitcherID, schema.EventCode, schema.EventText,
}

// FileSummary describes one parsed file.
type FileSummary struct {
	Name        string `json:"name"`
	Rows        int    `json:"rows"`
	Games       int    `json:"games"`
	Skipped     int    `json:"skipped_lines"`
	Fingerprint string `json:"fingerprint"`
	Error       string `json:"error,omitempty"`
}

// ParseResult contains data to be output by parse
type ParseResult struct {
	ParsedAt    time.Time     `json:"parsed_at"`
	Year        int           `json:"year"`
	Files       []FileSummary `json:"files"`
	Rows        int           `json:"rows"`
	Games       int           `json:"games"`
	Failed      int           `json:"failed"`
	Fingerprint string        `json:"fingerprint"`
	Columns     []string      `json:"columns,omitempty"`
	Preview     []decode.Row  `json:"preview,omitempty"`
}

// FileCheck is the verify outcome of one file.
type FileCheck struct {
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	Rows       int        `json:"rows"`
	LastRows   int        `json:"last_rows,omitempty"`
	LastParsed *time.Time `json:"last_parsed_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// VerifyResult contains data to be output by verify
type VerifyResult struct {
	CheckedAt time.Time   `json:"checked_at"`
	Year      int         `json:"year"`
	Files     []FileCheck `json:"files"`
	Changed   int         `json:"changed"`
}

func fingerprint(d uint64) string {
	return fmt.Sprintf("%016x", d)
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// WriteParse writes a parse result in the specified format
func WriteParse(w io.Writer, result *ParseResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeParseText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeParseText(w io.Writer, result *ParseResult, verbose bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range result.Files {
		if f.Error != "" {
			fmt.Fprintf(tw, "%s\tFAILED\t%s rows kept\t%s\n", f.Name, humanize.Comma(int64(f.Rows)), f.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s rows\t%s games", f.Name, humanize.Comma(int64(f.Rows)), humanize.Comma(int64(f.Games)))
		if verbose {
			fmt.Fprintf(tw, "\t%d skipped\t%s", f.Skipped, f.Fingerprint)
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal: %s rows from %s games in %s\n",
		humanize.Comma(int64(result.Rows)),
		humanize.Comma(int64(result.Games)),
		plural(len(result.Files), "file"))
	if result.Failed > 0 {
		fmt.Fprintf(w, "Failed: %s\n", plural(result.Failed, "file"))
	}
	if verbose {
		fmt.Fprintf(w, "Fingerprint: %s\n", result.Fingerprint)
	}

	if len(result.Preview) > 0 {
		fmt.Fprintln(w)
		return writePreview(w, result.Preview)
	}
	return nil
}

func writePreview(w io.Writer, rows []decode.Row) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	headers := make([]string, len(previewColumns))
	for i, c := range previewColumns {
		headers[i] = schema.MustLookup(c).Header
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		cells := make([]string, len(previewColumns))
		for i, c := range previewColumns {
			cells[i] = row[c].String()
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// WriteVerify writes a verify result in the specified format
func WriteVerify(w io.Writer, result *VerifyResult, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range result.Files {
		fmt.Fprintf(tw, "%s\t%s\t%s rows", f.Name, f.Status, humanize.Comma(int64(f.Rows)))
		if f.LastParsed != nil {
			fmt.Fprintf(tw, "\tlast parsed %s", humanize.Time(*f.LastParsed))
		}
		if f.Error != "" {
			fmt.Fprintf(tw, "\t%s", f.Error)
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if result.Changed == 0 {
		fmt.Fprintln(w, "\nNo changes since the last recorded runs.")
	} else {
		fmt.Fprintf(w, "\nChanged: %s\n", plural(result.Changed, "file"))
	}
	return nil
}

// WriteRuns lists catalog runs.
func WriteRuns(w io.Writer, runs []catalog.Run, format OutputFormat) error {
	if format == FormatJSON {
		if runs == nil {
			runs = []catalog.Run{}
		}
		return writeJSON(w, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s rows\t%s games\t%s\n",
			r.ParsedAt.Local().Format("2006-01-02 15:04"), r.File,
			humanize.Comma(int64(r.Rows)), humanize.Comma(int64(r.Games)),
			fingerprint(r.TableDigest))
	}
	return tw.Flush()
}

// WriteSchema lists column registry entries.
func WriteSchema(w io.Writer, entries []schema.Entry, format OutputFormat) error {
	if format == FormatJSON {
		type column struct {
			Index       int    `json:"index"`
			Header      string `json:"header"`
			Type        string `json:"type"`
			Implemented bool   `json:"implemented"`
		}
		out := make([]column, len(entries))
		for i, e := range entries {
			out[i] = column{e.Index, e.Header, e.Type.String(), e.Implemented}
		}
		return writeJSON(w, out)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tHEADER\tTYPE\tIMPLEMENTED")
	for _, e := range entries {
		impl := "yes"
		if !e.Implemented {
			impl = "no"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Index, e.Header, e.Type, impl)
	}
	return tw.Flush()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
