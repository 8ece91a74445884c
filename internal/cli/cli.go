package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/retro-events/internal/catalog"
	"github.com/pfrederiksen/retro-events/internal/config"
	"github.com/pfrederiksen/retro-events/internal/logger"
	"github.com/pfrederiksen/retro-events/internal/parser"
	"github.com/pfrederiksen/retro-events/internal/roster"
	"github.com/pfrederiksen/retro-events/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	// ExitChanged is returned by verify when a file parses differently
	// from its last recorded run.
	ExitChanged = 2
)

var (
	errFilesFailed = errors.New("one or more files failed to parse")
	errChanged     = errors.New("parsed output changed since the last recorded run")
)

var (
	flagDataDir  string
	flagWorkers  int
	flagLogLevel string
	flagCatalog  string
	flagFormat   string
	flagVerbose  bool
)

// env is what every subcommand works with once flags are resolved.
type env struct {
	cfg   config.Config
	store *storage.Storage
	log   *logger.Logger
	out   io.Writer
	err   io.Writer
}

var current *env

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retro",
		Short: "Parse Retrosheet event files into play-by-play rows",
		Long: `A CLI tool to parse Retrosheet event files into a table of typed rows,
one row per play, and to keep a catalog of parse runs for later comparison.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagDataDir, "data-dir", config.DefaultDataDir, "Data directory for event, roster and archive files (env: "+config.EnvDataDir+")")
	pf.IntVar(&flagWorkers, "workers", 0, "Files parsed concurrently (env: "+config.EnvWorkers+", default: CPU count)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn or error (env: "+config.EnvLogLevel+")")
	pf.StringVar(&flagCatalog, "catalog", "", "Run catalog path (env: "+config.EnvCatalog+", default: <data-dir>/"+config.CatalogFile+")")
	pf.StringVar(&flagFormat, "format", "text", "Output format: text or json")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")

	cmd.AddCommand(
		newParseCmd(),
		newVerifyCmd(),
		newSchemaCmd(),
		newUnpackCmd(),
		newFilesCmd(),
		newRunsCmd(),
	)
	return cmd
}

// setup resolves configuration and opens the data directory.
func setup(cmd *cobra.Command, args []string) error {
	if path := config.LoadEnvFile(config.EnvFiles...); path != "" && flagVerbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Loaded environment from %s\n", path)
	}

	pf := cmd.Flags()
	cfg, err := config.Load(config.Flags{
		DataDir:     flagDataDir,
		DataDirSet:  pf.Changed("data-dir"),
		Workers:     flagWorkers,
		WorkersSet:  pf.Changed("workers"),
		LogLevel:    flagLogLevel,
		LogLevelSet: pf.Changed("log-level"),
		Catalog:     flagCatalog,
		CatalogSet:  pf.Changed("catalog"),
	})
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if _, err := parseFormat(flagFormat); err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, cmd.ErrOrStderr())
	logger.SetDefault(log)

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	if flagVerbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Data directory: %s\n", store.Dir())
		fmt.Fprintf(cmd.ErrOrStderr(), "Catalog: %s\n", cfg.Catalog)
	}

	current = &env{
		cfg:   cfg,
		store: store,
		log:   log,
		out:   cmd.OutOrStdout(),
		err:   cmd.ErrOrStderr(),
	}
	return nil
}

// selection names the event files a command works on.
type selection struct {
	year   int
	team   string
	league string
}

func addSelectionFlags(cmd *cobra.Command, sel *selection) {
	cmd.Flags().IntVar(&sel.year, "year", 0, "Season year (required)")
	cmd.Flags().StringVar(&sel.team, "team", "", "Home team code, e.g. NYA (default: every team with an event file)")
	cmd.Flags().StringVar(&sel.league, "league", "A", "League of --team: A or N")
	cmd.MarkFlagRequired("year") // nolint:errcheck
}

// paths resolves the selection to event file paths.
func (e *env) paths(sel selection) ([]string, error) {
	if sel.year <= 0 {
		return nil, fmt.Errorf("--year must be a positive year, got %d", sel.year)
	}
	if team := strings.TrimSpace(sel.team); team != "" {
		path, err := e.store.EventFile(sel.year, team, sel.league)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("event file %s: %w", filepath.Base(path), err)
		}
		return []string{path}, nil
	}

	paths, err := e.store.EventFiles(sel.year)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no event files for %d in %s", sel.year, e.store.Dir())
	}
	return paths, nil
}

// load reads the selected files and returns them with their input digests.
func (e *env) load(paths []string) ([]parser.File, []uint64, error) {
	prog := newProgress(e.err, len(paths))
	defer prog.done()

	files := make([]parser.File, len(paths))
	digests := make([]uint64, len(paths))
	for i, path := range paths {
		name := filepath.Base(path)
		prog.step(name)
		lines, err := e.store.ReadLines(path)
		if err != nil {
			return nil, nil, err
		}
		files[i] = parser.File{Name: name, Lines: lines}
		digests[i] = catalog.InputDigest(lines)
	}
	return files, digests, nil
}

// hands loads every roster of the season. A season without roster files
// parses without handedness for standard play lines.
func (e *env) hands(year int) (roster.Set, error) {
	teams, err := e.store.RosterTeams(year)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		e.log.Warn("No roster files found", logger.Fields{"year": year})
		return nil, nil
	}
	book := roster.NewBook(e.store.LoadRoster)
	set, err := book.Season(year, teams)
	if err != nil {
		return nil, fmt.Errorf("loading rosters: %w", err)
	}
	e.log.Debug("Loaded rosters", logger.Fields{"year": year, "teams": len(teams)})
	return set, nil
}

// parse runs the parser over the selection.
func (e *env) parse(ctx context.Context, sel selection) (*parseRun, error) {
	paths, err := e.paths(sel)
	if err != nil {
		return nil, err
	}
	files, digests, err := e.load(paths)
	if err != nil {
		return nil, err
	}
	set, err := e.hands(sel.year)
	if err != nil {
		return nil, err
	}

	opts := parser.Options{Logger: e.log, Workers: e.cfg.Workers}
	if set != nil {
		opts.Hands = set
	}
	tb, results, err := parser.ParseAll(ctx, files, opts)
	return &parseRun{table: tb, results: results, digests: digests}, err
}

// Execute runs the CLI
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errChanged):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitChanged
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
}
