package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/blockweek/internal/config"
	"github.com/javiermolinar/blockweek/internal/db"
	"github.com/javiermolinar/blockweek/internal/engine"
	"github.com/javiermolinar/blockweek/internal/logging"
	"github.com/javiermolinar/blockweek/internal/task"
	"github.com/javiermolinar/blockweek/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo    task.Repository
	config  *config.Config
	root    *cobra.Command
	debug   bool // Enable debug logging
	engine  *engine.Engine
	logger  *slog.Logger
	closers []io.Closer

	// isInteractive decides whether the bare command opens the board or
	// prints the week.
	isInteractive func() bool
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repository is opened from the storage settings on first use.
func NewApp(repo task.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg, isInteractive: stdinIsTerminal}

	a.root = &cobra.Command{
		Use:   "blockweek",
		Short: "Plan a work week as blocks of hours",
		Long: `Blockweek plans a single recurring work week.

Tasks are budgets of hours. Placing a task on the grid of five days and
three priority rows draws hours from its budget. Blocks in the
"Not every week" row can hold alternatives: interchangeable blocks of
which only one happens in a given week.

Run without a subcommand to open the interactive board. When input is
not a terminal the week is printed instead.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			if !a.isInteractive() {
				printWeek(cmd.OutOrStdout(), a.engine.Board(), a.engine.Report(), weekColumnWidth())
				return nil
			}
			return tui.Run(a.engine, a.config, a.logger)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+logging.DebugLogPath+")")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.taskCmd())
	a.root.AddCommand(a.placeCmd())
	a.root.AddCommand(a.altCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.rmCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.dropCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.reportCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.mcpCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blockweek %s (commit: %s)\n", Version, Commit)
		},
	}
}

func stdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// ensureEngine opens logging, storage and the engine the first time a
// command needs them.
func (a *App) ensureEngine(ctx context.Context) error {
	if a.engine != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger, closer, err := logging.New(logging.Options{
		Level: a.config.Log.Level,
		File:  a.config.Log.File,
		Debug: a.debug,
	})
	if err != nil {
		return err
	}
	a.logger = logger
	a.closers = append(a.closers, closer)

	repo := a.repo
	if repo == nil {
		repo, err = db.Open(db.Options{
			Backend:  a.config.Storage.Backend,
			DBPath:   a.config.Storage.DBPath,
			JSONPath: a.config.Storage.JSONPath,
		})
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
	}

	delay, err := a.config.SaveDebounceDuration()
	if err != nil {
		_ = repo.Close()
		return err
	}
	if delay > 0 {
		repo = db.NewDebounced(repo, delay, logger)
	}

	eng, err := engine.Open(ctx, repo, engine.Options{
		Board:  a.config.BoardConfig(),
		Seed:   a.config.Schedule.SeedDefaults,
		Logger: logger,
	})
	if err != nil {
		_ = repo.Close()
		return err
	}
	a.repo = repo
	a.engine = eng
	return nil
}

// Close releases the engine, its storage and the log file.
func (a *App) Close() error {
	var errs []error
	if a.engine != nil {
		errs = append(errs, a.engine.Close())
		a.engine = nil
	} else if a.repo != nil {
		errs = append(errs, a.repo.Close())
	}
	a.repo = nil
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}
