package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/blockweek/internal/db"
	"github.com/javiermolinar/blockweek/internal/task"
)

func (a *App) importCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import [path]",
		Short: "Replace the week with one from another file",
		Long: `Replace the current week with the one stored in another file.
Files ending in .json, .yaml or .yml are read as JSON or YAML snapshots,
anything else as a blockweek SQLite database. The imported week must be consistent: every
budget respected and every alternative group well formed.

Example:
  blockweek import /path/to/other.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			if current := a.currentStoragePath(); current != "" && sourcePath == current {
				return fmt.Errorf("source file matches current storage")
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source file does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source path is a directory: %s", sourcePath)
			}

			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			if !force && a.engine.Board().Len()+len(a.engine.Board().Tasks()) > 0 {
				return errors.New("the current week is not empty, rerun with --force to replace it")
			}

			snap, err := readSnapshot(cmd.Context(), sourcePath)
			if err != nil {
				return err
			}
			out, err := a.engine.Replace(cmd.Context(), snap)
			if err != nil {
				return fmt.Errorf("importing %s: %w", sourcePath, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks and %d blocks from %s\n",
				len(snap.Tasks), len(snap.Blocks), sourcePath)
			printWarnings(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace a week that is not empty")
	return cmd
}

func (a *App) exportCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Write the week to another file",
		Long: `Write the current week to another file. Files ending in .json,
.yaml or .yml are written as JSON or YAML snapshots, anything else as a
blockweek SQLite database.

Example:
  blockweek export ~/week.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			destPath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			if current := a.currentStoragePath(); current != "" && destPath == current {
				return fmt.Errorf("destination file matches current storage")
			}
			if _, err := os.Stat(destPath); err == nil && !force {
				return fmt.Errorf("%s already exists, rerun with --force to overwrite it", destPath)
			}

			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			snap := a.engine.Snapshot()
			if err := writeSnapshot(cmd.Context(), destPath, snap); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks and %d blocks to %s\n",
				len(snap.Tasks), len(snap.Blocks), destPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

// openSnapshotFile picks the backend from the file extension.
func openSnapshotFile(path string) (task.Repository, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") || db.IsYAMLPath(path) {
		return db.NewFile(path)
	}
	return db.New(path)
}

func readSnapshot(ctx context.Context, path string) (*task.Snapshot, error) {
	repo, err := openSnapshotFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}
	defer func() { _ = repo.Close() }()

	snap, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%s holds no saved week", path)
	}
	return snap, nil
}

func writeSnapshot(ctx context.Context, path string, snap *task.Snapshot) error {
	repo, err := openSnapshotFile(path)
	if err != nil {
		return fmt.Errorf("opening destination: %w", err)
	}
	if err := repo.Save(ctx, snap); err != nil {
		_ = repo.Close()
		return fmt.Errorf("writing destination: %w", err)
	}
	return repo.Close()
}

// currentStoragePath returns the file the configured backend writes to, if any.
func (a *App) currentStoragePath() string {
	var path string
	switch a.config.Storage.Backend {
	case db.BackendSQLite, "":
		path = a.config.Storage.DBPath
	case db.BackendJSON:
		path = a.config.Storage.JSONPath
	}
	if path == "" {
		return ""
	}
	abs, err := resolvePath(path)
	if err != nil {
		return ""
	}
	return abs
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
