package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/blockweek/internal/config"
	"github.com/javiermolinar/blockweek/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  blockweek config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}
}

func runConfigInteractive(reader *bufio.Reader, w io.Writer, configPath string) error {
	fmt.Fprintf(w, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Fprintln(w, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(w, "Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(w, cfg)

	// Ask if user wants to edit
	if !promptYesNo(reader, w, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Schedule.ImportantCapHours = promptFloat(reader, w, "Important cap hours per day (0 to disable)", cfg.Schedule.ImportantCapHours)
	cfg.Schedule.DefaultBlockHours = promptFloat(reader, w, "Default block hours", cfg.Schedule.DefaultBlockHours)
	cfg.Schedule.SeedDefaults = promptBool(reader, w, "Seed sample tasks into empty storage", cfg.Schedule.SeedDefaults)
	cfg.Schedule.AllowMismatchedAlternatives = promptBool(reader, w, "Allow alternatives larger than an edited primary", cfg.Schedule.AllowMismatchedAlternatives)
	cfg.Storage.Backend = promptChoice(reader, w, "Storage backend", cfg.Storage.Backend, []string{"sqlite", "json", "memory"})
	switch cfg.Storage.Backend {
	case "sqlite":
		cfg.Storage.DBPath = promptValue(reader, w, "Database path", cfg.Storage.DBPath)
	case "json":
		cfg.Storage.JSONPath = promptValue(reader, w, "JSON file path", cfg.Storage.JSONPath)
	}
	cfg.Storage.SaveDebounce = promptValue(reader, w, "Save debounce (e.g. 500ms, 0s)", cfg.Storage.SaveDebounce)
	cfg.UI.Theme = promptChoice(reader, w, "UI theme", cfg.UI.Theme, theme.Available())
	cfg.Log.Level = promptChoice(reader, w, "Log level", cfg.Log.Level, []string{"debug", "info", "warn", "error"})
	cfg.Log.File = promptValue(reader, w, "Log file (empty to disable)", cfg.Log.File)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(w, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[schedule]")
	fmt.Fprintf(w, "  important_cap_hours           = %s\n", formatFloat(cfg.Schedule.ImportantCapHours))
	fmt.Fprintf(w, "  default_block_hours           = %s\n", formatFloat(cfg.Schedule.DefaultBlockHours))
	fmt.Fprintf(w, "  seed_defaults                 = %t\n", cfg.Schedule.SeedDefaults)
	fmt.Fprintf(w, "  allow_mismatched_alternatives = %t\n", cfg.Schedule.AllowMismatchedAlternatives)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  backend       = %s\n", cfg.Storage.Backend)
	fmt.Fprintf(w, "  db_path       = %s\n", cfg.Storage.DBPath)
	fmt.Fprintf(w, "  json_path     = %s\n", cfg.Storage.JSONPath)
	fmt.Fprintf(w, "  save_debounce = %s\n", cfg.Storage.SaveDebounce)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme = %s\n", cfg.UI.Theme)
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  level = %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Fprintf(w, "  file  = %s\n", cfg.Log.File)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func promptYesNo(reader *bufio.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, w io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(w, "  %s: ", label)
	} else {
		fmt.Fprintf(w, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptFloat(reader *bufio.Reader, w io.Writer, label string, current float64) float64 {
	for {
		value := promptValue(reader, w, label, formatFloat(current))
		f, err := strconv.ParseFloat(value, 64)
		if err == nil && f >= 0 {
			return f
		}
		fmt.Fprintf(w, "  Invalid number %q.\n", value)
		if atEOF(reader) {
			return current
		}
	}
}

func promptBool(reader *bufio.Reader, w io.Writer, label string, current bool) bool {
	for {
		value := promptValue(reader, w, label+" (true/false)", strconv.FormatBool(current))
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
		fmt.Fprintf(w, "  Invalid value %q.\n", value)
		if atEOF(reader) {
			return current
		}
	}
}

func promptChoice(reader *bufio.Reader, w io.Writer, label, current string, options []string) string {
	joined := strings.Join(options, ", ")
	label = fmt.Sprintf("%s (%s)", label, joined)
	for {
		value := strings.ToLower(promptValue(reader, w, label, current))
		for _, opt := range options {
			if value == opt {
				return value
			}
		}
		fmt.Fprintf(w, "  Invalid choice %q. Available: %s\n", value, joined)
		if atEOF(reader) {
			return current
		}
	}
}

// atEOF stops a prompt from looping forever on a closed input.
func atEOF(reader *bufio.Reader) bool {
	_, err := reader.Peek(1)
	return err == io.EOF
}
