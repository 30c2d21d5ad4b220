package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/blockweek/internal/summary"
)

func (a *App) reportCmd() *cobra.Command {
	var (
		copyText bool
		noColor  bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print hour totals per process and row",
		Long: `Print the week totals: hours per process, per row, and any warnings
such as a day over the Important cap or an alternative larger than its
primary. An alternative group counts once, with its primary's hours.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}

			r := a.engine.Report()
			printReport(cmd.OutOrStdout(), r)

			if copyText {
				if err := clipboard.WriteAll(r.Text()); err != nil {
					return fmt.Errorf("copying report: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatMuted("Copied to clipboard."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyText, "copy", "c", false, "Copy the plain text report to the clipboard")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// printReport prints the plain text report with section titles and
// warnings highlighted.
func printReport(w io.Writer, r *summary.Report) {
	warnings := false
	for _, line := range strings.Split(strings.TrimRight(r.Text(), "\n"), "\n") {
		switch {
		case line == "":
			fmt.Fprintln(w)
		case !strings.HasPrefix(line, " "):
			warnings = line == "Warnings"
			fmt.Fprintln(w, formatHeader(line))
		case warnings:
			fmt.Fprintln(w, formatWarning(line))
		default:
			fmt.Fprintln(w, line)
		}
	}
}
