package ui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/blockweek/internal/task"
)

func (a *App) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the task pool",
		Long: `Manage the task pool. A task is a budget of hours that placements
on the grid draw from.`,
	}
	cmd.AddCommand(a.taskAddCmd())
	cmd.AddCommand(a.taskListCmd())
	cmd.AddCommand(a.taskSetHoursCmd())
	cmd.AddCommand(a.taskRmCmd())
	return cmd
}

func (a *App) taskAddCmd() *cobra.Command {
	var (
		process   string
		hours     float64
		suggested float64
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task to the pool",
		Long: `Add a task to the pool.

Example:
  blockweek task add "Write documentation" --process=development --hours=6 --suggested=2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := task.ParseProcess(process)
			if err != nil {
				return err
			}
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}

			t, err := a.engine.CreateTask(cmd.Context(), args[0], p, hours, suggested)
			if err != nil {
				return fmt.Errorf("creating task: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s [%s] %sh (%sh per placement)\n",
				taskLabel(t), t.Process.Label(),
				task.FormatHours(t.TotalHours), task.FormatHours(t.SuggestedHours))
			return nil
		},
	}

	cmd.Flags().StringVar(&process, "process", "", "Process: marketing, development, clientwork, operations, admin")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Total hours budget (required)")
	cmd.Flags().Float64Var(&suggested, "suggested", 0, "Hours per placement (default from config, capped by the budget)")

	_ = cmd.MarkFlagRequired("process")
	_ = cmd.MarkFlagRequired("hours")

	return cmd
}

func (a *App) taskListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks and their remaining hours",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}

			summaries := a.engine.DraggableTasks()
			if all {
				summaries = a.engine.Board().TaskSummaries()
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				if all {
					fmt.Fprintln(out, "No tasks.")
				} else {
					fmt.Fprintln(out, "No tasks with hours left. Use --all to list exhausted tasks.")
				}
				return nil
			}

			maxTitle := min(max(termWidth()-50, 16), 40)
			fmt.Fprintf(out, "  %s\n", formatHeader("TASKS"))
			for _, ts := range summaries {
				printTaskRow(out, ts, maxTitle)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include tasks with no hours left")
	return cmd
}

func (a *App) taskSetHoursCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-hours [task_id] [hours]",
		Short: "Change the total hours of a task",
		Long: `Change the total hours of a task. The new total cannot be lower
than the hours already placed.

Example:
  blockweek task set-hours 3 10`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			hours, err := parseHours(args[1])
			if err != nil {
				return err
			}
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}

			t, err := a.engine.SetTotalHours(cmd.Context(), id, hours)
			if err != nil {
				return fmt.Errorf("updating task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s now has %sh\n", taskLabel(t), task.FormatHours(t.TotalHours))
			return nil
		},
	}
}

func (a *App) taskRmCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm [task_id]",
		Short: "Delete a task",
		Long: `Delete a task. If the task has placed blocks they are deleted too,
which needs --yes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}

			out, err := a.engine.DeleteTask(cmd.Context(), id, yes)
			if errors.Is(err, task.ErrConfirmationRequired) {
				n := len(a.engine.Board().ReferencingBlocks(id))
				return fmt.Errorf("task #%d has %d placed blocks, rerun with --yes to delete them", id, n)
			}
			if err != nil {
				return fmt.Errorf("deleting task: %w", err)
			}
			printOutcome(cmd.OutOrStdout(), fmt.Sprintf("Deleted task #%d", id), out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Also delete the task's placed blocks")
	return cmd
}

// parseID accepts "4" or "#4".
func parseID(s string) (int64, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseHours(s string) (float64, error) {
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("hours must be a number, got %q", s)
	}
	return h, nil
}
