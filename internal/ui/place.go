package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/blockweek/internal/drag"
	"github.com/javiermolinar/blockweek/internal/schedule"
	"github.com/javiermolinar/blockweek/internal/task"
)

func (a *App) placeCmd() *cobra.Command {
	var (
		taskID  int64
		title   string
		process string
		hours   float64
	)

	cmd := &cobra.Command{
		Use:   "place [slot]",
		Short: "Place a task or an ad-hoc block on the grid",
		Long: `Place a block on the grid. A slot is DAY/ROW, where ROW is
important, must or noteveryweek (or 1, 2, 3).

Placing a task claims its suggested hours, capped by what is left of its
budget. An ad-hoc block draws from no budget.

Examples:
  blockweek place --task=3 Mon/important
  blockweek place --title="Standup" --process=operations --hours=1 Tue/must`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := task.ParseSlot(args[0])
			if err != nil {
				return err
			}

			var src schedule.Source
			switch {
			case taskID > 0 && title != "":
				return errors.New("use either --task or --title, not both")
			case taskID > 0:
				src = schedule.FromTask(taskID)
			case title != "":
				p, err := task.ParseProcess(process)
				if err != nil {
					return err
				}
				src = schedule.FromAdHoc(title, p, hours)
			default:
				return errors.New("either --task or --title is required")
			}

			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			out, err := a.engine.Place(cmd.Context(), src, slot)
			if err != nil {
				return fmt.Errorf("placing block: %w", err)
			}
			printOutcome(cmd.OutOrStdout(), "Placed", out)
			return nil
		},
	}

	cmd.Flags().Int64Var(&taskID, "task", 0, "Task to draw hours from")
	cmd.Flags().StringVar(&title, "title", "", "Title of an ad-hoc block")
	cmd.Flags().StringVar(&process, "process", "admin", "Process of an ad-hoc block")
	cmd.Flags().Float64Var(&hours, "hours", 1, "Hours of an ad-hoc block")
	return cmd
}

func (a *App) altCmd() *cobra.Command {
	var taskID, blockID int64

	cmd := &cobra.Command{
		Use:   "alt [target_block]",
		Short: "Add an alternative to a Not every week block",
		Long: `Add an alternative to a block in the "Not every week" row. Only one
block of an alternative group happens in a given week, and an alternative
can never be larger than its primary.

Examples:
  blockweek alt 7 --task=3
  blockweek alt 7 --block=9`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseID(args[0])
			if err != nil {
				return err
			}

			var src schedule.Source
			switch {
			case taskID > 0 && blockID > 0:
				return errors.New("use either --task or --block, not both")
			case taskID > 0:
				src = schedule.FromTask(taskID)
			case blockID > 0:
				src = schedule.FromBlock(blockID)
			default:
				return errors.New("either --task or --block is required")
			}

			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			out, err := a.engine.CreateAlternative(cmd.Context(), target, src)
			if err != nil {
				return fmt.Errorf("creating alternative: %w", err)
			}
			printOutcome(cmd.OutOrStdout(), "Added alternative", out)
			return nil
		},
	}

	cmd.Flags().Int64Var(&taskID, "task", 0, "Task to draw the alternative from")
	cmd.Flags().Int64Var(&blockID, "block", 0, "Existing block to turn into the alternative")
	return cmd
}

func (a *App) moveCmd() *cobra.Command {
	var onto int64

	cmd := &cobra.Command{
		Use:   "move [block] [slot]",
		Short: "Move a block to another slot or group",
		Long: `Move a block to another slot. With --onto the block joins the group
of another Not every week block instead.

Examples:
  blockweek move 5 Wed/must
  blockweek move 9 --onto=7`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if (onto > 0) == (len(args) == 2) {
				return errors.New("give either a slot or --onto")
			}
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}

			var out schedule.Outcome
			if onto > 0 {
				out, err = a.engine.MoveOnto(cmd.Context(), id, onto)
			} else {
				slot, perr := task.ParseSlot(args[1])
				if perr != nil {
					return perr
				}
				out, err = a.engine.Move(cmd.Context(), id, slot)
			}
			if err != nil {
				return fmt.Errorf("moving block: %w", err)
			}
			printOutcome(cmd.OutOrStdout(), "Moved", out)
			return nil
		},
	}

	cmd.Flags().Int64Var(&onto, "onto", 0, "Join the group of this block")
	return cmd
}

func (a *App) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [block]",
		Short: "Delete a placed block",
		Long: `Delete a placed block. Its hours return to the task budget. Deleting
the primary of an alternative group promotes its earliest alternative.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			out, err := a.engine.DeleteBlock(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("deleting block: %w", err)
			}
			printOutcome(cmd.OutOrStdout(), "Deleted", out)
			return nil
		},
	}
}

func (a *App) editCmd() *cobra.Command {
	var cascade, keep bool

	cmd := &cobra.Command{
		Use:   "edit [block] [hours]",
		Short: "Change the hours of a placed block",
		Long: `Change the hours of a placed block. Shrinking a primary below one of
its alternatives needs a resolution: --cascade shrinks the alternatives
too, --keep leaves them and reports the mismatch.`,
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

			res := schedule.ResolveUnset
			switch {
			case cascade && keep:
				return errors.New("use either --cascade or --keep, not both")
			case cascade:
				res = schedule.ResolveCascade
			case keep:
				res = schedule.ResolveKeep
			}

			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			out, err := a.engine.EditHours(cmd.Context(), id, hours, res)
			if errors.Is(err, task.ErrResolutionRequired) {
				return fmt.Errorf("editing block: %w (rerun with --cascade or --keep)", err)
			}
			if err != nil {
				return fmt.Errorf("editing block: %w", err)
			}
			printOutcome(cmd.OutOrStdout(), "Updated", out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&cascade, "cascade", false, "Shrink larger alternatives to the new hours")
	cmd.Flags().BoolVar(&keep, "keep", false, "Leave larger alternatives as they are")
	return cmd
}

func (a *App) dropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop [payload] [target]",
		Short: "Replay a drag gesture",
		Long: `Replay one drag and drop gesture, the way the board interprets it.
The payload is task:ID or block:ID. The target is block:ID or a slot,
optionally prefixed with cell:.

Examples:
  blockweek drop task:3 Mon/important
  blockweek drop block:9 block:7`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			c, out, err := a.engine.Gesture(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("dropping %s: %w", args[0], err)
			}
			if c.Kind == drag.Cancel {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing changed: %s\n", c.Reason)
				return nil
			}
			printOutcome(cmd.OutOrStdout(), c.Kind.String(), out)
			return nil
		},
	}
}
