// Package mcpserver exposes the week engine as Model Context Protocol tools,
// so an assistant can plan the week through the same commands as the CLI.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/javiermolinar/blockweek/internal/engine"
	"github.com/javiermolinar/blockweek/internal/schedule"
	"github.com/javiermolinar/blockweek/internal/task"
)

const serverName = "blockweek"

// NewServer registers every tool against eng.
func NewServer(eng *engine.Engine, version string) *server.MCPServer {
	s := server.NewMCPServer(serverName, version)

	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks with their budget. Tasks with no hours left are hidden unless all is set."),
		mcp.WithBoolean("all", mcp.Description("Include tasks whose budget is used up")),
	), listTasksHandler(eng))

	s.AddTool(mcp.NewTool("create_task",
		mcp.WithDescription("Create a task with a weekly budget of hours."),
		mcp.WithString("title", mcp.Description("Task title"), mcp.Required()),
		mcp.WithString("process", mcp.Description("Process (marketing|development|clientwork|operations|admin)"), mcp.Required()),
		mcp.WithNumber("total_hours", mcp.Description("Hours budgeted for the week"), mcp.Required()),
		mcp.WithNumber("suggested_hours", mcp.Description("Hours a single placement claims (defaults to the configured block size)")),
	), createTaskHandler(eng))

	s.AddTool(mcp.NewTool("set_task_hours",
		mcp.WithDescription("Change the weekly budget of a task. It cannot go below the hours already placed."),
		mcp.WithNumber("task_id", mcp.Description("Task id"), mcp.Required()),
		mcp.WithNumber("hours", mcp.Description("New total hours"), mcp.Required()),
	), setTaskHoursHandler(eng))

	s.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task. Deleting a task with placed blocks needs confirm and removes those blocks too."),
		mcp.WithNumber("task_id", mcp.Description("Task id"), mcp.Required()),
		mcp.WithBoolean("confirm", mcp.Description("Also delete the blocks placed from this task")),
	), deleteTaskHandler(eng))

	s.AddTool(mcp.NewTool("place_block",
		mcp.WithDescription("Place a block in a cell, either from a task budget or as an ad-hoc block."),
		mcp.WithString("slot", mcp.Description("Cell as Day/row, for example Mon/important or Fri/noteveryweek"), mcp.Required()),
		mcp.WithNumber("task_id", mcp.Description("Draw the block from this task")),
		mcp.WithString("title", mcp.Description("Ad-hoc block title")),
		mcp.WithString("process", mcp.Description("Ad-hoc block process (defaults to admin)")),
		mcp.WithNumber("hours", mcp.Description("Ad-hoc block hours (defaults to 1)")),
	), placeHandler(eng))

	s.AddTool(mcp.NewTool("create_alternative",
		mcp.WithDescription("File a block as an alternative of a block in the not-every-week row."),
		mcp.WithNumber("target_id", mcp.Description("Block to add the alternative to"), mcp.Required()),
		mcp.WithNumber("task_id", mcp.Description("Draw the alternative from this task")),
		mcp.WithNumber("block_id", mcp.Description("Turn this existing block into the alternative")),
		mcp.WithString("title", mcp.Description("Ad-hoc alternative title")),
		mcp.WithString("process", mcp.Description("Ad-hoc alternative process (defaults to admin)")),
		mcp.WithNumber("hours", mcp.Description("Ad-hoc alternative hours (defaults to 1)")),
	), createAlternativeHandler(eng))

	s.AddTool(mcp.NewTool("move_block",
		mcp.WithDescription("Move a block to another cell, or onto another block to become its alternative."),
		mcp.WithNumber("block_id", mcp.Description("Block to move"), mcp.Required()),
		mcp.WithString("slot", mcp.Description("Destination cell as Day/row")),
		mcp.WithNumber("onto", mcp.Description("Destination block id")),
	), moveHandler(eng))

	s.AddTool(mcp.NewTool("delete_block",
		mcp.WithDescription("Delete a block. Deleting a primary promotes its earliest alternative."),
		mcp.WithNumber("block_id", mcp.Description("Block id"), mcp.Required()),
	), deleteBlockHandler(eng))

	s.AddTool(mcp.NewTool("edit_block_hours",
		mcp.WithDescription("Change the hours of a placed block."),
		mcp.WithNumber("block_id", mcp.Description("Block id"), mcp.Required()),
		mcp.WithNumber("hours", mcp.Description("New hours"), mcp.Required()),
		mcp.WithString("resolution", mcp.Description("When alternatives would exceed the new hours: cascade or keep")),
	), editHoursHandler(eng))

	s.AddTool(mcp.NewTool("drop",
		mcp.WithDescription("Resolve a drag and drop gesture, for example payload task:3 onto target cell:Mon/must or block:7."),
		mcp.WithString("payload", mcp.Description("What is dragged: task:ID or block:ID"), mcp.Required()),
		mcp.WithString("target", mcp.Description("Where it is released: cell:Day/row or block:ID")),
	), dropHandler(eng))

	s.AddTool(mcp.NewTool("get_week",
		mcp.WithDescription("Get every placed block, grouped by cell."),
	), getWeekHandler(eng))

	s.AddTool(mcp.NewTool("get_report",
		mcp.WithDescription("Get the week totals by process, row and day, with warnings."),
	), getReportHandler(eng))

	return s
}

// Serve runs the server on stdio until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

type taskView struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Process        string  `json:"process"`
	TotalHours     float64 `json:"total_hours"`
	SuggestedHours float64 `json:"suggested_hours"`
	UsedHours      float64 `json:"used_hours"`
	RemainingHours float64 `json:"remaining_hours"`
}

type blockView struct {
	ID            int64   `json:"id"`
	TaskID        *int64  `json:"task_id,omitempty"`
	Title         string  `json:"title"`
	Hours         float64 `json:"hours"`
	Process       string  `json:"process"`
	Slot          string  `json:"slot"`
	AlternativeOf *int64  `json:"alternative_of,omitempty"`
}

type cellView struct {
	Slot   string      `json:"slot"`
	Hours  float64     `json:"hours"`
	Blocks []blockView `json:"blocks"`
}

type outcomeView struct {
	Command         string     `json:"command,omitempty"`
	Block           *blockView `json:"block,omitempty"`
	Promoted        *blockView `json:"promoted,omitempty"`
	Removed         []int64    `json:"removed,omitempty"`
	Warnings        []string   `json:"warnings,omitempty"`
	Inconsistencies []string   `json:"inconsistencies,omitempty"`
	Reason          string     `json:"reason,omitempty"`
}

func newTaskView(s schedule.TaskSummary) taskView {
	return taskView{
		ID:             s.Task.ID,
		Title:          s.Task.Title,
		Process:        string(s.Task.Process),
		TotalHours:     s.Task.TotalHours,
		SuggestedHours: s.Task.SuggestedHours,
		UsedHours:      s.UsedHours,
		RemainingHours: s.RemainingHours,
	}
}

func newBlockView(b task.ScheduleBlock) blockView {
	return blockView{
		ID:            b.ID,
		TaskID:        b.TaskID,
		Title:         b.Title,
		Hours:         b.Hours,
		Process:       string(b.Process),
		Slot:          b.Slot.String(),
		AlternativeOf: b.AlternativeGroupID,
	}
}

func newOutcomeView(command string, o schedule.Outcome) outcomeView {
	v := outcomeView{Command: command, Removed: o.Removed, Warnings: o.Warnings}
	if o.Block != nil {
		b := newBlockView(*o.Block)
		v.Block = &b
	}
	if o.Promoted != nil {
		b := newBlockView(*o.Promoted)
		v.Promoted = &b
	}
	for _, inc := range o.Inconsistencies {
		v.Inconsistencies = append(v.Inconsistencies, inc.String())
	}
	return v
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func outcomeResult(command string, o schedule.Outcome, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(newOutcomeView(command, o))
}

func parseID(request mcp.CallToolRequest, key string) int64 {
	return int64(mcp.ParseFloat64(request, key, 0))
}

func requireID(request mcp.CallToolRequest, key string) (int64, error) {
	id := parseID(request, key)
	if id <= 0 {
		return 0, fmt.Errorf("%s must be a positive id", key)
	}
	return id, nil
}

func parseSlot(request mcp.CallToolRequest) (task.Slot, error) {
	raw := mcp.ParseString(request, "slot", "")
	if strings.TrimSpace(raw) == "" {
		return task.Slot{}, errors.New("slot is required")
	}
	return task.ParseSlot(raw)
}

// parseSource reads the task_id, block_id or title arguments. Exactly one
// kind must be given; blockAllowed is false for plain placements.
func parseSource(request mcp.CallToolRequest, blockAllowed bool) (schedule.Source, error) {
	taskID := parseID(request, "task_id")
	blockID := parseID(request, "block_id")
	title := strings.TrimSpace(mcp.ParseString(request, "title", ""))

	given := 0
	for _, set := range []bool{taskID > 0, blockID > 0, title != ""} {
		if set {
			given++
		}
	}
	if given != 1 || (!blockAllowed && blockID > 0) {
		if blockAllowed {
			return schedule.Source{}, errors.New("give exactly one of task_id, block_id or title")
		}
		return schedule.Source{}, errors.New("give exactly one of task_id or title")
	}

	switch {
	case taskID > 0:
		return schedule.FromTask(taskID), nil
	case blockID > 0:
		return schedule.FromBlock(blockID), nil
	}
	process, err := task.ParseProcess(mcp.ParseString(request, "process", string(task.ProcessAdmin)))
	if err != nil {
		return schedule.Source{}, err
	}
	return schedule.FromAdHoc(title, process, mcp.ParseFloat64(request, "hours", 1)), nil
}

func listTasksHandler(eng *engine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summaries := eng.DraggableTasks()
		if mcp.ParseBoolean(request, "all", false) {
			summaries = eng.Board().TaskSummaries()
		}
		views := make([]taskView, 0, len(summaries))
		for _, s := range summaries {
			views = append(views, newTaskView(s))
		}
		return jsonResult(views)
	}
}

func createTaskHandler(eng *engine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title := mcp.ParseString(request, "title", "")
		process, err := task.ParseProcess(mcp.ParseString(request, "process", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		total := mcp.ParseFloat64(request, "total_hours", 0)
		suggested := mcp.ParseFloat64(request, "suggested_hours", 0)

		tb, err := eng.CreateTask(ctx, title, process, total, suggested)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(newTaskView(schedule.TaskSummary{Task: tb, RemainingHours: tb.TotalHours}))
	}
}

func setTaskHoursHandler(eng *engine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := requireID(request, "task_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		tb, err := eng.SetTotalHours(ctx, id, mcp.ParseFloat64(request, "hours", 0))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Task #%d now has %sh", tb.ID, task.FormatHours(tb.TotalHours))), nil
	}
}

func deleteTaskHandler(eng *engine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := requireID(request, "task_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := eng.DeleteTask(ctx, id, mcp.ParseBoolean(request, "confirm", false))
		if errors.Is(err, task.ErrConfirmationRequired) {
			n := len(eng.Board().ReferencingBlocks(id))
			return mcp.NewToolResultError(fmt.Sprintf("task #%d has %d placed blocks, call again with confirm to delete them", id, n)), nil
		}
		return outcomeResult("delete-task", out, err)
	}
}

func placeHandler(eng *engine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		slot, err := parseSlot(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		src, err := parseSource(request, false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := eng.Place(ctx, src, slot)
		return outcomeResult("place", out, err)
	}
}

func createAlternativeHandler(eng *engine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target, err := requireID(request, "target_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		src, err := parseSource(request, true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := eng.CreateAlternative(ctx, target, src)
		return outcomeResult("create-alternative", out, err)
	}
}

func moveHandler(eng *engine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := requireID(request, "block_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		onto := parseID(request, "onto")
		hasSlot := strings.TrimSpace(mcp.ParseString(request, "slot", "")) != ""
		if (onto > 0) == hasSlot {
			return mcp.NewToolResultError("give exactly one of slot or onto"), nil
		}

		if onto > 0 {
			out, err := eng.MoveOnto(ctx, id, onto)
			return outcomeResult("move", out, err)
		}
		slot, err := parseSlot(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := eng.Move(ctx, id, slot)
		return outcomeResult("move", out, err)
	}
}

func deleteBlockHandler(eng *engine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := requireID(request, "block_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := eng.DeleteBlock(ctx, id)
		return outcomeResult("delete-block", out, err)
	}
}

func editHoursHandler(eng *engine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := requireID(request, "block_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res := schedule.ParseResolution(mcp.ParseString(request, "resolution", ""))
		out, err := eng.EditHours(ctx, id, mcp.ParseFloat64(request, "hours", 0), res)
		return outcomeResult("edit-hours", out, err)
	}
}

func dropHandler(eng *engine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		payload := mcp.ParseString(request, "payload", "")
		target := mcp.ParseString(request, "target", "")

		cmd, out, err := eng.Gesture(ctx, payload, target)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		v := newOutcomeView(cmd.Kind.String(), out)
		v.Reason = cmd.Reason
		return jsonResult(v)
	}
}

func getWeekHandler(eng *engine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		board := eng.Board()
		cells := []cellView{}
		for _, day := range task.Days() {
			for _, row := range task.Rows() {
				slot := task.Slot{Day: day, Row: row}
				blocks := board.BlocksAt(slot)
				if len(blocks) == 0 {
					continue
				}
				cell := cellView{Slot: slot.String(), Hours: board.SlotHours(slot)}
				for _, b := range blocks {
					cell.Blocks = append(cell.Blocks, newBlockView(b))
				}
				cells = append(cells, cell)
			}
		}
		return jsonResult(cells)
	}
}

func getReportHandler(eng *engine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(eng.Report().Text()), nil
	}
}
