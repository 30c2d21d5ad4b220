// Package tui provides the terminal user interface for blockweek.
package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/blockweek/internal/config"
	"github.com/javiermolinar/blockweek/internal/drag"
	"github.com/javiermolinar/blockweek/internal/engine"
	"github.com/javiermolinar/blockweek/internal/schedule"
	"github.com/javiermolinar/blockweek/internal/summary"
	"github.com/javiermolinar/blockweek/internal/task"
	"github.com/javiermolinar/blockweek/internal/tui/commands"
	"github.com/javiermolinar/blockweek/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeDrag        // A task or block is picked up
	ModePrompt
	ModeConfirm
	ModeReport
)

// focusArea is the pane the cursor keys act on.
type focusArea int

const (
	focusGrid focusArea = iota
	focusPool
)

// noItem means the cursor is on the cell, not on one of its blocks.
const noItem = -1

// Position represents a cursor position in the grid.
type Position struct {
	Day  task.Day
	Row  task.Row
	Item int // index into the cell's blocks, or noItem
}

// Slot returns the grid address of the cursor.
func (p Position) Slot() task.Slot {
	return task.Slot{Day: p.Day, Row: p.Row}
}

// confirmation is a destructive command waiting for a yes.
type confirmation struct {
	message string
	cmd     tea.Cmd
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	engine *engine.Engine
	config *config.Config
	logger *slog.Logger

	// Theme and styles
	theme  *theme.Theme
	styles *Styles
	keys   keyMap
	help   help.Model

	// Last state read from the engine
	board  *schedule.Board
	report *summary.Report

	// State
	mode      Mode
	focus     focusArea
	cursor    Position
	poolIndex int
	confirm   *confirmation

	// Components
	prompt textinput.Model

	// Terminal dimensions and layout
	width    int
	height   int
	colWidth int

	// Messages
	statusMsg  string    // Temporary status/error message
	statusWarn bool      // Render the status as a warning
	statusTime time.Time // When to clear message
}

// New creates a new TUI model.
func New(eng *engine.Engine, cfg *config.Config, logger *slog.Logger) *Model {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.Placeholder = "/task \"Title\" process hours"
	ti.CharLimit = 256

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}

	m := &Model{
		engine:   eng,
		config:   cfg,
		logger:   logger,
		theme:    t,
		styles:   NewStyles(t),
		keys:     defaultKeyMap(),
		help:     help.New(),
		mode:     ModeNormal,
		cursor:   Position{Day: task.Monday, Row: task.RowImportant, Item: noItem},
		prompt:   ti,
		colWidth: defaultColWidth,
	}
	m.refresh()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Run starts the TUI. Engine updates reach the program through a
// subscription, so changes made by any command redraw the grid.
func Run(eng *engine.Engine, cfg *config.Config, logger *slog.Logger) error {
	model := New(eng, cfg, logger)
	p := tea.NewProgram(*model, tea.WithAltScreen())

	unsubscribe := eng.Subscribe(func(u engine.Update) {
		p.Send(commands.UpdatedMsg{Update: u})
	})
	defer unsubscribe()

	_, err := p.Run()
	eng.DragEnd()
	return err
}

// refresh re-reads the board and report from the engine and keeps the
// cursor inside what is now on screen.
func (m *Model) refresh() {
	if m.engine == nil {
		m.board = schedule.NewBoard(m.config.BoardConfig())
		m.report = summary.Summarize(nil, summary.Options{})
		return
	}
	m.board = m.engine.Board()
	m.report = m.engine.Report()
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.cellBlocks(m.cursor.Slot()))
	if m.cursor.Item >= n {
		m.cursor.Item = n - 1
	}
	if m.cursor.Item < noItem {
		m.cursor.Item = noItem
	}
	pool := m.board.TaskSummaries()
	if m.poolIndex >= len(pool) {
		m.poolIndex = len(pool) - 1
	}
	if m.poolIndex < 0 {
		m.poolIndex = 0
	}
}

// cellBlocks returns the blocks of a slot in display order: each primary
// followed by its alternatives.
func (m Model) cellBlocks(slot task.Slot) []task.ScheduleBlock {
	var out []task.ScheduleBlock
	for _, p := range m.board.PrimariesAt(slot) {
		out = append(out, p)
		out = append(out, m.board.Alternatives(p.ID)...)
	}
	return out
}

// selectedBlock returns the block under the grid cursor.
func (m Model) selectedBlock() (task.ScheduleBlock, bool) {
	if m.cursor.Item == noItem {
		return task.ScheduleBlock{}, false
	}
	blocks := m.cellBlocks(m.cursor.Slot())
	if m.cursor.Item >= len(blocks) {
		return task.ScheduleBlock{}, false
	}
	return blocks[m.cursor.Item], true
}

// selectedTask returns the pool entry under the pool cursor.
func (m Model) selectedTask() (schedule.TaskSummary, bool) {
	pool := m.board.TaskSummaries()
	if m.poolIndex < 0 || m.poolIndex >= len(pool) {
		return schedule.TaskSummary{}, false
	}
	return pool[m.poolIndex], true
}

// hoverTarget is the drop target under the grid cursor.
func (m Model) hoverTarget() drag.Target {
	if blk, ok := m.selectedBlock(); ok {
		return drag.BlockTarget(blk.ID)
	}
	return drag.CellTarget(m.cursor.Slot())
}

func (m *Model) setStatus(msg string, warn bool) tea.Cmd {
	m.statusMsg = msg
	m.statusWarn = warn
	m.statusTime = time.Now().Add(statusTTL)
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

const statusTTL = 4 * time.Second
