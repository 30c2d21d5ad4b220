package engine

import (
	"context"
	"strings"

	"github.com/javiermolinar/blockweek/internal/drag"
	"github.com/javiermolinar/blockweek/internal/schedule"
)

// DragStart begins a gesture from a payload descriptor such as "task:3".
func (e *Engine) DragStart(descriptor string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.drag.Start(descriptor)
	if err != nil {
		e.logger.Debug("drag aborted", "payload", descriptor, "error", err)
	}
	return err
}

// DragStartPayload begins a gesture from a parsed payload.
func (e *Engine) DragStartPayload(p drag.Payload) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drag.StartPayload(p)
}

// DragOver records the hover target and reports whether releasing there
// would form an alternative group.
func (e *Engine) DragOver(t drag.Target) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drag.Over(e.board, t)
	return e.drag.GroupForming()
}

// DragLeave clears the hover target.
func (e *Engine) DragLeave() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drag.Leave()
}

// Drop releases the gesture and applies the resulting command. A lost
// payload returns task.ErrMalformedPayload and changes nothing.
func (e *Engine) Drop(ctx context.Context) (drag.Command, schedule.Outcome, error) {
	e.mu.Lock()
	cmd, err := e.drag.Drop(e.board)
	e.mu.Unlock()
	if err != nil {
		e.logger.Debug("drop aborted", "error", err)
		return drag.Command{}, schedule.Outcome{}, err
	}
	out, err := e.Apply(ctx, cmd)
	return cmd, out, err
}

// DragEnd resets the gesture, whether or not a drop happened.
func (e *Engine) DragEnd() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drag.End()
}

// DragState returns the gesture state and the group-forming hover flag.
func (e *Engine) DragState() (drag.State, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.State(), e.drag.GroupForming()
}

// DragPayload returns what is being dragged, if anything.
func (e *Engine) DragPayload() (drag.Payload, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.Payload()
}

// Gesture replays a complete drag from descriptors: start, hover, drop, end.
func (e *Engine) Gesture(ctx context.Context, payload, target string) (drag.Command, schedule.Outcome, error) {
	defer e.DragEnd()

	if err := e.DragStart(payload); err != nil {
		return drag.Command{}, schedule.Outcome{}, err
	}
	// An empty target is a release over nothing.
	if strings.TrimSpace(target) != "" {
		t, err := drag.ParseTarget(target)
		if err != nil {
			return drag.Command{}, schedule.Outcome{}, err
		}
		e.DragOver(t)
	}
	return e.Drop(ctx)
}
