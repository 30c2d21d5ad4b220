// Package drag turns drag gestures into grid commands.
//
// The host translates its own events (mouse, keyboard, replayed descriptors)
// into Start, Over, Drop and End calls. The Interpreter never touches the
// grid: Drop returns the command and the caller applies it.
package drag

import (
	"fmt"

	"github.com/javiermolinar/blockweek/internal/task"
)

// State is the gesture state.
type State int

const (
	Idle State = iota
	Dragging
	HoveringCell
	HoveringBlock
	Released
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case HoveringCell:
		return "hovering-cell"
	case HoveringBlock:
		return "hovering-block"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Interpreter tracks one gesture at a time. The zero value is Idle and ready.
type Interpreter struct {
	state        State
	payload      Payload
	target       Target
	groupForming bool
}

// New returns an idle interpreter.
func New() *Interpreter {
	return &Interpreter{}
}

// State returns the current gesture state.
func (i *Interpreter) State() State {
	return i.state
}

// Payload returns what is being dragged, if anything.
func (i *Interpreter) Payload() (Payload, bool) {
	if i.state == Idle {
		return Payload{}, false
	}
	return i.payload, true
}

// Target returns what the pointer is over, if anything.
func (i *Interpreter) Target() (Target, bool) {
	if i.state != HoveringCell && i.state != HoveringBlock {
		return Target{}, false
	}
	return i.target, true
}

// GroupForming is true while hovering a target that would form an
// alternative group on release.
func (i *Interpreter) GroupForming() bool {
	return i.groupForming
}

// Start begins a gesture from a raw payload descriptor. A malformed
// descriptor leaves the interpreter Idle.
func (i *Interpreter) Start(descriptor string) error {
	p, err := ParsePayload(descriptor)
	if err != nil {
		i.End()
		return err
	}
	i.StartPayload(p)
	return nil
}

// StartPayload begins a gesture, abandoning any gesture in progress.
func (i *Interpreter) StartPayload(p Payload) {
	i.End()
	i.payload = p
	i.state = Dragging
}

// Over records the current hover target. It is ignored when no gesture is
// in progress.
func (i *Interpreter) Over(lk Lookup, t Target) {
	switch i.state {
	case Dragging, HoveringCell, HoveringBlock:
	default:
		return
	}
	i.target = t
	if t.IsBlock() {
		i.state = HoveringBlock
	} else {
		i.state = HoveringCell
	}
	i.groupForming = FormsGroup(lk, i.payload, t)
}

// Leave clears the hover target, for example when the pointer exits the grid.
func (i *Interpreter) Leave() {
	if i.state == HoveringCell || i.state == HoveringBlock {
		i.state = Dragging
		i.target = Target{}
		i.groupForming = false
	}
}

// Drop releases the payload over the last hover target and returns the
// command to apply. Releasing outside any target yields Cancel. Without a
// payload the gesture is aborted with ErrMalformedPayload.
//
// Drop leaves the interpreter Released; call End to return to Idle.
func (i *Interpreter) Drop(lk Lookup) (Command, error) {
	switch i.state {
	case Idle, Released:
		i.End()
		return Command{}, fmt.Errorf("%w: nothing is being dragged", task.ErrMalformedPayload)
	case Dragging:
		i.state = Released
		i.groupForming = false
		return cancel("released outside the grid"), nil
	}

	cmd, err := Classify(lk, i.payload, i.target)
	if err != nil {
		i.End()
		return Command{}, err
	}
	i.state = Released
	i.groupForming = false
	return cmd, nil
}

// End finishes the gesture whether or not a drop happened.
func (i *Interpreter) End() {
	*i = Interpreter{}
}
