package drag

import (
	"fmt"

	"github.com/javiermolinar/blockweek/internal/task"
)

// CommandKind is the grid operation a release resolves to.
type CommandKind int

const (
	Cancel CommandKind = iota
	Place
	Move
	CreateAlternative
	Reparent // an alternative moving to another group
)

func (k CommandKind) String() string {
	switch k {
	case Cancel:
		return "cancel"
	case Place:
		return "place"
	case Move:
		return "move"
	case CreateAlternative:
		return "create-alternative"
	case Reparent:
		return "reparent"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// Command is the single grid command produced by a release.
// Which fields are set depends on Kind:
//
//	Place              TaskID, Slot
//	Move               BlockID, Slot
//	CreateAlternative  TargetID and one of TaskID or BlockID
//	Reparent           BlockID, TargetID
type Command struct {
	Kind     CommandKind
	TaskID   int64
	BlockID  int64
	TargetID int64
	Slot     task.Slot
	Reason   string // why a release was cancelled
}

func (c Command) String() string {
	switch c.Kind {
	case Place:
		return fmt.Sprintf("place task:%d at %s", c.TaskID, c.Slot)
	case Move:
		return fmt.Sprintf("move block:%d to %s", c.BlockID, c.Slot)
	case CreateAlternative:
		if c.TaskID != 0 {
			return fmt.Sprintf("alternative of block:%d from task:%d", c.TargetID, c.TaskID)
		}
		return fmt.Sprintf("alternative of block:%d from block:%d", c.TargetID, c.BlockID)
	case Reparent:
		return fmt.Sprintf("reparent block:%d under block:%d", c.BlockID, c.TargetID)
	default:
		if c.Reason != "" {
			return "cancel: " + c.Reason
		}
		return "cancel"
	}
}

func cancel(reason string) Command {
	return Command{Kind: Cancel, Reason: reason}
}

// Lookup gives the interpreter read access to placed blocks.
type Lookup interface {
	Block(id int64) (task.ScheduleBlock, bool)
}

// Classify maps a payload released over a target to a grid command.
//
//	task  -> cell                      place
//	task  -> block in NotEveryWeek     alternative of the block's group
//	task  -> block elsewhere           place in the block's slot
//	block -> cell                      move (cancel when the slot is unchanged)
//	block -> block in NotEveryWeek     alternative, or reparent for an alternative
//	block -> block elsewhere           move to the block's slot
//
// Dropping a block onto itself or onto its own group cancels. A block payload
// that no longer exists is malformed.
func Classify(lk Lookup, p Payload, t Target) (Command, error) {
	var target task.ScheduleBlock
	if t.IsBlock() {
		var ok bool
		if target, ok = lk.Block(t.BlockID); !ok {
			return cancel(fmt.Sprintf("block:%d is gone", t.BlockID)), nil
		}
	} else if err := t.Slot.Validate(); err != nil {
		return cancel(err.Error()), nil
	}

	switch p.Kind {
	case PayloadTask:
		switch {
		case !t.IsBlock():
			return Command{Kind: Place, TaskID: p.ID, Slot: t.Slot}, nil
		case target.Slot.Row.AllowsAlternatives():
			return Command{Kind: CreateAlternative, TaskID: p.ID, TargetID: target.GroupRoot()}, nil
		default:
			return Command{Kind: Place, TaskID: p.ID, Slot: target.Slot}, nil
		}

	case PayloadBlock:
		src, ok := lk.Block(p.ID)
		if !ok {
			return Command{}, fmt.Errorf("%w: block:%d does not exist", task.ErrMalformedPayload, p.ID)
		}
		dest := t.Slot
		if t.IsBlock() {
			dest = target.Slot
			if dest.Row.AllowsAlternatives() {
				root := target.GroupRoot()
				switch {
				case root == src.GroupRoot():
					return cancel("already in this group"), nil
				case src.IsAlternative():
					return Command{Kind: Reparent, BlockID: src.ID, TargetID: root}, nil
				default:
					return Command{Kind: CreateAlternative, BlockID: src.ID, TargetID: root}, nil
				}
			}
		}
		return Command{Kind: Move, BlockID: src.ID, Slot: dest}, nil

	default:
		return Command{}, fmt.Errorf("%w: empty payload", task.ErrMalformedPayload)
	}
}

// FormsGroup reports whether releasing p over t would create or change an
// alternative group. Hosts use it to highlight the target.
func FormsGroup(lk Lookup, p Payload, t Target) bool {
	cmd, err := Classify(lk, p, t)
	return err == nil && (cmd.Kind == CreateAlternative || cmd.Kind == Reparent)
}
