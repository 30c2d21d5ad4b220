package drag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/javiermolinar/blockweek/internal/task"
)

// PayloadKind tells where a dragged item comes from.
type PayloadKind int

const (
	PayloadTask  PayloadKind = iota + 1 // a new instance of a pool task
	PayloadBlock                        // an existing block being relocated
)

// Payload is what the user picked up.
type Payload struct {
	Kind PayloadKind
	ID   int64
}

// TaskPayload returns a payload for a pool task.
func TaskPayload(id int64) Payload { return Payload{Kind: PayloadTask, ID: id} }

// BlockPayload returns a payload for a placed block.
func BlockPayload(id int64) Payload { return Payload{Kind: PayloadBlock, ID: id} }

// String formats the payload as the descriptor ParsePayload accepts.
func (p Payload) String() string {
	switch p.Kind {
	case PayloadTask:
		return "task:" + strconv.FormatInt(p.ID, 10)
	case PayloadBlock:
		return "block:" + strconv.FormatInt(p.ID, 10)
	default:
		return ""
	}
}

// ParsePayload parses "task:<id>" or "block:<id>".
func ParsePayload(s string) (Payload, error) {
	kind, id, err := splitDescriptor(s)
	if err != nil {
		return Payload{}, err
	}
	switch kind {
	case "task":
		return TaskPayload(id), nil
	case "block":
		return BlockPayload(id), nil
	default:
		return Payload{}, fmt.Errorf("%w: unknown payload kind %q", task.ErrMalformedPayload, kind)
	}
}

// Target is what the pointer is over: an empty area of a cell, or a block.
type Target struct {
	Slot    task.Slot
	BlockID int64 // zero for a cell
}

// CellTarget returns a target for the empty area of a slot.
func CellTarget(s task.Slot) Target { return Target{Slot: s} }

// BlockTarget returns a target for a block.
func BlockTarget(id int64) Target { return Target{BlockID: id} }

// IsBlock returns true if the target is a block.
func (t Target) IsBlock() bool {
	return t.BlockID != 0
}

func (t Target) String() string {
	if t.IsBlock() {
		return "block:" + strconv.FormatInt(t.BlockID, 10)
	}
	return "cell:" + t.Slot.String()
}

// ParseTarget parses "block:<id>", "cell:<day>/<row>" or a bare "<day>/<row>".
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "block:"); ok {
		id, err := parseID(rest)
		if err != nil {
			return Target{}, err
		}
		return BlockTarget(id), nil
	}
	s = strings.TrimPrefix(s, "cell:")
	slot, err := task.ParseSlot(s)
	if err != nil {
		return Target{}, fmt.Errorf("target %q: %w", s, err)
	}
	return CellTarget(slot), nil
}

func splitDescriptor(s string) (string, int64, error) {
	kind, raw, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || kind == "" {
		return "", 0, fmt.Errorf("%w: %q", task.ErrMalformedPayload, s)
	}
	id, err := parseID(raw)
	if err != nil {
		return "", 0, err
	}
	return strings.ToLower(kind), id, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad id %q", task.ErrMalformedPayload, s)
	}
	return id, nil
}
