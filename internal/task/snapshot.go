package task

// Snapshot is the persisted state of the engine: the task catalog and every
// placed block. Blocks are ordered by id, which is also creation order.
type Snapshot struct {
	Tasks  []TaskBlock
	Blocks []ScheduleBlock
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Tasks:  make([]TaskBlock, len(s.Tasks)),
		Blocks: make([]ScheduleBlock, len(s.Blocks)),
	}
	copy(out.Tasks, s.Tasks)
	for i, b := range s.Blocks {
		out.Blocks[i] = b.Clone()
	}
	return out
}

// IsEmpty returns true if the snapshot holds no tasks and no blocks.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || (len(s.Tasks) == 0 && len(s.Blocks) == 0)
}

// MaxID returns the highest id used by any task or block.
func (s *Snapshot) MaxID() int64 {
	var maxID int64
	if s == nil {
		return 0
	}
	for _, t := range s.Tasks {
		maxID = max(maxID, t.ID)
	}
	for _, b := range s.Blocks {
		maxID = max(maxID, b.ID)
	}
	return maxID
}
