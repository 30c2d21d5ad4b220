package schedule

import "github.com/javiermolinar/blockweek/internal/task"

type seedTask struct {
	title   string
	process task.Process
	hours   float64
}

var seedTasks = []seedTask{
	{"Content calendar", task.ProcessMarketing, 6},
	{"Feature development", task.ProcessDevelopment, 12},
	{"Client deliverables", task.ProcessClientWork, 10},
	{"Infrastructure upkeep", task.ProcessOperations, 4},
	{"Invoices and bookkeeping", task.ProcessAdmin, 3},
}

// Seed returns a board with one sample task per process and no placements.
// It is used when storage holds no snapshot yet.
func Seed(cfg Config) *Board {
	b := NewBoard(cfg)
	for _, s := range seedTasks {
		next, _, err := b.CreateTask(s.title, s.process, s.hours, 0)
		if err != nil {
			continue
		}
		b = next
	}
	return b
}
