package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/blockweek/internal/task"
)

const fileFormatVersion = 1

// codec turns a fileDoc into bytes and back.
type codec struct {
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

var (
	jsonCodec = codec{
		marshal:   func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") },
		unmarshal: json.Unmarshal,
	}
	yamlCodec = codec{marshal: yaml.Marshal, unmarshal: yaml.Unmarshal}
)

// File persists the snapshot as a single JSON or YAML document.
// Writes go to a temporary file that is renamed over the target.
type File struct {
	mu    sync.RWMutex
	path  string
	codec codec
}

// NewJSONFile creates a JSON file repository. The file is created on first
// save.
func NewJSONFile(path string) (*File, error) {
	return newFile(path, jsonCodec)
}

// NewYAMLFile creates a YAML file repository holding the same document as
// NewJSONFile.
func NewYAMLFile(path string) (*File, error) {
	return newFile(path, yamlCodec)
}

// NewFile picks YAML for .yaml and .yml paths and JSON otherwise.
func NewFile(path string) (*File, error) {
	if IsYAMLPath(path) {
		return NewYAMLFile(path)
	}
	return NewJSONFile(path)
}

// IsYAMLPath reports whether path has a YAML extension.
func IsYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func newFile(path string, c codec) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &File{path: path, codec: c}, nil
}

// Path returns the file location.
func (r *File) Path() string {
	return r.path
}

type fileDoc struct {
	Version int         `json:"version" yaml:"version"`
	SavedAt time.Time   `json:"saved_at" yaml:"saved_at"`
	Tasks   []fileTask  `json:"tasks" yaml:"tasks"`
	Blocks  []fileBlock `json:"blocks" yaml:"blocks"`
}

type fileTask struct {
	ID             int64     `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	Process        string    `json:"process" yaml:"process"`
	TotalHours     float64   `json:"total_hours" yaml:"total_hours"`
	SuggestedHours float64   `json:"suggested_hours" yaml:"suggested_hours"`
	CreatedAt      time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
}

type fileBlock struct {
	ID                 int64   `json:"id" yaml:"id"`
	TaskID             *int64  `json:"task_id,omitempty" yaml:"task_id,omitempty"`
	Title              string  `json:"title" yaml:"title"`
	Hours              float64 `json:"hours" yaml:"hours"`
	Process            string  `json:"process" yaml:"process"`
	Day                string  `json:"day" yaml:"day"`
	Row                string  `json:"row" yaml:"row"`
	AlternativeGroupID *int64  `json:"alternative_group_id,omitempty" yaml:"alternative_group_id,omitempty"`
}

// Load reads the snapshot. A missing file means nothing was saved yet.
func (r *File) Load(ctx context.Context) (*task.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.path, err)
	}

	var doc fileDoc
	if err := r.codec.unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", r.path, err)
	}
	if doc.Version > fileFormatVersion {
		return nil, fmt.Errorf("%s: unsupported format version %d", r.path, doc.Version)
	}

	snap := &task.Snapshot{}
	for _, t := range doc.Tasks {
		snap.Tasks = append(snap.Tasks, task.TaskBlock{
			ID:             t.ID,
			Title:          t.Title,
			Process:        task.Process(t.Process),
			TotalHours:     t.TotalHours,
			SuggestedHours: t.SuggestedHours,
			CreatedAt:      t.CreatedAt,
		})
	}
	for _, b := range doc.Blocks {
		day, err := task.ParseDay(b.Day)
		if err != nil {
			return nil, fmt.Errorf("block #%d: %w", b.ID, err)
		}
		row, err := task.ParseRow(b.Row)
		if err != nil {
			return nil, fmt.Errorf("block #%d: %w", b.ID, err)
		}
		snap.Blocks = append(snap.Blocks, task.ScheduleBlock{
			ID:                 b.ID,
			TaskID:             b.TaskID,
			Title:              b.Title,
			Hours:              b.Hours,
			Process:            task.Process(b.Process),
			Slot:               task.Slot{Day: day, Row: row},
			AlternativeGroupID: b.AlternativeGroupID,
		})
	}
	return snap, nil
}

// Save writes the snapshot atomically.
func (r *File) Save(ctx context.Context, snap *task.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil {
		snap = &task.Snapshot{}
	}

	doc := fileDoc{
		Version: fileFormatVersion,
		SavedAt: time.Now().UTC(),
		Tasks:   make([]fileTask, 0, len(snap.Tasks)),
		Blocks:  make([]fileBlock, 0, len(snap.Blocks)),
	}
	for _, t := range snap.Tasks {
		doc.Tasks = append(doc.Tasks, fileTask{
			ID:             t.ID,
			Title:          t.Title,
			Process:        string(t.Process),
			TotalHours:     t.TotalHours,
			SuggestedHours: t.SuggestedHours,
			CreatedAt:      t.CreatedAt,
		})
	}
	for _, b := range snap.Blocks {
		doc.Blocks = append(doc.Blocks, fileBlock{
			ID:                 b.ID,
			TaskID:             b.TaskID,
			Title:              b.Title,
			Hours:              b.Hours,
			Process:            string(b.Process),
			Day:                b.Slot.Day.String(),
			Row:                b.Slot.Row.String(),
			AlternativeGroupID: b.AlternativeGroupID,
		})
	}

	data, err := r.codec.marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return writeFileAtomic(r.path, data)
}

// Close is a no-op; every Save is already on disk.
func (r *File) Close() error {
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	name := tmp.Name()
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(name)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	tmp = nil

	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
