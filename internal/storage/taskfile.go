// Package storage reads and writes task lists in the taskfn YAML file format.
package storage

import (
	"fmt"
	"io"
	"os"

	"github.com/valter-silva-au/taskfn/pkg/models"
	"gopkg.in/yaml.v3"
)

// FileVersion is written to the version field of encoded task files.
const FileVersion = "1.0"

// TaskEntry is one task as it appears in a task file. Effort is a pointer so
// an omitted effort can fall back to models.DefaultEffort.
type TaskEntry struct {
	ID     int      `yaml:"id"`
	Title  string   `yaml:"title"`
	Tags   []string `yaml:"tags,omitempty"`
	Done   bool     `yaml:"done,omitempty"`
	Effort *int     `yaml:"effort,omitempty"`
}

// TaskFile represents the top-level structure of a task file.
type TaskFile struct {
	Version string      `yaml:"version"`
	Tasks   []TaskEntry `yaml:"tasks"`
}

// LoadTaskFile reads a task list from path. A missing file yields an empty list.
func LoadTaskFile(path string) (models.TaskList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.TaskList{}, nil
		}
		return models.TaskList{}, fmt.Errorf("loading task file: %w", err)
	}

	list, err := DecodeTaskList(data)
	if err != nil {
		return models.TaskList{}, fmt.Errorf("loading task file %s: %w", path, err)
	}
	return list, nil
}

// DecodeTaskList parses task-file YAML into a list, preserving order.
func DecodeTaskList(data []byte) (models.TaskList, error) {
	var tf TaskFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return models.TaskList{}, fmt.Errorf("parsing YAML: %w", err)
	}

	tasks := make([]models.Task, len(tf.Tasks))
	for i, e := range tf.Tasks {
		tasks[i] = entryToTask(e)
	}
	return models.NewTaskList(tasks...), nil
}

// EncodeTaskList writes list to w in task-file format.
func EncodeTaskList(w io.Writer, list models.TaskList) error {
	tf := TaskFile{
		Version: FileVersion,
		Tasks:   make([]TaskEntry, list.Len()),
	}
	for i := 0; i < list.Len(); i++ {
		tf.Tasks[i] = taskToEntry(list.At(i))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&tf); err != nil {
		return fmt.Errorf("encoding task list: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding task list: %w", err)
	}
	return nil
}

func entryToTask(e TaskEntry) models.Task {
	opts := []models.TaskOption{
		models.WithTags(e.Tags...),
		models.WithDone(e.Done),
	}
	if e.Effort != nil {
		opts = append(opts, models.WithEffort(*e.Effort))
	}
	return models.NewTask(e.ID, e.Title, opts...)
}

func taskToEntry(t models.Task) TaskEntry {
	effort := t.Effort
	return TaskEntry{
		ID:     t.ID,
		Title:  t.Title,
		Tags:   t.Tags,
		Done:   t.Done,
		Effort: &effort,
	}
}
