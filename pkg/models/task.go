package models

// DefaultEffort is the effort assigned to a task constructed without WithEffort.
const DefaultEffort = 1

// Task represents one to-do item. Tasks are values: every "update" returns a
// new Task and leaves the receiver untouched.
type Task struct {
	ID     int      `yaml:"id" json:"id"`
	Title  string   `yaml:"title" json:"title"`
	Tags   []string `yaml:"tags" json:"tags"`
	Done   bool     `yaml:"done" json:"done"`
	Effort int      `yaml:"effort" json:"effort"`
}

// TaskOption customizes a Task during NewTask.
type TaskOption func(*Task)

// WithTags sets the task's tags. The slice is copied.
func WithTags(tags ...string) TaskOption {
	return func(t *Task) {
		t.Tags = cloneTags(tags)
	}
}

// WithEffort sets the task's effort. Non-positive values are accepted.
func WithEffort(effort int) TaskOption {
	return func(t *Task) {
		t.Effort = effort
	}
}

// WithDone sets the task's done flag.
func WithDone(done bool) TaskOption {
	return func(t *Task) {
		t.Done = done
	}
}

// NewTask creates a Task with Effort defaulting to DefaultEffort and Done to false.
func NewTask(id int, title string, opts ...TaskOption) Task {
	t := Task{
		ID:     id,
		Title:  title,
		Tags:   []string{},
		Effort: DefaultEffort,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Clone returns a copy of t that shares no memory with it.
func (t Task) Clone() Task {
	t.Tags = cloneTags(t.Tags)
	return t
}

// Retitled returns a copy of t with Title replaced.
func (t Task) Retitled(title string) Task {
	c := t.Clone()
	c.Title = title
	return c
}

// Completed returns a copy of t with Done set.
func (t Task) Completed() Task {
	c := t.Clone()
	c.Done = true
	return c
}

// HasTag reports whether tag appears in t.Tags.
func (t Task) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// Equal reports whether t and other have the same field values. A nil and an
// empty tag slice compare equal.
func (t Task) Equal(other Task) bool {
	if t.ID != other.ID || t.Title != other.Title || t.Done != other.Done || t.Effort != other.Effort {
		return false
	}
	if len(t.Tags) != len(other.Tags) {
		return false
	}
	for i := range t.Tags {
		if t.Tags[i] != other.Tags[i] {
			return false
		}
	}
	return true
}

func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
