package models

// TaskList is an immutable ordered sequence of tasks. The zero value is an
// empty list. The backing slice is never handed out: accessors return copies.
type TaskList struct {
	tasks []Task
}

// NewTaskList builds a list from the given tasks, in order. Each task is
// cloned so later changes to the caller's values are not observed.
func NewTaskList(tasks ...Task) TaskList {
	if len(tasks) == 0 {
		return TaskList{}
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return TaskList{tasks: out}
}

// Len returns the number of tasks in the list.
func (l TaskList) Len() int {
	return len(l.tasks)
}

// At returns a copy of the task at index i. It panics if i is out of range.
func (l TaskList) At(i int) Task {
	return l.tasks[i].Clone()
}

// Tasks returns a deep copy of the list's tasks.
func (l TaskList) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	for i, t := range l.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Titles returns the task titles in list order.
func (l TaskList) Titles() []string {
	out := make([]string, len(l.tasks))
	for i, t := range l.tasks {
		out[i] = t.Title
	}
	return out
}

// IDs returns the task ids in list order.
func (l TaskList) IDs() []int {
	out := make([]int, len(l.tasks))
	for i, t := range l.tasks {
		out[i] = t.ID
	}
	return out
}

// Equal reports whether both lists hold value-equal tasks in the same order.
func (l TaskList) Equal(other TaskList) bool {
	if len(l.tasks) != len(other.tasks) {
		return false
	}
	for i := range l.tasks {
		if !l.tasks[i].Equal(other.tasks[i]) {
			return false
		}
	}
	return true
}
