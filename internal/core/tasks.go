// Package core contains the task-list transformations for taskfn: pure
// functions over models.TaskList, closure factories for common predicates and
// transforms, text pipelines built from them, and configuration loading.
package core

import (
	"sort"
	"strings"

	"github.com/valter-silva-au/taskfn/pkg/models"
)

// Transform maps one task to another. It must be total; a panic inside a
// Transform propagates to the caller of MapTasks.
type Transform func(models.Task) models.Task

// Predicate reports whether a task should be kept by FilterTasks.
type Predicate func(models.Task) bool

// AddTask returns a new list with task appended. Duplicate ids are allowed.
func AddTask(list models.TaskList, task models.Task) models.TaskList {
	tasks := list.Tasks()
	return models.NewTaskList(append(tasks, task)...)
}

// MapTasks returns a new list holding transform applied to each task, in order.
func MapTasks(list models.TaskList, transform Transform) models.TaskList {
	out := make([]models.Task, list.Len())
	for i := range out {
		out[i] = transform(list.At(i))
	}
	return models.NewTaskList(out...)
}

// FilterTasks returns the tasks for which predicate is true, in original order.
func FilterTasks(list models.TaskList, predicate Predicate) models.TaskList {
	var out []models.Task
	for i := 0; i < list.Len(); i++ {
		t := list.At(i)
		if predicate(t) {
			out = append(out, t)
		}
	}
	return models.NewTaskList(out...)
}

// SortTasksByTitle returns the list ordered by lower-cased title. Tasks whose
// lower-cased titles are equal keep their relative order.
func SortTasksByTitle(list models.TaskList) models.TaskList {
	tasks := list.Tasks()
	keys := make([]string, len(tasks))
	for i, t := range tasks {
		keys[i] = strings.ToLower(t.Title)
	}

	idx := make([]int, len(tasks))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]] < keys[idx[b]]
	})

	out := make([]models.Task, len(tasks))
	for i, j := range idx {
		out[i] = tasks[j]
	}
	return models.NewTaskList(out...)
}

// SummarizeEffortByTag totals effort per tag. A task adds its full effort to
// every tag it carries, once per occurrence of the tag. Tags carried by no
// task are absent from the result.
func SummarizeEffortByTag(list models.TaskList) map[string]int {
	totals := make(map[string]int)
	for i := 0; i < list.Len(); i++ {
		t := list.At(i)
		for _, tag := range t.Tags {
			totals[tag] += t.Effort
		}
	}
	return totals
}

// MakeTitlePrefixer returns a Transform that prepends prefix to a task's title.
func MakeTitlePrefixer(prefix string) Transform {
	return func(t models.Task) models.Task {
		return t.Retitled(prefix + t.Title)
	}
}

// MakeMinEffortPredicate returns a Predicate matching tasks with effort >= minEffort.
func MakeMinEffortPredicate(minEffort int) Predicate {
	return func(t models.Task) bool {
		return t.Effort >= minEffort
	}
}

// CompleteAllWithTag marks every task carrying tag as done. Other tasks are
// returned unchanged.
func CompleteAllWithTag(list models.TaskList, tag string) models.TaskList {
	return MapTasks(list, func(t models.Task) models.Task {
		if t.HasTag(tag) {
			return t.Completed()
		}
		return t
	})
}

// HasTag returns a Predicate matching tasks that carry tag.
func HasTag(tag string) Predicate {
	return func(t models.Task) bool {
		return t.HasTag(tag)
	}
}

// IsDone matches completed tasks.
func IsDone(t models.Task) bool {
	return t.Done
}

// Not negates p.
func Not(p Predicate) Predicate {
	return func(t models.Task) bool {
		return !p(t)
	}
}

// All matches tasks accepted by every predicate. With no predicates it
// matches everything.
func All(ps ...Predicate) Predicate {
	ps = append([]Predicate(nil), ps...)
	return func(t models.Task) bool {
		for _, p := range ps {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

// Compose returns a Transform applying ts left to right.
func Compose(ts ...Transform) Transform {
	ts = append([]Transform(nil), ts...)
	return func(t models.Task) models.Task {
		for _, fn := range ts {
			t = fn(t)
		}
		return t
	}
}

// SortedTags returns the keys of an effort summary in ascending order.
func SortedTags(summary map[string]int) []string {
	tags := make([]string, 0, len(summary))
	for tag := range summary {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
