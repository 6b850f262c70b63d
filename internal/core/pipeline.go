package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/valter-silva-au/taskfn/pkg/models"
)

// Step is one named stage of a Pipeline.
type Step struct {
	// Spec is the text the step was parsed from, e.g. "min-effort=2".
	Spec  string
	apply func(models.TaskList) models.TaskList
}

// Pipeline applies its steps in order.
type Pipeline struct {
	steps []Step
}

// Steps returns the step specs in order.
func (p Pipeline) Steps() []string {
	out := make([]string, len(p.steps))
	for i, s := range p.steps {
		out[i] = s.Spec
	}
	return out
}

// Apply runs every step over list. The input list is not modified.
func (p Pipeline) Apply(list models.TaskList) models.TaskList {
	for _, s := range p.steps {
		list = s.apply(list)
	}
	return list
}

// ParsePipeline builds a Pipeline from step specs. Recognized specs:
//
//	sort             order by case-insensitive title
//	min-effort=N     keep tasks with effort >= N
//	tag=T            keep tasks carrying tag T
//	prefix=P         prepend P to every title (P is used verbatim)
//	complete=T       mark tasks carrying T as done
//	pending          keep tasks not done
//	done             keep tasks done
func ParsePipeline(specs []string) (Pipeline, error) {
	steps := make([]Step, 0, len(specs))
	for i, spec := range specs {
		s, err := parseStep(spec)
		if err != nil {
			return Pipeline{}, fmt.Errorf("parsing step %d: %w", i+1, err)
		}
		steps = append(steps, s)
	}
	return Pipeline{steps: steps}, nil
}

func parseStep(spec string) (Step, error) {
	name, arg, hasArg := strings.Cut(spec, "=")
	name = strings.ToLower(strings.TrimSpace(name))

	switch name {
	case "sort":
		if hasArg {
			return Step{}, fmt.Errorf("step %q takes no argument", name)
		}
		return Step{Spec: spec, apply: SortTasksByTitle}, nil

	case "pending", "done":
		if hasArg {
			return Step{}, fmt.Errorf("step %q takes no argument", name)
		}
		p := Predicate(IsDone)
		if name == "pending" {
			p = Not(IsDone)
		}
		return Step{Spec: spec, apply: filterStep(p)}, nil

	case "min-effort":
		if !hasArg {
			return Step{}, fmt.Errorf("step %q requires =N", name)
		}
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return Step{}, fmt.Errorf("step %q: invalid effort %q: %w", name, arg, err)
		}
		return Step{Spec: spec, apply: filterStep(MakeMinEffortPredicate(n))}, nil

	case "tag":
		if !hasArg || arg == "" {
			return Step{}, fmt.Errorf("step %q requires =TAG", name)
		}
		return Step{Spec: spec, apply: filterStep(HasTag(arg))}, nil

	case "prefix":
		if !hasArg {
			return Step{}, fmt.Errorf("step %q requires =PREFIX", name)
		}
		prefixer := MakeTitlePrefixer(arg)
		return Step{Spec: spec, apply: func(l models.TaskList) models.TaskList {
			return MapTasks(l, prefixer)
		}}, nil

	case "complete":
		if !hasArg || arg == "" {
			return Step{}, fmt.Errorf("step %q requires =TAG", name)
		}
		return Step{Spec: spec, apply: func(l models.TaskList) models.TaskList {
			return CompleteAllWithTag(l, arg)
		}}, nil

	case "":
		return Step{}, fmt.Errorf("empty step")
	}

	return Step{}, fmt.Errorf("unknown step %q", name)
}

func filterStep(p Predicate) func(models.TaskList) models.TaskList {
	return func(l models.TaskList) models.TaskList {
		return FilterTasks(l, p)
	}
}
