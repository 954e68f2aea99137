package deploy

import (
	"context"
	"slices"
	"sort"
	"sync"

	apierrors "github.com/Dos-leg/harhhat-fund-me-fcc/internal/pkg/errors"
)

// TaskFunc runs a deploy task.
type TaskFunc func(ctx context.Context, env *Env) error

// Task is a named unit of deployment work.
type Task struct {
	Name         string
	Dependencies []string
	Tags         []string
	Run          TaskFunc
}

// HasTag reports whether the task carries any of tags.
func (t Task) HasTag(tags ...string) bool {
	for _, tag := range tags {
		if slices.Contains(t.Tags, tag) {
			return true
		}
	}
	return false
}

// Registry holds the known tasks. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]Task)}
}

// Register adds a task. Names must be non-empty and unique.
func (r *Registry) Register(t Task) error {
	if t.Name == "" {
		return apierrors.ErrInvalidConfig.WithMessage("task name is required")
	}
	if t.Run == nil {
		return apierrors.ErrInvalidConfig.WithMessagef("task %q has no run function", t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[t.Name]; exists {
		return apierrors.ErrDuplicateTask.WithMessagef("task %q is already registered", t.Name)
	}
	r.tasks[t.Name] = t
	return nil
}

// Tasks returns all registered tasks ordered by name.
func (r *Registry) Tasks() []Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve returns the tasks tagged with any of tags (every task when tags is
// empty) plus their transitive dependencies. Dependencies come before their
// dependents; independent tasks are ordered by name.
func (r *Registry) Resolve(tags ...string) ([]Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(r.tasks))
	needed := make(map[string]Task)

	var visit func(name, from string) error
	visit = func(name, from string) error {
		switch state[name] {
		case visiting:
			return apierrors.ErrDependencyCycle.WithMessagef("dependency cycle through task %q", name)
		case done:
			return nil
		}
		t, ok := r.tasks[name]
		if !ok {
			return apierrors.ErrTaskNotFound.WithMessagef("task %q depends on unknown task %q", from, name)
		}
		state[name] = visiting
		for _, dep := range t.Dependencies {
			if err := visit(dep, name); err != nil {
				return err
			}
		}
		state[name] = done
		needed[name] = t
		return nil
	}

	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t := r.tasks[name]
		if len(tags) > 0 && !t.HasTag(tags...) {
			continue
		}
		if err := visit(name, ""); err != nil {
			return nil, err
		}
	}

	return topoSort(needed), nil
}

// topoSort orders an acyclic, closed task set, picking the smallest ready name first.
func topoSort(tasks map[string]Task) []Task {
	pending := make(map[string]int, len(tasks))
	dependents := make(map[string][]string, len(tasks))
	var ready []string

	for name, t := range tasks {
		pending[name] = len(t.Dependencies)
		for _, dep := range t.Dependencies {
			dependents[dep] = append(dependents[dep], name)
		}
		if len(t.Dependencies) == 0 {
			ready = append(ready, name)
		}
	}

	out := make([]Task, 0, len(tasks))
	for len(ready) > 0 {
		sort.Strings(ready)
		name := ready[0]
		ready = ready[1:]
		out = append(out, tasks[name])

		for _, d := range dependents[name] {
			pending[d]--
			if pending[d] == 0 {
				ready = append(ready, d)
			}
		}
	}
	return out
}
