package tasks

import (
	"fmt"
	"slices"
	"strings"
)

// CompletionAward is the experience granted for completing any task.
const CompletionAward = 10

// Task is a single to-do item. The JSON field names are the save-file format.
type Task struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Recurring bool   `json:"recurring"`
	DueDate   *Date  `json:"due_date"`
}

// Persistent reports whether the task is subject to the daily reset.
func (t Task) Persistent() bool {
	return t.Recurring || t.DueDate != nil
}

// Registry holds one user's tasks in insertion order. Tasks are identified
// by their index. It is not safe for concurrent use.
type Registry struct {
	tasks []Task
}

// NewRegistry creates a registry from previously saved tasks.
func NewRegistry(saved []Task) *Registry {
	return &Registry{tasks: slices.Clone(saved)}
}

// Add validates and appends a task, returning its index. today is the
// caller's current local date.
func (r *Registry) Add(name string, recurring bool, due *Date, today Date) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if due != nil && due.Before(today) {
		return 0, fmt.Errorf("%w: due date %s is in the past", ErrValidation, due)
	}

	t := Task{Name: name, Recurring: recurring}
	if due != nil {
		d := *due
		t.DueDate = &d
	}
	r.tasks = append(r.tasks, t)
	return len(r.tasks) - 1, nil
}

// Complete marks the task done and returns the experience award.
func (r *Registry) Complete(index int) (int, error) {
	t, err := r.at(index)
	if err != nil {
		return 0, err
	}
	if t.Completed {
		return 0, fmt.Errorf("%w: %q", ErrAlreadyCompleted, t.Name)
	}
	t.Completed = true
	return CompletionAward, nil
}

// Reset clears the completion flag. It reports whether anything changed.
func (r *Registry) Reset(index int) bool {
	t, err := r.at(index)
	if err != nil || !t.Completed {
		return false
	}
	t.Completed = false
	return true
}

// Get returns a copy of the task at index.
func (r *Registry) Get(index int) (Task, error) {
	t, err := r.at(index)
	if err != nil {
		return Task{}, err
	}
	return clone(*t), nil
}

// List returns a copy of all tasks in insertion order.
func (r *Registry) List() []Task {
	out := make([]Task, len(r.tasks))
	for i, t := range r.tasks {
		out[i] = clone(t)
	}
	return out
}

// Len returns the number of tasks.
func (r *Registry) Len() int {
	return len(r.tasks)
}

func (r *Registry) at(index int) (*Task, error) {
	if index < 0 || index >= len(r.tasks) {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownTask, index)
	}
	return &r.tasks[index], nil
}

func clone(t Task) Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}
