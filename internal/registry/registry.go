// Package registry maps task plugin tags to the factories that construct
// concrete task instances. Registration is guarded: registering the same
// tag twice or requesting an unregistered tag is an error.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/cyclegraph/internal/config"
	"github.com/vk/cyclegraph/internal/graph"
)

// TaskFactory builds a concrete task instance from its assembled base and
// its declaration.
type TaskFactory func(base *graph.Task, cfg *config.Task) (graph.TaskNode, error)

// Module is the interface a plugin package implements to hook itself into
// a registry.
type Module interface {
	Register(r *Registry) error
}

// Registry holds the task factories for one application instance.
type Registry struct {
	factories map[string]TaskFactory
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{factories: make(map[string]TaskFactory)}
}

// RegisterTask registers a factory under a plugin tag.
func (r *Registry) RegisterTask(tag string, factory TaskFactory) error {
	if _, exists := r.factories[tag]; exists {
		return fmt.Errorf("task plugin %q already registered", tag)
	}
	slog.Debug("Registering task plugin.", "tag", tag)
	r.factories[tag] = factory
	return nil
}

// TaskFactory returns the factory registered under the given tag.
func (r *Registry) TaskFactory(tag string) (TaskFactory, error) {
	factory, ok := r.factories[tag]
	if !ok {
		return nil, fmt.Errorf("task plugin %q is not supported", tag)
	}
	return factory, nil
}

// Tags returns the registered plugin tags in sorted order.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
