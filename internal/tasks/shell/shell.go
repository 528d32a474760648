// Package shell implements the "shell" task plugin: a command template
// whose {PORT::name} placeholders are filled with the labels of the data
// items resolved into each input port.
package shell

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/cyclegraph/internal/config"
	"github.com/vk/cyclegraph/internal/graph"
	"github.com/vk/cyclegraph/internal/registry"
)

// Tag is the plugin tag this package registers under.
const Tag = "shell"

// Placeholders take the form {PORT::port_name} or, with an explicit
// argument separator, {PORT[sep=,]::port_name}.
var portPattern = regexp.MustCompile(`\{PORT(\[sep=(.*?)\])?::(.+?)\}`)

// Task is a shell task instance.
type Task struct {
	*graph.Task

	Command        string
	Src            string
	EnvSourceFiles []string
}

// Register hooks the shell plugin into a registry.
func Register(r *registry.Registry) error {
	return r.RegisterTask(Tag, newTask)
}

func newTask(base *graph.Task, cfg *config.Task) (graph.TaskNode, error) {
	if cfg.Shell == nil {
		return nil, fmt.Errorf("task %q: plugin %q requires a shell spec", cfg.Name, Tag)
	}
	return &Task{
		Task:           base,
		Command:        cfg.Shell.Command,
		Src:            cfg.Shell.Src,
		EnvSourceFiles: cfg.Shell.EnvSourceFiles,
	}, nil
}

// ResolvedCommand substitutes every port placeholder in the command with
// the labels of the items resolved into that port, joined by the
// placeholder's separator (a single space by default). When multiple items
// feed one port, the joined order follows resolution order, so the command
// line is reproducible.
func (t *Task) ResolvedCommand() (string, error) {
	labels := t.InputLabels()
	cmd := t.Command
	var substErr error
	cmd = portPattern.ReplaceAllStringFunc(cmd, func(match string) string {
		groups := portPattern.FindStringSubmatch(match)
		sep := " "
		if groups[1] != "" {
			sep = groups[2]
		}
		port := groups[3]
		ls, ok := labels[port]
		if !ok {
			if substErr == nil {
				substErr = fmt.Errorf("task %q: command references unknown port %q", t.Name(), port)
			}
			return match
		}
		return strings.Join(ls, sep)
	})
	if substErr != nil {
		return "", substErr
	}
	return cmd, nil
}
