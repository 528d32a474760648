package config

import (
	"github.com/vk/cyclegraph/internal/cycling"
)

// ParamMode selects how a cross-reference resolves a parameter dimension of
// its target: "all" takes every value observed on that axis, "single" takes
// the reference's own value.
type ParamMode string

const (
	ParamAll    ParamMode = "all"
	ParamSingle ParamMode = "single"
)

// Workflow is the validated configuration tree handed to the builder.
type Workflow struct {
	Name       string
	Parameters []*Parameter
	Cycles     []*Cycle
	Tasks      []*Task
	Data       Data
}

// Parameter is one named axis with its ordered value list.
type Parameter struct {
	Name   string
	Values []any
}

// Parameter returns the declared axis with the given name.
func (w *Workflow) Parameter(name string) (*Parameter, bool) {
	for _, p := range w.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Cycle is a named, possibly time-repeating group of task references.
type Cycle struct {
	Name    string
	Cycling cycling.Policy
	Tasks   []*CycleTask
}

// CycleTask references a declared task from within a cycle, together with
// the graph specs wiring its inputs, outputs and ordering dependencies.
type CycleTask struct {
	Name    string
	Inputs  []*CycleTaskInput
	Outputs []*CycleTaskOutput
	WaitOn  []*CycleTaskWaitOn
}

// TargetNodes is the common shape of a cross-reference spec: the target
// name, the cycle point(s) to address, an activation predicate and the
// per-dimension parameter resolution modes.
type TargetNodes struct {
	Name        string
	TargetCycle cycling.TargetCycle
	When        cycling.When
	Parameters  map[string]ParamMode
}

// CycleTaskInput wires resolved data items into a named input port.
type CycleTaskInput struct {
	TargetNodes
	Port string
}

// CycleTaskOutput declares a generated data item produced on a port.
type CycleTaskOutput struct {
	Name string
	Port string
}

// CycleTaskWaitOn declares an ordering dependency on other task instances.
type CycleTaskWaitOn struct {
	TargetNodes
}

// Task is a task declaration: a plugin tag, the subset of parameter axes it
// spans, generic scheduling fields opaque to the engine, and the spec of
// exactly one plugin.
type Task struct {
	Name       string
	Plugin     string
	Parameters []string

	Computer      string
	Host          string
	Account       string
	Uenv          map[string]string
	Nodes         int
	Walltime      string
	NtasksPerNode int
	Mem           int
	CPUsPerTask   int

	Shell *ShellSpec
	Icon  *IconSpec
}

// ShellSpec carries the fields of the "shell" plugin.
type ShellSpec struct {
	Command        string
	Src            string
	EnvSourceFiles []string
}

// IconSpec carries the fields of the "icon" plugin.
type IconSpec struct {
	Bin       string
	Namelists []*Namelist
}

// Namelist names a model namelist by path and carries the section/key
// overrides declared for it. Rendering it to disk is not the engine's
// concern.
type Namelist struct {
	Path  string
	Specs map[string]map[string]any
}

// Data splits data declarations into pre-existing and task-produced items.
type Data struct {
	Available []*DataItem
	Generated []*DataItem
}

// DataItem is one data declaration: a source descriptor plus the subset of
// parameter axes it spans.
type DataItem struct {
	Name       string
	Src        string
	Format     string
	Computer   string
	Parameters []string
}
