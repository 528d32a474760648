package hclcfg

import (
	"github.com/zclconf/go-cty/cty"
)

// File is the top-level structure of a workflow definition file.
type File struct {
	Name       string        `hcl:"name"`
	Parameters []*Parameter  `hcl:"parameter,block"`
	Cycles     []*Cycle      `hcl:"cycle,block"`
	Tasks      []*Task       `hcl:"task,block"`
	Data       []*Data       `hcl:"data,block"`
}

// Parameter declares one named axis with its ordered value list.
type Parameter struct {
	Name   string    `hcl:"name,label"`
	Values cty.Value `hcl:"values"`
}

// Cycle declares a named group of task references, optionally repeating
// over a date range.
type Cycle struct {
	Name    string       `hcl:"name,label"`
	Cycling *Cycling     `hcl:"cycling,block"`
	Tasks   []*CycleTask `hcl:"task,block"`
}

// Cycling bounds a periodic cycle.
type Cycling struct {
	StartDate string `hcl:"start_date"`
	StopDate  string `hcl:"stop_date"`
	Period    string `hcl:"period"`
}

// CycleTask references a declared task from within a cycle.
type CycleTask struct {
	Name    string     `hcl:"name,label"`
	Inputs  []*Input   `hcl:"input,block"`
	Outputs []*Output  `hcl:"output,block"`
	WaitOn  []*WaitOn  `hcl:"wait_on,block"`
}

// Input wires a data reference into a named port.
type Input struct {
	Name       string            `hcl:"name,label"`
	Port       string            `hcl:"port"`
	Lags       []string          `hcl:"lag,optional"`
	Dates      []string          `hcl:"date,optional"`
	WhenAt     string            `hcl:"when_at,optional"`
	WhenBefore string            `hcl:"when_before,optional"`
	WhenAfter  string            `hcl:"when_after,optional"`
	Parameters map[string]string `hcl:"parameters,optional"`
}

// Output declares a generated data item produced on a port.
type Output struct {
	Name string `hcl:"name,label"`
	Port string `hcl:"port,optional"`
}

// WaitOn declares an ordering dependency on other task instances.
type WaitOn struct {
	Name       string            `hcl:"name,label"`
	Lags       []string          `hcl:"lag,optional"`
	Dates      []string          `hcl:"date,optional"`
	WhenAt     string            `hcl:"when_at,optional"`
	WhenBefore string            `hcl:"when_before,optional"`
	WhenAfter  string            `hcl:"when_after,optional"`
	Parameters map[string]string `hcl:"parameters,optional"`
}

// Task is a task declaration: plugin tag, parameter-axis subset, generic
// scheduling fields and plugin-specific attributes.
type Task struct {
	Name       string   `hcl:"name,label"`
	Plugin     string   `hcl:"plugin"`
	Parameters []string `hcl:"parameters,optional"`

	Computer      string            `hcl:"computer,optional"`
	Host          string            `hcl:"host,optional"`
	Account       string            `hcl:"account,optional"`
	Uenv          map[string]string `hcl:"uenv,optional"`
	Nodes         int               `hcl:"nodes,optional"`
	Walltime      string            `hcl:"walltime,optional"`
	NtasksPerNode int               `hcl:"ntasks_per_node,optional"`
	Mem           int               `hcl:"mem,optional"`
	CPUsPerTask   int               `hcl:"cpus_per_task,optional"`

	Command        string      `hcl:"command,optional"`
	Src            string      `hcl:"src,optional"`
	EnvSourceFiles []string    `hcl:"env_source_files,optional"`
	Bin            string      `hcl:"bin,optional"`
	Namelists      []*Namelist `hcl:"namelist,block"`
}

// Namelist names a model namelist by path with optional section specs.
type Namelist struct {
	Path  string     `hcl:"path,label"`
	Specs *cty.Value `hcl:"specs,optional"`
}

// Data declares one data item, labeled by kind ("available" or
// "generated") and name.
type Data struct {
	Kind       string   `hcl:"kind,label"`
	Name       string   `hcl:"name,label"`
	Src        string   `hcl:"src,optional"`
	Format     string   `hcl:"format,optional"`
	Computer   string   `hcl:"computer,optional"`
	Parameters []string `hcl:"parameters,optional"`
}
