// Package yamlcfg loads workflow definitions in the YAML dialect of the
// original tooling, where list entries are named by single-key mappings,
// and translates them into the format-agnostic config model.
package yamlcfg

import (
	"context"
	"fmt"
	"os"

	"github.com/rickb777/period"
	"gopkg.in/yaml.v3"

	"github.com/vk/cyclegraph/internal/config"
	"github.com/vk/cyclegraph/internal/ctxlog"
	"github.com/vk/cyclegraph/internal/cycling"
)

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new YAML loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses, translates and validates one workflow definition file.
func (l *Loader) Load(ctx context.Context, path string) (*config.Workflow, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading YAML workflow definition.", "path", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var root fileModel
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	w, err := translate(&root)
	if err != nil {
		return nil, fmt.Errorf("translating %s: %w", path, err)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("YAML workflow definition loaded.", "workflow", w.Name)
	return w, nil
}

func translate(f *fileModel) (*config.Workflow, error) {
	w := &config.Workflow{Name: f.Name}

	if f.Parameters.Kind != 0 {
		if f.Parameters.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("parameters must be a mapping of name to value list")
		}
		for i := 0; i < len(f.Parameters.Content); i += 2 {
			var name string
			if err := f.Parameters.Content[i].Decode(&name); err != nil {
				return nil, err
			}
			var values []any
			if err := f.Parameters.Content[i+1].Decode(&values); err != nil {
				return nil, fmt.Errorf("parameter %q: %w", name, err)
			}
			w.Parameters = append(w.Parameters, &config.Parameter{Name: name, Values: values})
		}
	}

	for _, node := range f.Cycles {
		cyc, err := translateCycle(node)
		if err != nil {
			return nil, err
		}
		w.Cycles = append(w.Cycles, cyc)
	}

	for _, node := range f.Tasks {
		task, err := translateTask(node)
		if err != nil {
			return nil, err
		}
		w.Tasks = append(w.Tasks, task)
	}

	var err error
	if w.Data.Available, err = translateData(f.Data.Available); err != nil {
		return nil, err
	}
	if w.Data.Generated, err = translateData(f.Data.Generated); err != nil {
		return nil, err
	}
	return w, nil
}

func translateCycle(node yaml.Node) (*config.Cycle, error) {
	var m cycleModel
	name, err := decodeNamed(&node, &m)
	if err != nil {
		return nil, fmt.Errorf("cycles: %w", err)
	}

	cyc := &config.Cycle{Name: name, Cycling: cycling.OneOff{}}
	if m.Cycling != nil {
		start, err := cycling.ParseDate(m.Cycling.StartDate)
		if err != nil {
			return nil, fmt.Errorf("cycle %q: start_date: %w", name, err)
		}
		stop, err := cycling.ParseDate(m.Cycling.StopDate)
		if err != nil {
			return nil, fmt.Errorf("cycle %q: stop_date: %w", name, err)
		}
		p, err := period.Parse(m.Cycling.Period)
		if err != nil {
			return nil, fmt.Errorf("cycle %q: period: %w", name, err)
		}
		policy, err := cycling.NewDateCycling(start, stop, p)
		if err != nil {
			return nil, fmt.Errorf("cycle %q: %w", name, err)
		}
		cyc.Cycling = policy
	}

	for _, taskNode := range m.Tasks {
		var tm cycleTaskModel
		taskName, err := decodeNamed(&taskNode, &tm)
		if err != nil {
			return nil, fmt.Errorf("cycle %q: %w", name, err)
		}
		cycleTask := &config.CycleTask{Name: taskName}

		for _, inNode := range tm.Inputs {
			var rm refModel
			refName, err := decodeNamed(&inNode, &rm)
			if err != nil {
				return nil, fmt.Errorf("cycle %q task %q: %w", name, taskName, err)
			}
			target, err := translateTargetNodes(refName, &rm)
			if err != nil {
				return nil, fmt.Errorf("cycle %q task %q: input %q: %w", name, taskName, refName, err)
			}
			cycleTask.Inputs = append(cycleTask.Inputs, &config.CycleTaskInput{TargetNodes: *target, Port: rm.Port})
		}
		for _, outNode := range tm.Outputs {
			var om outputModel
			outName, err := decodeNamed(&outNode, &om)
			if err != nil {
				return nil, fmt.Errorf("cycle %q task %q: %w", name, taskName, err)
			}
			cycleTask.Outputs = append(cycleTask.Outputs, &config.CycleTaskOutput{Name: outName, Port: om.Port})
		}
		for _, woNode := range tm.WaitOn {
			var rm refModel
			refName, err := decodeNamed(&woNode, &rm)
			if err != nil {
				return nil, fmt.Errorf("cycle %q task %q: %w", name, taskName, err)
			}
			target, err := translateTargetNodes(refName, &rm)
			if err != nil {
				return nil, fmt.Errorf("cycle %q task %q: wait_on %q: %w", name, taskName, refName, err)
			}
			cycleTask.WaitOn = append(cycleTask.WaitOn, &config.CycleTaskWaitOn{TargetNodes: *target})
		}
		cyc.Tasks = append(cyc.Tasks, cycleTask)
	}
	return cyc, nil
}

func translateTargetNodes(name string, m *refModel) (*config.TargetNodes, error) {
	target := &config.TargetNodes{
		Name:        name,
		TargetCycle: cycling.NoTargetCycle{},
		When:        cycling.AnyWhen{},
	}

	if len(m.Lag) > 0 && len(m.Date) > 0 {
		return nil, fmt.Errorf("a reference can carry lag or date, not both")
	}
	if len(m.Lag) > 0 {
		list := cycling.LagList{}
		for _, s := range m.Lag {
			p, err := period.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("lag %q: %w", s, err)
			}
			list.Lags = append(list.Lags, p)
		}
		target.TargetCycle = list
	}
	if len(m.Date) > 0 {
		list := cycling.DateList{}
		for _, s := range m.Date {
			d, err := cycling.ParseDate(s)
			if err != nil {
				return nil, fmt.Errorf("date %q: %w", s, err)
			}
			list.Dates = append(list.Dates, d)
		}
		target.TargetCycle = list
	}

	if m.When != nil {
		if m.When.At != "" && (m.When.Before != "" || m.When.After != "") {
			return nil, fmt.Errorf("when keys can only be at, or before/after")
		}
		switch {
		case m.When.At != "":
			at, err := cycling.ParseDate(m.When.At)
			if err != nil {
				return nil, fmt.Errorf("when.at %q: %w", m.When.At, err)
			}
			target.When = cycling.AtDate{At: at}
		case m.When.Before != "" || m.When.After != "":
			ba := cycling.BeforeAfterDate{}
			if m.When.Before != "" {
				before, err := cycling.ParseDate(m.When.Before)
				if err != nil {
					return nil, fmt.Errorf("when.before %q: %w", m.When.Before, err)
				}
				ba.Before = &before
			}
			if m.When.After != "" {
				after, err := cycling.ParseDate(m.When.After)
				if err != nil {
					return nil, fmt.Errorf("when.after %q: %w", m.When.After, err)
				}
				ba.After = &after
			}
			target.When = ba
		}
	}

	if len(m.Parameters) > 0 {
		target.Parameters = make(map[string]config.ParamMode, len(m.Parameters))
		for dim, mode := range m.Parameters {
			target.Parameters[dim] = config.ParamMode(mode)
		}
	}
	return target, nil
}

func translateTask(node yaml.Node) (*config.Task, error) {
	var m taskModel
	name, err := decodeNamed(&node, &m)
	if err != nil {
		return nil, fmt.Errorf("tasks: %w", err)
	}

	task := &config.Task{
		Name:          name,
		Plugin:        m.Plugin,
		Parameters:    m.Parameters,
		Computer:      m.Computer,
		Host:          m.Host,
		Account:       m.Account,
		Uenv:          m.Uenv,
		Nodes:         m.Nodes,
		Walltime:      m.Walltime,
		NtasksPerNode: m.NtasksPerNode,
		Mem:           m.Mem,
		CPUsPerTask:   m.CPUsPerTask,
	}

	if m.Command != "" || m.Src != "" || len(m.EnvSourceFiles) > 0 {
		task.Shell = &config.ShellSpec{
			Command:        m.Command,
			Src:            m.Src,
			EnvSourceFiles: m.EnvSourceFiles,
		}
	}
	if m.Bin != "" || len(m.Namelists) > 0 {
		spec := &config.IconSpec{Bin: m.Bin}
		for _, nlNode := range m.Namelists {
			var specs map[string]map[string]any
			path, err := decodeNamed(&nlNode, &specs)
			if err != nil {
				return nil, fmt.Errorf("task %q: namelists: %w", name, err)
			}
			spec.Namelists = append(spec.Namelists, &config.Namelist{Path: path, Specs: specs})
		}
		task.Icon = spec
	}
	return task, nil
}

func translateData(nodes []yaml.Node) ([]*config.DataItem, error) {
	var items []*config.DataItem
	for _, node := range nodes {
		var m dataModel
		name, err := decodeNamed(&node, &m)
		if err != nil {
			return nil, fmt.Errorf("data: %w", err)
		}
		items = append(items, &config.DataItem{
			Name:       name,
			Src:        m.Src,
			Format:     m.Format,
			Computer:   m.Computer,
			Parameters: m.Parameters,
		})
	}
	return items, nil
}
