package hclcfg

import (
	"errors"
	"fmt"

	"github.com/rickb777/period"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cyclegraph/internal/config"
	"github.com/vk/cyclegraph/internal/cycling"
)

// translate converts the decoded HCL file into the format-agnostic model.
func translate(f *File) (*config.Workflow, error) {
	w := &config.Workflow{Name: f.Name}

	for _, p := range f.Parameters {
		values, err := ctyToGoSlice(p.Values)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		w.Parameters = append(w.Parameters, &config.Parameter{Name: p.Name, Values: values})
	}

	for _, c := range f.Cycles {
		cyc, err := translateCycle(c)
		if err != nil {
			return nil, err
		}
		w.Cycles = append(w.Cycles, cyc)
	}

	for _, t := range f.Tasks {
		task, err := translateTask(t)
		if err != nil {
			return nil, err
		}
		w.Tasks = append(w.Tasks, task)
	}

	for _, d := range f.Data {
		item := &config.DataItem{
			Name:       d.Name,
			Src:        d.Src,
			Format:     d.Format,
			Computer:   d.Computer,
			Parameters: d.Parameters,
		}
		switch d.Kind {
		case "available":
			w.Data.Available = append(w.Data.Available, item)
		case "generated":
			w.Data.Generated = append(w.Data.Generated, item)
		default:
			return nil, fmt.Errorf("data %q: kind must be \"available\" or \"generated\", got %q", d.Name, d.Kind)
		}
	}

	return w, nil
}

func translateCycle(c *Cycle) (*config.Cycle, error) {
	cyc := &config.Cycle{Name: c.Name, Cycling: cycling.OneOff{}}
	if c.Cycling != nil {
		start, err := cycling.ParseDate(c.Cycling.StartDate)
		if err != nil {
			return nil, fmt.Errorf("cycle %q: start_date: %w", c.Name, err)
		}
		stop, err := cycling.ParseDate(c.Cycling.StopDate)
		if err != nil {
			return nil, fmt.Errorf("cycle %q: stop_date: %w", c.Name, err)
		}
		p, err := period.Parse(c.Cycling.Period)
		if err != nil {
			return nil, fmt.Errorf("cycle %q: period: %w", c.Name, err)
		}
		policy, err := cycling.NewDateCycling(start, stop, p)
		if err != nil {
			return nil, fmt.Errorf("cycle %q: %w", c.Name, err)
		}
		cyc.Cycling = policy
	}

	for _, ct := range c.Tasks {
		cycleTask := &config.CycleTask{Name: ct.Name}
		for _, in := range ct.Inputs {
			target, err := translateTargetNodes(in.Name, in.Lags, in.Dates, in.WhenAt, in.WhenBefore, in.WhenAfter, in.Parameters)
			if err != nil {
				return nil, fmt.Errorf("cycle %q task %q: input %q: %w", c.Name, ct.Name, in.Name, err)
			}
			cycleTask.Inputs = append(cycleTask.Inputs, &config.CycleTaskInput{TargetNodes: *target, Port: in.Port})
		}
		for _, out := range ct.Outputs {
			cycleTask.Outputs = append(cycleTask.Outputs, &config.CycleTaskOutput{Name: out.Name, Port: out.Port})
		}
		for _, wo := range ct.WaitOn {
			target, err := translateTargetNodes(wo.Name, wo.Lags, wo.Dates, wo.WhenAt, wo.WhenBefore, wo.WhenAfter, wo.Parameters)
			if err != nil {
				return nil, fmt.Errorf("cycle %q task %q: wait_on %q: %w", c.Name, ct.Name, wo.Name, err)
			}
			cycleTask.WaitOn = append(cycleTask.WaitOn, &config.CycleTaskWaitOn{TargetNodes: *target})
		}
		cyc.Tasks = append(cyc.Tasks, cycleTask)
	}
	return cyc, nil
}

// translateTargetNodes builds the common cross-reference spec: at most one
// of lag/date, at most one of when_at vs when_before/when_after.
func translateTargetNodes(name string, lags, dates []string, whenAt, whenBefore, whenAfter string, params map[string]string) (*config.TargetNodes, error) {
	target := &config.TargetNodes{
		Name:        name,
		TargetCycle: cycling.NoTargetCycle{},
		When:        cycling.AnyWhen{},
	}

	if len(lags) > 0 && len(dates) > 0 {
		return nil, errors.New("a reference can carry lag or date, not both")
	}
	if len(lags) > 0 {
		list := cycling.LagList{}
		for _, s := range lags {
			p, err := period.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("lag %q: %w", s, err)
			}
			list.Lags = append(list.Lags, p)
		}
		target.TargetCycle = list
	}
	if len(dates) > 0 {
		list := cycling.DateList{}
		for _, s := range dates {
			d, err := cycling.ParseDate(s)
			if err != nil {
				return nil, fmt.Errorf("date %q: %w", s, err)
			}
			list.Dates = append(list.Dates, d)
		}
		target.TargetCycle = list
	}

	if whenAt != "" && (whenBefore != "" || whenAfter != "") {
		return nil, errors.New("when_at cannot be combined with when_before or when_after")
	}
	switch {
	case whenAt != "":
		at, err := cycling.ParseDate(whenAt)
		if err != nil {
			return nil, fmt.Errorf("when_at %q: %w", whenAt, err)
		}
		target.When = cycling.AtDate{At: at}
	case whenBefore != "" || whenAfter != "":
		ba := cycling.BeforeAfterDate{}
		if whenBefore != "" {
			before, err := cycling.ParseDate(whenBefore)
			if err != nil {
				return nil, fmt.Errorf("when_before %q: %w", whenBefore, err)
			}
			ba.Before = &before
		}
		if whenAfter != "" {
			after, err := cycling.ParseDate(whenAfter)
			if err != nil {
				return nil, fmt.Errorf("when_after %q: %w", whenAfter, err)
			}
			ba.After = &after
		}
		target.When = ba
	}

	if len(params) > 0 {
		target.Parameters = make(map[string]config.ParamMode, len(params))
		for dim, mode := range params {
			target.Parameters[dim] = config.ParamMode(mode)
		}
	}
	return target, nil
}

func translateTask(t *Task) (*config.Task, error) {
	task := &config.Task{
		Name:          t.Name,
		Plugin:        t.Plugin,
		Parameters:    t.Parameters,
		Computer:      t.Computer,
		Host:          t.Host,
		Account:       t.Account,
		Uenv:          t.Uenv,
		Nodes:         t.Nodes,
		Walltime:      t.Walltime,
		NtasksPerNode: t.NtasksPerNode,
		Mem:           t.Mem,
		CPUsPerTask:   t.CPUsPerTask,
	}

	if t.Command != "" || t.Src != "" || len(t.EnvSourceFiles) > 0 {
		task.Shell = &config.ShellSpec{
			Command:        t.Command,
			Src:            t.Src,
			EnvSourceFiles: t.EnvSourceFiles,
		}
	}
	if t.Bin != "" || len(t.Namelists) > 0 {
		spec := &config.IconSpec{Bin: t.Bin}
		for _, nl := range t.Namelists {
			specs, err := ctyToNamelistSpecs(nl.Specs)
			if err != nil {
				return nil, fmt.Errorf("task %q: namelist %q: %w", t.Name, nl.Path, err)
			}
			spec.Namelists = append(spec.Namelists, &config.Namelist{Path: nl.Path, Specs: specs})
		}
		task.Icon = spec
	}
	return task, nil
}

// ctyToNamelistSpecs converts a two-level object value into section/key
// specs.
func ctyToNamelistSpecs(v *cty.Value) (map[string]map[string]any, error) {
	if v == nil || v.IsNull() {
		return nil, nil
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return nil, fmt.Errorf("specs must be an object of sections")
	}
	specs := make(map[string]map[string]any)
	for it := v.ElementIterator(); it.Next(); {
		sectionKey, sectionVal := it.Element()
		section := sectionKey.AsString()
		if !sectionVal.Type().IsObjectType() && !sectionVal.Type().IsMapType() {
			return nil, fmt.Errorf("section %q must be an object of entries", section)
		}
		entries := make(map[string]any)
		for inner := sectionVal.ElementIterator(); inner.Next(); {
			entryKey, entryVal := inner.Element()
			value, err := ctyToGo(entryVal)
			if err != nil {
				return nil, fmt.Errorf("section %q entry %q: %w", section, entryKey.AsString(), err)
			}
			entries[entryKey.AsString()] = value
		}
		specs[section] = entries
	}
	return specs, nil
}

// ctyToGoSlice converts a list or tuple value into Go scalars, preserving
// order.
func ctyToGoSlice(v cty.Value) ([]any, error) {
	if v.IsNull() {
		return nil, errors.New("value list must not be null")
	}
	if !v.CanIterateElements() {
		return nil, fmt.Errorf("expected a list, got %s", v.Type().FriendlyName())
	}
	var values []any
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		value, err := ctyToGo(elem)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

// ctyToGo converts a scalar cty value to its Go form. Whole numbers become
// int so coordinate keys render without a fraction.
func ctyToGo(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, errors.New("null value")
	}
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Bool:
		return v.True(), nil
	case cty.Number:
		f := v.AsBigFloat()
		if f.IsInt() {
			i, _ := f.Int64()
			return int(i), nil
		}
		fl, _ := f.Float64()
		return fl, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", v.Type().FriendlyName())
	}
}
