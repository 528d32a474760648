package config

import (
	"fmt"
	"sort"
	"strings"
)

// Validate performs the cross-reference checks the builder relies on: every
// referenced parameter axis, task and data name must resolve to a
// declaration, names must be unique, and every cross-reference mode must be
// well formed. All findings are collected and reported together.
func (w *Workflow) Validate() error {
	var errs []string

	params := make(map[string]struct{})
	for _, p := range w.Parameters {
		if _, ok := params[p.Name]; ok {
			errs = append(errs, fmt.Sprintf("parameter %q declared twice", p.Name))
		}
		params[p.Name] = struct{}{}
		if len(p.Values) == 0 {
			errs = append(errs, fmt.Sprintf("parameter %q has no values", p.Name))
		}
	}

	tasks := make(map[string]*Task)
	for _, t := range w.Tasks {
		if _, ok := tasks[t.Name]; ok {
			errs = append(errs, fmt.Sprintf("task %q declared twice", t.Name))
		}
		tasks[t.Name] = t
		if t.Plugin == "" {
			errs = append(errs, fmt.Sprintf("task %q has no plugin tag", t.Name))
		}
		for _, ref := range t.Parameters {
			if _, ok := params[ref]; !ok {
				errs = append(errs, fmt.Sprintf("task %q references undeclared parameter %q", t.Name, ref))
			}
		}
	}

	data := make(map[string]*DataItem)
	generated := make(map[string]struct{})
	checkData := func(items []*DataItem, kind string) {
		for _, d := range items {
			if _, ok := data[d.Name]; ok {
				errs = append(errs, fmt.Sprintf("data %q declared twice", d.Name))
			}
			data[d.Name] = d
			if kind == "generated" {
				generated[d.Name] = struct{}{}
			}
			for _, ref := range d.Parameters {
				if _, ok := params[ref]; !ok {
					errs = append(errs, fmt.Sprintf("data %q references undeclared parameter %q", d.Name, ref))
				}
			}
		}
	}
	checkData(w.Data.Available, "available")
	checkData(w.Data.Generated, "generated")

	for _, c := range w.Cycles {
		if c.Cycling == nil {
			errs = append(errs, fmt.Sprintf("cycle %q has no cycling policy", c.Name))
		}
		for _, ct := range c.Tasks {
			if _, ok := tasks[ct.Name]; !ok {
				errs = append(errs, fmt.Sprintf("cycle %q references undeclared task %q", c.Name, ct.Name))
			}
			for _, in := range ct.Inputs {
				if _, ok := data[in.Name]; !ok {
					errs = append(errs, fmt.Sprintf("cycle %q task %q input references undeclared data %q", c.Name, ct.Name, in.Name))
				}
				errs = append(errs, validateModes(&in.TargetNodes, c.Name, ct.Name)...)
			}
			for _, out := range ct.Outputs {
				if _, ok := generated[out.Name]; !ok {
					errs = append(errs, fmt.Sprintf("cycle %q task %q output %q is not declared as generated data", c.Name, ct.Name, out.Name))
				}
			}
			for _, wo := range ct.WaitOn {
				if _, ok := tasks[wo.Name]; !ok {
					errs = append(errs, fmt.Sprintf("cycle %q task %q waits on undeclared task %q", c.Name, ct.Name, wo.Name))
				}
				errs = append(errs, validateModes(&wo.TargetNodes, c.Name, ct.Name)...)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid workflow configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validateModes(spec *TargetNodes, cycleName, taskName string) []string {
	var errs []string
	dims := make([]string, 0, len(spec.Parameters))
	for dim := range spec.Parameters {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	for _, dim := range dims {
		if mode := spec.Parameters[dim]; mode != ParamAll && mode != ParamSingle {
			errs = append(errs, fmt.Sprintf("cycle %q task %q reference %q: parameter %q mode must be %q or %q, got %q",
				cycleName, taskName, spec.Name, dim, ParamAll, ParamSingle, mode))
		}
	}
	return errs
}
