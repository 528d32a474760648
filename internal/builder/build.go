package builder

import (
	"context"
	"fmt"

	"github.com/vk/cyclegraph/internal/config"
	"github.com/vk/cyclegraph/internal/ctxlog"
	"github.com/vk/cyclegraph/internal/cycling"
	"github.com/vk/cyclegraph/internal/graph"
	"github.com/vk/cyclegraph/internal/registry"
)

// Build unrolls a validated workflow configuration into a complete graph.
// The pass order is load-bearing: available data first, then the generated
// data slots of every cycle point, then the tasks resolving against them,
// and finally the deferred wait-on links once every task exists. Any
// resolution failure aborts construction.
func Build(ctx context.Context, cfg *config.Workflow, reg *registry.Registry) (*Workflow, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting workflow unroll.", "workflow", cfg.Name)

	w := &Workflow{
		Name:   cfg.Name,
		Tasks:  graph.NewStore[graph.TaskNode](),
		Data:   graph.NewStore[*graph.Data](),
		Cycles: graph.NewStore[*graph.Cycle](),
	}

	generatedConfigs := make(map[string]*config.DataItem, len(cfg.Data.Generated))
	for _, d := range cfg.Data.Generated {
		generatedConfigs[d.Name] = d
	}
	taskConfigs := make(map[string]*config.Task, len(cfg.Tasks))
	for _, t := range cfg.Tasks {
		taskConfigs[t.Name] = t
	}

	if err := createAvailableData(cfg, w); err != nil {
		return nil, err
	}
	logger.Debug("Build: available data pass complete.")

	if err := createGeneratedData(cfg, w, generatedConfigs); err != nil {
		return nil, err
	}
	logger.Debug("Build: generated data pass complete.")

	if err := createTasks(cfg, w, taskConfigs, reg); err != nil {
		return nil, err
	}
	logger.Debug("Build: task creation pass complete.")

	for _, task := range w.Tasks.Items() {
		if err := task.Base().LinkWaitOn(w.Tasks); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: wait-on linking pass complete.")

	logger.Info("Build: workflow unroll successful.",
		"workflow", cfg.Name, "tasks", len(w.Tasks.Items()), "data", len(w.Data.Items()), "cycles", len(w.Cycles.Items()))
	return w, nil
}

// createAvailableData instantiates every pre-existing data item across its
// parameter cross-product. Available data is never cycle-bound.
func createAvailableData(cfg *config.Workflow, w *Workflow) error {
	for _, d := range cfg.Data.Available {
		combos, err := iterCoordinates(cfg, d.Parameters, cycling.OneOffPoint{})
		if err != nil {
			return fmt.Errorf("available data %q: %w", d.Name, err)
		}
		for _, coords := range combos {
			if err := w.Data.Add(graph.NewData(d, graph.DataAvailable, coords)); err != nil {
				return fmt.Errorf("available data %q: %w", d.Name, err)
			}
		}
	}
	return nil
}

// createGeneratedData instantiates the output data slot of every declared
// task output, per cycle point and per the output's own parameter
// cross-product. Tasks resolve their outputs against these slots, so this
// pass must complete before any task is created.
func createGeneratedData(cfg *config.Workflow, w *Workflow, generatedConfigs map[string]*config.DataItem) error {
	for _, cyc := range cfg.Cycles {
		for point := range cyc.Cycling.Points() {
			for _, ct := range cyc.Tasks {
				for _, out := range ct.Outputs {
					d, ok := generatedConfigs[out.Name]
					if !ok {
						return fmt.Errorf("cycle %q task %q: output %q is not declared as generated data", cyc.Name, ct.Name, out.Name)
					}
					combos, err := iterCoordinates(cfg, d.Parameters, point)
					if err != nil {
						return fmt.Errorf("generated data %q: %w", d.Name, err)
					}
					for _, coords := range combos {
						if err := w.Data.Add(graph.NewData(d, graph.DataGenerated, coords)); err != nil {
							return fmt.Errorf("generated data %q: %w", d.Name, err)
						}
					}
				}
			}
		}
	}
	return nil
}

// createTasks instantiates every task per cycle point and parameter
// combination, resolving inputs and outputs against the data store and
// dispatching construction to the plugin registered under the task's tag.
// Each cycle point also gets its grouping Cycle item.
func createTasks(cfg *config.Workflow, w *Workflow, taskConfigs map[string]*config.Task, reg *registry.Registry) error {
	for _, cyc := range cfg.Cycles {
		for point := range cyc.Cycling.Points() {
			var cycleTasks []graph.TaskNode
			for _, ct := range cyc.Tasks {
				taskCfg, ok := taskConfigs[ct.Name]
				if !ok {
					return fmt.Errorf("cycle %q references undeclared task %q", cyc.Name, ct.Name)
				}
				factory, err := reg.TaskFactory(taskCfg.Plugin)
				if err != nil {
					return fmt.Errorf("task %q: %w", taskCfg.Name, err)
				}
				combos, err := iterCoordinates(cfg, taskCfg.Parameters, point)
				if err != nil {
					return fmt.Errorf("task %q: %w", taskCfg.Name, err)
				}
				for _, coords := range combos {
					task, err := buildTask(taskCfg, ct, coords, point, factory, w.Data)
					if err != nil {
						return err
					}
					if err := w.Tasks.Add(task); err != nil {
						return fmt.Errorf("task %q: %w", taskCfg.Name, err)
					}
					cycleTasks = append(cycleTasks, task)
				}
			}
			var cycleCoords graph.Coordinates
			if dated, ok := point.(cycling.DateCyclePoint); ok {
				cycleCoords = graph.Coordinates{{Dim: graph.DimDate, Value: dated.ChunkStartDate}}
			}
			if err := w.Cycles.Add(graph.NewCycle(cyc.Name, cycleCoords, cycleTasks)); err != nil {
				return fmt.Errorf("cycle %q: %w", cyc.Name, err)
			}
		}
	}
	return nil
}

// buildTask resolves one task instance: inputs grouped by port via spec
// resolution, outputs via direct lookup of the pre-created slots, then
// plugin dispatch. The raw wait-on specs are recorded on the base for the
// deferred linking pass.
func buildTask(
	taskCfg *config.Task,
	ct *config.CycleTask,
	coords graph.Coordinates,
	point cycling.CyclePoint,
	factory registry.TaskFactory,
	data *graph.Store[*graph.Data],
) (graph.TaskNode, error) {
	var inputPorts []string
	inputs := make(map[string][]*graph.Data)
	for _, in := range ct.Inputs {
		items, err := data.ResolveSpec(&in.TargetNodes, coords)
		if err != nil {
			return nil, fmt.Errorf("task %q %s: input %q: %w", taskCfg.Name, coords, in.Name, err)
		}
		if _, seen := inputs[in.Port]; !seen {
			inputPorts = append(inputPorts, in.Port)
			inputs[in.Port] = nil
		}
		inputs[in.Port] = append(inputs[in.Port], items...)
	}

	var outputPorts []string
	outputs := make(map[string][]*graph.Data)
	for _, out := range ct.Outputs {
		item, err := data.Get(out.Name, coords)
		if err != nil {
			return nil, fmt.Errorf("task %q %s: output %q: %w", taskCfg.Name, coords, out.Name, err)
		}
		if _, seen := outputs[out.Port]; !seen {
			outputPorts = append(outputPorts, out.Port)
			outputs[out.Port] = nil
		}
		outputs[out.Port] = append(outputs[out.Port], item)
	}

	base := graph.NewTask(taskCfg, coords, point, inputPorts, inputs, outputPorts, outputs, ct.WaitOn)
	task, err := factory(base, taskCfg)
	if err != nil {
		return nil, fmt.Errorf("task %q %s: %w", taskCfg.Name, coords, err)
	}
	return task, nil
}
