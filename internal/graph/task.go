package graph

import (
	"fmt"

	"github.com/vk/cyclegraph/internal/config"
	"github.com/vk/cyclegraph/internal/cycling"
)

// TaskNode is the common face of every task instance, whatever its plugin.
// Concrete plugin types embed *Task and add their own fields.
type TaskNode interface {
	GraphItem
	Base() *Task
}

// Task is the plugin-independent part of a task instance: resolved inputs
// and outputs grouped by port, the owning cycle point, the ordering
// dependencies, and the generic scheduling fields from the declaration.
type Task struct {
	name       string
	coords     Coordinates
	cyclePoint cycling.CyclePoint
	spec       *config.Task

	inputPorts  []string
	inputs      map[string][]*Data
	outputPorts []string
	outputs     map[string][]*Data

	waitOn      []TaskNode
	waitOnSpecs []*config.CycleTaskWaitOn
}

// NewTask assembles the base of a task instance. Input and output port
// order is preserved as given so downstream argument joining stays
// reproducible. The raw wait-on specs are recorded for the deferred
// linking pass.
func NewTask(
	spec *config.Task,
	coords Coordinates,
	cyclePoint cycling.CyclePoint,
	inputPorts []string,
	inputs map[string][]*Data,
	outputPorts []string,
	outputs map[string][]*Data,
	waitOnSpecs []*config.CycleTaskWaitOn,
) *Task {
	return &Task{
		name:        spec.Name,
		coords:      coords,
		cyclePoint:  cyclePoint,
		spec:        spec,
		inputPorts:  inputPorts,
		inputs:      inputs,
		outputPorts: outputPorts,
		outputs:     outputs,
		waitOnSpecs: waitOnSpecs,
	}
}

func (t *Task) Name() string             { return t.name }
func (t *Task) Coordinates() Coordinates { return t.coords }
func (t *Task) Base() *Task              { return t }

// CyclePoint is the cycle repetition this instance belongs to.
func (t *Task) CyclePoint() cycling.CyclePoint { return t.cyclePoint }

// Spec exposes the task declaration, including the scheduling fields the
// execution backend consumes.
func (t *Task) Spec() *config.Task { return t.spec }

// InputPorts returns the input port names in declaration order.
func (t *Task) InputPorts() []string { return t.inputPorts }

// Input returns the data items resolved into the given port.
func (t *Task) Input(port string) []*Data { return t.inputs[port] }

// OutputPorts returns the output port names in declaration order.
func (t *Task) OutputPorts() []string { return t.outputPorts }

// Output returns the data items produced on the given port.
func (t *Task) Output(port string) []*Data { return t.outputs[port] }

// InputLabels maps each input port to the labels of its resolved items, in
// resolution order.
func (t *Task) InputLabels() map[string][]string {
	labels := make(map[string][]string, len(t.inputPorts))
	for _, port := range t.inputPorts {
		items := t.inputs[port]
		ls := make([]string, len(items))
		for i, d := range items {
			ls[i] = d.Label()
		}
		labels[port] = ls
	}
	return labels
}

// InputData yields every input item across all ports, port order first.
func (t *Task) InputData() []*Data {
	var all []*Data
	for _, port := range t.inputPorts {
		all = append(all, t.inputs[port]...)
	}
	return all
}

// OutputData yields every output item across all ports, port order first.
func (t *Task) OutputData() []*Data {
	var all []*Data
	for _, port := range t.outputPorts {
		all = append(all, t.outputs[port]...)
	}
	return all
}

// WaitOn returns the task instances this one must run after. It is empty
// until LinkWaitOn has run.
func (t *Task) WaitOn() []TaskNode { return t.waitOn }

// Label is the canonical instance label of this task.
func (t *Task) Label() string { return Label(t.name, t.coords) }

// LinkWaitOn resolves the recorded wait-on specs against the complete task
// store. It must only run once every task instance exists, since a spec
// may address tasks from a cycle declared later.
func (t *Task) LinkWaitOn(tasks *Store[TaskNode]) error {
	for _, spec := range t.waitOnSpecs {
		items, err := tasks.ResolveSpec(&spec.TargetNodes, t.coords)
		if err != nil {
			return fmt.Errorf("task %s %s: resolving wait-on %q: %w", t.name, t.coords, spec.Name, err)
		}
		t.waitOn = append(t.waitOn, items...)
	}
	return nil
}
