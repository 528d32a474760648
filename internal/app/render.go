package app

import (
	"fmt"
	"io"

	"github.com/vk/cyclegraph/internal/builder"
	"github.com/vk/cyclegraph/internal/graph"
)

// render writes a deterministic, human-readable dump of the unrolled
// graph: cycles in creation order, each task with its resolved inputs,
// outputs and ordering dependencies.
func render(w io.Writer, workflow *builder.Workflow) error {
	if _, err := fmt.Fprintf(w, "workflow %s\n", workflow.Name); err != nil {
		return err
	}
	for _, cycle := range workflow.Cycles.Items() {
		point := ""
		if len(cycle.Tasks()) > 0 {
			point = " " + cycle.Tasks()[0].Base().CyclePoint().String()
		}
		if _, err := fmt.Fprintf(w, "cycle %s%s\n", cycle.Name(), point); err != nil {
			return err
		}
		for _, task := range cycle.Tasks() {
			if err := renderTask(w, task); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderTask(w io.Writer, task graph.TaskNode) error {
	base := task.Base()
	if _, err := fmt.Fprintf(w, "  task %s %s\n", base.Name(), base.Coordinates()); err != nil {
		return err
	}
	for _, port := range base.InputPorts() {
		for _, item := range base.Input(port) {
			if _, err := fmt.Fprintf(w, "    input  %s <- %s %s\n", port, item.Name(), item.Coordinates()); err != nil {
				return err
			}
		}
	}
	for _, port := range base.OutputPorts() {
		for _, item := range base.Output(port) {
			label := port
			if label == "" {
				label = "-"
			}
			if _, err := fmt.Fprintf(w, "    output %s -> %s %s\n", label, item.Name(), item.Coordinates()); err != nil {
				return err
			}
		}
	}
	for _, dep := range base.WaitOn() {
		depBase := dep.Base()
		if _, err := fmt.Fprintf(w, "    wait on %s %s\n", depBase.Name(), depBase.Coordinates()); err != nil {
			return err
		}
	}
	return nil
}
