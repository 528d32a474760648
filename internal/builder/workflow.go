package builder

import (
	"github.com/vk/cyclegraph/internal/graph"
)

// Workflow is the fully unrolled graph: three stores, each addressable by
// (name, coordinates) and iterable in deterministic order. It is built in
// one shot and immutable by convention afterwards.
type Workflow struct {
	Name string

	Tasks  *graph.Store[graph.TaskNode]
	Data   *graph.Store[*graph.Data]
	Cycles *graph.Store[*graph.Cycle]
}
