package builder

import (
	"fmt"

	"github.com/vk/cyclegraph/internal/config"
	"github.com/vk/cyclegraph/internal/cycling"
	"github.com/vk/cyclegraph/internal/graph"
)

// iterCoordinates expands the coordinate combinations of one declaration:
// the Cartesian product of the referenced parameter axes, in reference
// order, combined with the cycle point's chunk start date when the point is
// dated. The last axis varies fastest.
func iterCoordinates(cfg *config.Workflow, paramRefs []string, point cycling.CyclePoint) ([]graph.Coordinates, error) {
	type axis struct {
		dim    string
		values []any
	}
	axes := make([]axis, 0, len(paramRefs)+1)
	for _, ref := range paramRefs {
		p, ok := cfg.Parameter(ref)
		if !ok {
			return nil, fmt.Errorf("undeclared parameter %q", ref)
		}
		axes = append(axes, axis{dim: p.Name, values: p.Values})
	}
	if dated, ok := point.(cycling.DateCyclePoint); ok {
		axes = append(axes, axis{dim: graph.DimDate, values: []any{dated.ChunkStartDate}})
	}

	combos := []graph.Coordinates{{}}
	for _, ax := range axes {
		next := make([]graph.Coordinates, 0, len(combos)*len(ax.values))
		for _, combo := range combos {
			for _, v := range ax.values {
				extended := make(graph.Coordinates, len(combo), len(combo)+1)
				copy(extended, combo)
				next = append(next, append(extended, graph.Coordinate{Dim: ax.dim, Value: v}))
			}
		}
		combos = next
	}
	return combos, nil
}
