package builder

import (
	"context"
	"testing"
	"time"

	"github.com/rickb777/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/cyclegraph/internal/config"
	"github.com/vk/cyclegraph/internal/cycling"
	"github.com/vk/cyclegraph/internal/graph"
	"github.com/vk/cyclegraph/internal/registry"
)

func date(s string) time.Time {
	d, err := cycling.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	err := reg.RegisterTask("test", func(base *graph.Task, cfg *config.Task) (graph.TaskNode, error) {
		return base, nil
	})
	require.NoError(t, err)
	return reg
}

// simWorkflow declares one parameterized task cycling twice over a year,
// feeding its previous chunk's output back in as a restart and waiting on
// its previous instance.
func simWorkflow(t *testing.T) *config.Workflow {
	t.Helper()
	cyc, err := cycling.NewDateCycling(date("2026-01-01"), date("2027-01-01"), period.MustParse("P6M"))
	require.NoError(t, err)

	lagged := config.TargetNodes{
		Name:        "result",
		TargetCycle: cycling.LagList{Lags: []period.Period{period.MustParse("-P6M")}},
		When:        cycling.BeforeAfterDate{After: datePtr("2026-01-01")},
		Parameters:  map[string]config.ParamMode{"foo": config.ParamSingle},
	}

	return &config.Workflow{
		Name: "sim-test",
		Parameters: []*config.Parameter{
			{Name: "foo", Values: []any{0, 1}},
		},
		Cycles: []*config.Cycle{{
			Name:    "main",
			Cycling: cyc,
			Tasks: []*config.CycleTask{{
				Name: "sim",
				Inputs: []*config.CycleTaskInput{
					{TargetNodes: config.TargetNodes{Name: "init"}, Port: "ic"},
					{TargetNodes: lagged, Port: "restart"},
				},
				Outputs: []*config.CycleTaskOutput{
					{Name: "result", Port: "out"},
				},
				WaitOn: []*config.CycleTaskWaitOn{{
					TargetNodes: config.TargetNodes{
						Name:        "sim",
						TargetCycle: cycling.LagList{Lags: []period.Period{period.MustParse("-P6M")}},
						When:        cycling.BeforeAfterDate{After: datePtr("2026-01-01")},
						Parameters:  map[string]config.ParamMode{"foo": config.ParamSingle},
					},
				}},
			}},
		}},
		Tasks: []*config.Task{
			{Name: "sim", Plugin: "test", Parameters: []string{"foo"}},
		},
		Data: config.Data{
			Available: []*config.DataItem{
				{Name: "init", Src: "/data/init"},
			},
			Generated: []*config.DataItem{
				{Name: "result", Src: "out.nc", Parameters: []string{"foo"}},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	w, err := Build(context.Background(), simWorkflow(t), testRegistry(t))
	require.NoError(t, err)

	tasks := w.Tasks.Items()
	require.Len(t, tasks, 4)

	t.Run("instances span the parameter and date axes", func(t *testing.T) {
		for _, task := range tasks {
			_, ok := task.Coordinates().Value("foo")
			assert.True(t, ok)
			_, dated := task.Coordinates().Date()
			assert.True(t, dated)
		}
		d0, _ := tasks[0].Coordinates().Date()
		d3, _ := tasks[3].Coordinates().Date()
		assert.Equal(t, date("2026-01-01"), d0)
		assert.Equal(t, date("2026-07-01"), d3)
	})

	t.Run("data slots created for every output combination", func(t *testing.T) {
		// one available item plus one result per task instance
		assert.Len(t, w.Data.Items(), 5)
	})

	t.Run("available data resolves into every instance", func(t *testing.T) {
		for _, task := range tasks {
			items := task.Base().Input("ic")
			require.Len(t, items, 1)
			assert.Equal(t, "init", items[0].Name())
		}
	})

	t.Run("lagged input inactive on the first chunk", func(t *testing.T) {
		for _, task := range tasks[:2] {
			assert.Contains(t, task.Base().InputPorts(), "restart")
			assert.Empty(t, task.Base().Input("restart"))
		}
	})

	t.Run("lagged input resolves on the second chunk", func(t *testing.T) {
		for _, task := range tasks[2:] {
			items := task.Base().Input("restart")
			require.Len(t, items, 1)
			d, _ := items[0].Coordinates().Date()
			assert.Equal(t, date("2026-01-01"), d)
			foo, _ := task.Coordinates().Value("foo")
			got, _ := items[0].Coordinates().Value("foo")
			assert.Equal(t, foo, got)
		}
	})

	t.Run("wait-on links to the previous instance with the same parameter", func(t *testing.T) {
		for _, task := range tasks[:2] {
			assert.Empty(t, task.Base().WaitOn())
		}
		for _, task := range tasks[2:] {
			deps := task.Base().WaitOn()
			require.Len(t, deps, 1)
			d, _ := deps[0].Coordinates().Date()
			assert.Equal(t, date("2026-01-01"), d)
			foo, _ := task.Coordinates().Value("foo")
			got, _ := deps[0].Coordinates().Value("foo")
			assert.Equal(t, foo, got)
		}
	})

	t.Run("one cycle item per point", func(t *testing.T) {
		cycles := w.Cycles.Items()
		require.Len(t, cycles, 2)
		for _, c := range cycles {
			assert.Equal(t, "main", c.Name())
			assert.Len(t, c.Tasks(), 2)
		}
		d, _ := cycles[1].Coordinates().Date()
		assert.Equal(t, date("2026-07-01"), d)
	})

	t.Run("outputs point at the pre-created slots", func(t *testing.T) {
		for _, task := range tasks {
			items := task.Base().Output("out")
			require.Len(t, items, 1)
			assert.Equal(t, task.Coordinates(), items[0].Coordinates())
			assert.Equal(t, graph.DataGenerated, items[0].Kind())
		}
	})
}

func TestBuildErrors(t *testing.T) {
	t.Run("unregistered plugin", func(t *testing.T) {
		cfg := simWorkflow(t)
		cfg.Tasks[0].Plugin = "mpi"
		_, err := Build(context.Background(), cfg, testRegistry(t))
		assert.ErrorContains(t, err, `task plugin "mpi" is not supported`)
	})

	t.Run("output not declared as generated", func(t *testing.T) {
		cfg := simWorkflow(t)
		cfg.Cycles[0].Tasks[0].Outputs[0].Name = "mystery"
		_, err := Build(context.Background(), cfg, testRegistry(t))
		assert.ErrorContains(t, err, `output "mystery" is not declared as generated data`)
	})

	t.Run("cycle references undeclared task", func(t *testing.T) {
		cfg := simWorkflow(t)
		cfg.Cycles[0].Tasks[0].Name = "ghost"
		_, err := Build(context.Background(), cfg, testRegistry(t))
		assert.ErrorContains(t, err, `undeclared task "ghost"`)
	})

	t.Run("unguarded lag before the first point", func(t *testing.T) {
		cfg := simWorkflow(t)
		cfg.Cycles[0].Tasks[0].Inputs[1].When = nil
		_, err := Build(context.Background(), cfg, testRegistry(t))
		assert.ErrorContains(t, err, "no item at coordinates")
	})
}

func TestIterCoordinates(t *testing.T) {
	cfg := &config.Workflow{
		Parameters: []*config.Parameter{
			{Name: "foo", Values: []any{0, 1}},
			{Name: "bar", Values: []any{"a", "b", "c"}},
		},
	}

	t.Run("no parameters, one-off point", func(t *testing.T) {
		combos, err := iterCoordinates(cfg, nil, cycling.OneOffPoint{})
		require.NoError(t, err)
		require.Len(t, combos, 1)
		assert.Empty(t, combos[0])
	})

	t.Run("product in reference order, last axis fastest", func(t *testing.T) {
		combos, err := iterCoordinates(cfg, []string{"foo", "bar"}, cycling.OneOffPoint{})
		require.NoError(t, err)
		require.Len(t, combos, 6)
		first, _ := combos[0].Value("bar")
		second, _ := combos[1].Value("bar")
		assert.Equal(t, "a", first)
		assert.Equal(t, "b", second)
		foo0, _ := combos[0].Value("foo")
		foo5, _ := combos[5].Value("foo")
		assert.Equal(t, 0, foo0)
		assert.Equal(t, 1, foo5)
	})

	t.Run("dated point appends the chunk start", func(t *testing.T) {
		point := cycling.DateCyclePoint{ChunkStartDate: date("2026-01-01")}
		combos, err := iterCoordinates(cfg, []string{"foo"}, point)
		require.NoError(t, err)
		require.Len(t, combos, 2)
		d, ok := combos[0].Date()
		require.True(t, ok)
		assert.Equal(t, date("2026-01-01"), d)
	})

	t.Run("undeclared parameter", func(t *testing.T) {
		_, err := iterCoordinates(cfg, []string{"baz"}, cycling.OneOffPoint{})
		assert.ErrorContains(t, err, `undeclared parameter "baz"`)
	})
}
