package icon

import (
	"testing"

	"github.com/rickb777/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/cyclegraph/internal/config"
	"github.com/vk/cyclegraph/internal/cycling"
	"github.com/vk/cyclegraph/internal/graph"
)

func iconConfig() *config.Task {
	return &config.Task{
		Name:   "icon-run",
		Plugin: Tag,
		Icon: &config.IconSpec{
			Bin: "/opt/icon/bin/icon",
			Namelists: []*config.Namelist{
				{
					Path: "configs/icon_master.namelist",
					Specs: map[string]map[string]any{
						"master_model_nml": {"model_namelist_filename": "NAMELIST_exp"},
					},
				},
				{
					Path: "configs/NAMELIST_exp",
					Specs: map[string]map[string]any{
						"run_nml": {"ltestcase": false},
					},
				},
			},
		},
	}
}

func cyclePoint() cycling.DateCyclePoint {
	start, _ := cycling.ParseDate("2026-01-01")
	stop, _ := cycling.ParseDate("2027-01-01")
	mid, _ := cycling.ParseDate("2026-07-01")
	return cycling.DateCyclePoint{
		StartDate:      start,
		StopDate:       stop,
		ChunkStartDate: start,
		ChunkStopDate:  mid,
		Period:         period.MustParse("P6M"),
	}
}

func newIconTask(t *testing.T, cfg *config.Task, point cycling.CyclePoint, inputPorts []string, inputs map[string][]*graph.Data) *Task {
	t.Helper()
	base := graph.NewTask(cfg, nil, point, inputPorts, inputs, nil, nil, nil)
	node, err := newTask(base, cfg)
	require.NoError(t, err)
	return node.(*Task)
}

func TestNewTask(t *testing.T) {
	t.Run("detects master and model namelists", func(t *testing.T) {
		task := newIconTask(t, iconConfig(), cyclePoint(), nil, nil)
		require.NotNil(t, task.MasterNamelist())
		require.NotNil(t, task.ModelNamelist())
		assert.Equal(t, "icon_master.namelist", task.MasterNamelist().Name)
		assert.Equal(t, "NAMELIST_exp", task.ModelNamelist().Name)
	})

	t.Run("folds the cycle point into the master namelist", func(t *testing.T) {
		task := newIconTask(t, iconConfig(), cyclePoint(), nil, nil)

		start, _ := task.MasterNamelist().Lookup("master_time_control_nml", "experimentStartDate")
		assert.Equal(t, "2026-01-01T00:00:00Z", start)
		stop, _ := task.MasterNamelist().Lookup("master_time_control_nml", "experimentStopDate")
		assert.Equal(t, "2027-01-01T00:00:00Z", stop)
		interval, _ := task.MasterNamelist().Lookup("master_time_control_nml", "restarttimeintval")
		assert.Equal(t, "P6M", interval)
	})

	t.Run("cold start", func(t *testing.T) {
		task := newIconTask(t, iconConfig(), cyclePoint(), nil, nil)
		assert.False(t, task.IsRestart())
		lrestart, _ := task.MasterNamelist().Lookup("master_nml", "lrestart")
		assert.Equal(t, false, lrestart)
	})

	t.Run("restart run", func(t *testing.T) {
		restart := graph.NewData(&config.DataItem{Name: "restart"}, graph.DataGenerated, nil)
		task := newIconTask(t, iconConfig(), cyclePoint(),
			[]string{"restart_file"}, map[string][]*graph.Data{"restart_file": {restart}})

		assert.True(t, task.IsRestart())
		lrestart, _ := task.MasterNamelist().Lookup("master_nml", "lrestart")
		assert.Equal(t, true, lrestart)
		read, _ := task.MasterNamelist().Lookup("master_nml", "read_restart_namelists")
		assert.Equal(t, true, read)
	})

	t.Run("instance updates never touch the declaration", func(t *testing.T) {
		cfg := iconConfig()
		newIconTask(t, cfg, cyclePoint(), nil, nil)
		_, declared := cfg.Icon.Namelists[0].Specs["master_time_control_nml"]
		assert.False(t, declared)
	})
}

func TestNewTaskErrors(t *testing.T) {
	build := func(cfg *config.Task, point cycling.CyclePoint) error {
		base := graph.NewTask(cfg, nil, point, nil, nil, nil, nil, nil)
		_, err := newTask(base, cfg)
		return err
	}

	t.Run("missing icon spec", func(t *testing.T) {
		err := build(&config.Task{Name: "icon-run", Plugin: Tag}, cyclePoint())
		assert.ErrorContains(t, err, "requires an icon spec")
	})

	t.Run("missing master namelist", func(t *testing.T) {
		cfg := iconConfig()
		cfg.Icon.Namelists = cfg.Icon.Namelists[1:]
		err := build(cfg, cyclePoint())
		assert.ErrorContains(t, err, "could not find master namelist")
	})

	t.Run("master does not name a model namelist", func(t *testing.T) {
		cfg := iconConfig()
		cfg.Icon.Namelists[0].Specs = nil
		err := build(cfg, cyclePoint())
		assert.ErrorContains(t, err, "no model namelist filename in master namelist")
	})

	t.Run("model namelist not declared", func(t *testing.T) {
		cfg := iconConfig()
		cfg.Icon.Namelists = cfg.Icon.Namelists[:1]
		err := build(cfg, cyclePoint())
		assert.ErrorContains(t, err, `could not find model namelist "NAMELIST_exp"`)
	})

	t.Run("one-off cycle", func(t *testing.T) {
		err := build(iconConfig(), cycling.OneOffPoint{})
		assert.ErrorContains(t, err, "must belong to a date-cycled cycle")
	})
}

func TestNamelist(t *testing.T) {
	nl := &Namelist{Name: "NAMELIST_exp"}

	_, ok := nl.Lookup("run_nml", "ltestcase")
	assert.False(t, ok)

	nl.Set("run_nml", "ltestcase", false)
	v, ok := nl.Lookup("run_nml", "ltestcase")
	require.True(t, ok)
	assert.Equal(t, false, v)
}
