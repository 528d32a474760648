package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/cyclegraph/internal/cycling"
)

func validWorkflow() *Workflow {
	return &Workflow{
		Name: "test",
		Parameters: []*Parameter{
			{Name: "foo", Values: []any{0, 1}},
		},
		Cycles: []*Cycle{{
			Name:    "main",
			Cycling: cycling.OneOff{},
			Tasks: []*CycleTask{{
				Name: "sim",
				Inputs: []*CycleTaskInput{
					{TargetNodes: TargetNodes{Name: "init"}, Port: "ic"},
				},
				Outputs: []*CycleTaskOutput{
					{Name: "result", Port: "out"},
				},
			}},
		}},
		Tasks: []*Task{
			{Name: "sim", Plugin: "shell", Parameters: []string{"foo"}},
		},
		Data: Data{
			Available: []*DataItem{{Name: "init"}},
			Generated: []*DataItem{{Name: "result", Parameters: []string{"foo"}}},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validWorkflow().Validate())
	})

	t.Run("duplicate parameter", func(t *testing.T) {
		w := validWorkflow()
		w.Parameters = append(w.Parameters, &Parameter{Name: "foo", Values: []any{2}})
		assert.ErrorContains(t, w.Validate(), `parameter "foo" declared twice`)
	})

	t.Run("parameter without values", func(t *testing.T) {
		w := validWorkflow()
		w.Parameters[0].Values = nil
		assert.ErrorContains(t, w.Validate(), `parameter "foo" has no values`)
	})

	t.Run("missing plugin tag", func(t *testing.T) {
		w := validWorkflow()
		w.Tasks[0].Plugin = ""
		assert.ErrorContains(t, w.Validate(), `task "sim" has no plugin tag`)
	})

	t.Run("undeclared parameter reference", func(t *testing.T) {
		w := validWorkflow()
		w.Tasks[0].Parameters = []string{"bar"}
		assert.ErrorContains(t, w.Validate(), `task "sim" references undeclared parameter "bar"`)
	})

	t.Run("cycle references undeclared task", func(t *testing.T) {
		w := validWorkflow()
		w.Cycles[0].Tasks[0].Name = "ghost"
		assert.ErrorContains(t, w.Validate(), `cycle "main" references undeclared task "ghost"`)
	})

	t.Run("input references undeclared data", func(t *testing.T) {
		w := validWorkflow()
		w.Cycles[0].Tasks[0].Inputs[0].Name = "mystery"
		assert.ErrorContains(t, w.Validate(), `input references undeclared data "mystery"`)
	})

	t.Run("output must be generated data", func(t *testing.T) {
		w := validWorkflow()
		w.Cycles[0].Tasks[0].Outputs[0].Name = "init"
		assert.ErrorContains(t, w.Validate(), `output "init" is not declared as generated data`)
	})

	t.Run("wait-on references undeclared task", func(t *testing.T) {
		w := validWorkflow()
		w.Cycles[0].Tasks[0].WaitOn = []*CycleTaskWaitOn{{TargetNodes: TargetNodes{Name: "ghost"}}}
		assert.ErrorContains(t, w.Validate(), `waits on undeclared task "ghost"`)
	})

	t.Run("invalid parameter mode", func(t *testing.T) {
		w := validWorkflow()
		w.Cycles[0].Tasks[0].Inputs[0].Parameters = map[string]ParamMode{"foo": "sometimes"}
		assert.ErrorContains(t, w.Validate(), `mode must be "all" or "single", got "sometimes"`)
	})

	t.Run("missing cycling policy", func(t *testing.T) {
		w := validWorkflow()
		w.Cycles[0].Cycling = nil
		assert.ErrorContains(t, w.Validate(), `cycle "main" has no cycling policy`)
	})

	t.Run("findings are collected", func(t *testing.T) {
		w := validWorkflow()
		w.Tasks[0].Plugin = ""
		w.Parameters[0].Values = nil
		err := w.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no plugin tag")
		assert.Contains(t, err.Error(), "has no values")
	})
}
