// Package app wires the application together: it configures logging, loads
// the workflow definition through a format-specific loader, registers the
// built-in task plugins, unrolls the graph and renders the result.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vk/cyclegraph/internal/builder"
	"github.com/vk/cyclegraph/internal/config"
	"github.com/vk/cyclegraph/internal/ctxlog"
	"github.com/vk/cyclegraph/internal/registry"
	"github.com/vk/cyclegraph/internal/tasks/icon"
	"github.com/vk/cyclegraph/internal/tasks/shell"
)

// App is one application instance.
type App struct {
	out    io.Writer
	cfg    *Config
	loader config.Loader
}

// NewApp creates an application instance writing its result to out and
// reading the workflow definition through the given loader.
func NewApp(out io.Writer, cfg *Config, loader config.Loader) *App {
	return &App{out: out, cfg: cfg, loader: loader}
}

// Run loads, unrolls and renders the workflow.
func (a *App) Run(ctx context.Context) error {
	logger := newLogger(a.cfg.LogLevel, a.cfg.LogFormat, os.Stderr)
	ctx = ctxlog.WithLogger(ctx, logger)

	workflowCfg, err := a.loader.Load(ctx, a.cfg.WorkflowPath)
	if err != nil {
		return err
	}

	reg := registry.New()
	if err := RegisterBuiltins(reg); err != nil {
		return err
	}

	workflow, err := builder.Build(ctx, workflowCfg, reg)
	if err != nil {
		return err
	}

	if err := render(a.out, workflow); err != nil {
		return fmt.Errorf("rendering workflow: %w", err)
	}
	return nil
}

// RegisterBuiltins hooks every built-in task plugin into a registry.
func RegisterBuiltins(r *registry.Registry) error {
	if err := shell.Register(r); err != nil {
		return err
	}
	return icon.Register(r)
}
