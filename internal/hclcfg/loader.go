// Package hclcfg loads workflow definitions written in HCL and translates
// them into the format-agnostic config model.
package hclcfg

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/cyclegraph/internal/config"
	"github.com/vk/cyclegraph/internal/ctxlog"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses, translates and validates one workflow definition file.
func (l *Loader) Load(ctx context.Context, path string) (*config.Workflow, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading HCL workflow definition.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", path, diags)
	}

	var root File
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %w", path, diags)
	}

	w, err := translate(&root)
	if err != nil {
		return nil, fmt.Errorf("translating %s: %w", path, err)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("HCL workflow definition loaded.", "workflow", w.Name)
	return w, nil
}
