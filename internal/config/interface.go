package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads a workflow definition from the given path, translates it
	// into the format-agnostic model and validates it.
	Load(ctx context.Context, path string) (*Workflow, error)
}
