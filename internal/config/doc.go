// Package config defines the format-agnostic workflow configuration model,
// along with the Loader interface for reading it from various sources.
//
// The config.Workflow tree is the single source of truth for the builder
// package. Concrete loaders, such as for HCL or YAML, live in separate
// packages and translate their native syntax into this model.
package config
