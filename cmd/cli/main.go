package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/cyclegraph/internal/app"
	"github.com/vk/cyclegraph/internal/cli"
	"github.com/vk/cyclegraph/internal/config"
	"github.com/vk/cyclegraph/internal/hclcfg"
	"github.com/vk/cyclegraph/internal/yamlcfg"
)

// main is the entrypoint for the cyclegraph application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	loader, err := loaderFor(appConfig.WorkflowPath)
	if err != nil {
		return err
	}

	return app.NewApp(outW, appConfig, loader).Run(context.Background())
}

// loaderFor selects the config loader matching the definition file's
// extension.
func loaderFor(path string) (config.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return hclcfg.NewLoader(), nil
	case ".yml", ".yaml":
		return yamlcfg.NewLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported workflow definition format %q (want .hcl, .yml or .yaml)", filepath.Ext(path))
	}
}
