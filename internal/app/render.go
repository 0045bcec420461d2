// Where: internal/app/render.go
// What: Render command handler.
// Why: Turn lab.yaml into per-node compose projects and static configs.
package app

import (
	"io"

	"github.com/substratelab/labops/internal/config"
	"github.com/substratelab/labops/internal/generator"
	"github.com/substratelab/labops/internal/ui"
)

func runRender(cli CLI, _ Dependencies, out io.Writer) int {
	console := ui.New(out)

	configPath := config.ResolveConfigPath(cli.Config)
	cfg, err := config.LoadLabConfig(configPath)
	if err != nil {
		return exitWithError(out, err)
	}

	outputDir := resolveOutputDir(cli, cfg, configPath)
	written, err := generator.Stage(cfg, outputDir, resolveEnvPath(cli))
	if err != nil {
		return exitWithError(out, err)
	}

	console.Header("📄", "Rendered "+cfg.Name)
	console.Item("Output", outputDir)
	console.Item("Files", len(written))
	for _, relPath := range written {
		console.ItemPlain(relPath)
	}
	return 0
}

// resolveOutputDir prefers the --output flag over the config's output dir.
func resolveOutputDir(cli CLI, cfg config.LabConfig, configPath string) string {
	if cli.Output != "" {
		return cli.Output
	}
	return cfg.OutputDir(configPath)
}
