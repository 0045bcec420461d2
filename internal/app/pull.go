// Where: internal/app/pull.go
// What: Pull command handler.
// Why: Wire manifest scanning, the confirmation gate, and the coordinator.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/substratelab/labops/internal/config"
	"github.com/substratelab/labops/internal/interaction"
	"github.com/substratelab/labops/internal/manifest"
	"github.com/substratelab/labops/internal/puller"
	"github.com/substratelab/labops/internal/ui"
)

func runPull(cli CLI, deps Dependencies, out io.Writer) int {
	console := ui.New(out)

	configPath := config.ResolveConfigPath(cli.Config)
	cfg, err := config.LoadLabConfig(configPath)
	if err != nil {
		return exitWithError(out, err)
	}

	outputDir := resolveOutputDir(cli, cfg, configPath)
	manifests, err := manifest.FindComposeFiles(outputDir)
	if err != nil {
		return exitWithError(out, err)
	}
	if len(manifests) == 0 {
		console.Warnf("no rendered manifests under %s (run `labops render` first)", outputDir)
		return 0
	}

	images, err := manifest.ScanImages(manifests)
	if err != nil {
		return exitWithError(out, err)
	}
	if len(images) == 0 {
		console.Warn("no image references found in rendered manifests")
		return 0
	}

	settings := pullSettings(cli, cfg)
	console.Header("📦", fmt.Sprintf("%d unique image(s) across %d manifest(s)", len(images), len(manifests)))
	for _, image := range images {
		console.ItemPlain(image)
	}

	if !cli.Pull.Yes {
		proceed, err := interaction.PromptYesNo(deps.In, out, fmt.Sprintf("Pull %d image(s)?", len(images)))
		if err != nil {
			return exitWithError(out, err)
		}
		if !proceed {
			console.ItemPlain("aborted")
			return 0
		}
	}

	coordinator := puller.New(deps.Puller, puller.Options{
		Retries:      settings.Retries,
		RetryBackoff: settings.RetryBackoff(),
		StaggerDelay: settings.StaggerDelay(),
	}, deps.Sleep, console)

	summary, err := coordinator.Run(context.Background(), images)
	if err != nil {
		return exitWithError(out, err)
	}

	console.Header("🏁", "Pull complete")
	console.Item("Pulled", summary.Pulled)
	console.Item("Failed", summary.Failed)
	// Per-image failures are contained; they never fail the run.
	return 0
}

// pullSettings merges lab.yaml pull settings with CLI flag overrides.
func pullSettings(cli CLI, cfg config.LabConfig) config.PullSettings {
	settings := cfg.Pull
	if cli.Pull.Delay > 0 {
		settings.DelaySeconds = cli.Pull.Delay
	}
	if cli.Pull.Retries > 0 {
		settings.Retries = cli.Pull.Retries
	}
	if cli.Pull.Backoff > 0 {
		settings.RetryBackoffSeconds = cli.Pull.Backoff
	}
	return settings.Normalize()
}
