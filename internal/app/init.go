// Where: internal/app/init.go
// What: Init command handler.
// Why: Produce lab.yaml and a credential .env for a fresh lab.
package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/substratelab/labops/internal/config"
	"github.com/substratelab/labops/internal/interaction"
	"github.com/substratelab/labops/internal/meta"
	"github.com/substratelab/labops/internal/secrets"
	"github.com/substratelab/labops/internal/ui"
)

const defaultLabName = "homelab"

func runInit(cli CLI, deps Dependencies, out io.Writer) int {
	console := ui.New(out)
	configPath := config.ResolveConfigPath(cli.Config)

	if _, err := os.Stat(configPath); err == nil && !cli.Init.Force {
		return exitWithError(out, fmt.Errorf("%s already exists (use --force to overwrite)", configPath))
	}

	name := strings.TrimSpace(cli.Init.Name)
	if name == "" {
		name = promptLabName(deps)
	}

	cfg := config.DefaultLabConfig(name)
	if err := config.SaveLabConfig(configPath, cfg); err != nil {
		return exitWithError(out, err)
	}

	console.Header("🧪", "Initialized lab "+name)
	console.Item("Config", configPath)
	console.Item("Nodes", len(cfg.Nodes))

	envPath := resolveEnvPath(cli)
	if _, err := os.Stat(envPath); err == nil {
		// Existing secrets are sticky; never rotate them on re-init.
		console.Item("Credentials", envPath+" (kept)")
		return 0
	}

	if err := secrets.WriteEnvFile(envPath, secrets.Generate()); err != nil {
		return exitWithError(out, err)
	}
	console.Item("Credentials", envPath+" (generated)")
	return 0
}

// promptLabName asks for a lab name when running interactively and falls
// back to the default otherwise.
func promptLabName(deps Dependencies) string {
	if deps.Prompter == nil || !interaction.IsTerminal(os.Stdin) {
		return defaultLabName
	}
	name, err := deps.Prompter.Input("Lab name", defaultLabName)
	if err != nil || strings.TrimSpace(name) == "" {
		return defaultLabName
	}
	return strings.TrimSpace(name)
}

func resolveEnvPath(cli CLI) string {
	if cli.EnvFile != "" {
		return cli.EnvFile
	}
	return meta.EnvFile
}
