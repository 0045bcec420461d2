// Where: cmd/labops/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"io"
	"os"

	"github.com/substratelab/labops/internal/app"
	"github.com/substratelab/labops/internal/backup"
	"github.com/substratelab/labops/internal/interaction"
	"github.com/substratelab/labops/internal/puller"
)

var newDockerClient = func() (puller.ImageAPIClient, error) {
	return puller.NewDockerClient()
}

// buildDependencies constructs all runtime dependencies required by the CLI.
// It initializes the Docker client, the pull coordinator's puller, and the
// backup client factory. Returns the dependencies, a closer for cleanup, and
// any initialization error.
func buildDependencies() (app.Dependencies, io.Closer, error) {
	client, err := newDockerClient()
	if err != nil {
		return app.Dependencies{}, nil, err
	}

	deps := app.Dependencies{
		Out:             os.Stdout,
		In:              os.Stdin,
		Prompter:        interaction.HuhPrompter{},
		Puller:          puller.DockerPuller{Client: client},
		NewBackupClient: backup.NewClient,
	}

	return deps, asCloser(client), nil
}

// asCloser attempts to cast the client to an io.Closer.
// Returns nil if the client does not implement the Closer interface.
func asCloser(client any) io.Closer {
	if closer, ok := client.(io.Closer); ok {
		return closer
	}
	return nil
}
