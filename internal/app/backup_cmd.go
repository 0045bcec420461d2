// Where: internal/app/backup_cmd.go
// What: Backup command handler.
// Why: Push the rendered tree to the lab's S3-compatible storage.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/substratelab/labops/internal/backup"
	"github.com/substratelab/labops/internal/config"
	"github.com/substratelab/labops/internal/secrets"
	"github.com/substratelab/labops/internal/ui"
)

func runBackup(cli CLI, deps Dependencies, out io.Writer) int {
	console := ui.New(out)

	configPath := config.ResolveConfigPath(cli.Config)
	cfg, err := config.LoadLabConfig(configPath)
	if err != nil {
		return exitWithError(out, err)
	}

	endpoint := cli.Backup.Endpoint
	if endpoint == "" {
		endpoint = cfg.Backup.Endpoint
	}
	bucket := cli.Backup.Bucket
	if bucket == "" {
		bucket = cfg.Backup.Bucket
	}
	if endpoint == "" || bucket == "" {
		return exitWithError(out, fmt.Errorf("backup endpoint and bucket are required (set backup: in %s)", configPath))
	}

	outputDir := resolveOutputDir(cli, cfg, configPath)
	if _, err := os.Stat(outputDir); err != nil {
		return exitWithError(out, fmt.Errorf("nothing to back up, run `labops render` first: %w", err))
	}

	factory := deps.NewBackupClient
	if factory == nil {
		factory = backup.NewClient
	}
	ctx := context.Background()
	client, err := factory(ctx, endpoint, os.Getenv(secrets.KeyMinioRootUser), os.Getenv(secrets.KeyMinioRootPassword))
	if err != nil {
		return exitWithError(out, err)
	}

	uploader := backup.Uploader{Client: client, Now: deps.Now}
	count, err := uploader.Upload(ctx, bucket, cfg.Name, outputDir, console)
	if err != nil {
		return exitWithError(out, err)
	}

	console.Header("💾", "Backup complete")
	console.Item("Endpoint", endpoint)
	console.Item("Bucket", bucket)
	console.Item("Objects", count)
	return 0
}
