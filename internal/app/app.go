// Where: internal/app/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/substratelab/labops/internal/backup"
	"github.com/substratelab/labops/internal/interaction"
	"github.com/substratelab/labops/internal/meta"
	"github.com/substratelab/labops/internal/puller"
	"github.com/substratelab/labops/internal/version"
)

// Dependencies holds all injected dependencies required for CLI command
// execution. This structure enables dependency injection for testing and
// allows swapping implementations of various subsystems.
type Dependencies struct {
	Out             io.Writer
	In              io.Reader
	Prompter        interaction.Prompter
	Puller          puller.ImagePuller
	Sleep           puller.SleepFunc
	NewBackupClient backup.ClientFactory
	Now             func() time.Time
}

// CLI defines the command-line interface structure parsed by Kong.
// It contains global flags and all subcommand definitions.
type CLI struct {
	Config  string `short:"c" help:"Path to lab.yaml (default: ./lab.yaml)"`
	EnvFile string `name:"env-file" help:"Path to .env file (default: ./.env)"`
	Output  string `short:"o" help:"Output directory override"`

	Init    InitCmd    `cmd:"" help:"Create lab.yaml and generate credentials"`
	Render  RenderCmd  `cmd:"" help:"Render node directories, compose files, and configs"`
	Pull    PullCmd    `cmd:"" help:"Pre-pull every image referenced by the rendered manifests"`
	Backup  BackupCmd  `cmd:"" help:"Upload the rendered tree to the backup bucket"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

type VersionCmd struct{}

type InitCmd struct {
	Name  string `help:"Lab name (prompted for when omitted on a TTY)"`
	Force bool   `help:"Overwrite an existing lab.yaml"`
}

type RenderCmd struct{}

type PullCmd struct {
	Yes     bool `short:"y" help:"Skip confirmation prompt"`
	Delay   int  `help:"Seconds to wait between images (overrides lab.yaml)"`
	Retries int  `help:"Max attempts per image (overrides lab.yaml)"`
	Backoff int  `help:"Seconds between attempts on the same image (overrides lab.yaml)"`
}

type BackupCmd struct {
	Endpoint string `help:"S3-compatible endpoint (overrides lab.yaml)"`
	Bucket   string `help:"Bucket name (overrides lab.yaml)"`
}

// Run is the main entry point for CLI command execution.
// It parses the command-line arguments, identifies the requested command,
// and dispatches to the appropriate handler. Returns 0 on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}

	cli := CLI{}
	parser, err := kong.New(&cli, kong.Name(meta.AppName))
	if err != nil {
		return exitWithError(out, err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return exitWithError(out, err)
	}

	// Load environment file if provided or if .env exists in current directory
	if cli.EnvFile != "" {
		if _, statErr := os.Stat(cli.EnvFile); statErr == nil {
			if err := godotenv.Load(cli.EnvFile); err != nil {
				fmt.Fprintf(out, "Warning: failed to load env file %s: %v\n", cli.EnvFile, err)
			}
		}
	} else if _, statErr := os.Stat(meta.EnvFile); statErr == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(out, "Warning: failed to load .env: %v\n", err)
		}
	}

	command := ctx.Command()
	if exitCode, handled := dispatchCommand(command, cli, deps, out); handled {
		return exitCode
	}

	fmt.Fprintln(out, "unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies, io.Writer) int

func dispatchCommand(command string, cli CLI, deps Dependencies, out io.Writer) (int, bool) {
	handlers := map[string]commandHandler{
		"init":    runInit,
		"render":  runRender,
		"pull":    runPull,
		"backup":  runBackup,
		"version": func(_ CLI, _ Dependencies, out io.Writer) int { return runVersion(out) },
	}

	if handler, ok := handlers[command]; ok {
		return handler(cli, deps, out), true
	}
	return 1, false
}

// runVersion prints the version information of the CLI.
func runVersion(out io.Writer) int {
	fmt.Fprintln(out, version.GetVersion())
	return 0
}

func exitWithError(out io.Writer, err error) int {
	fmt.Fprintln(out, err)
	return 1
}
