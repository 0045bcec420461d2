// Where: internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep naming and layout conventions in one place.
package meta

const (
	// Project Identity
	AppName   = "labops"
	Slug      = "labops"
	EnvPrefix = "LABOPS"

	// Directory Layout
	ConfigFile = "lab.yaml"
	EnvFile    = ".env"
	OutputDir  = "deploy"
	NodesDir   = "nodes"
	ConfigsDir = "configs"
)
