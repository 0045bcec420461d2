// Where: internal/config/lab.go
// What: lab.yaml load/save helpers and the deployment model.
// Why: One declarative file describes the whole lab topology.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/substratelab/labops/internal/meta"
	"gopkg.in/yaml.v3"
)

// Node roles recognized by the renderer.
const (
	RoleGateway = "gateway"
	RoleMonitor = "monitor"
	RoleWorker  = "worker"
)

// LabConfig represents the lab.yaml deployment description.
type LabConfig struct {
	Version int            `yaml:"version"`
	Name    string         `yaml:"name"`
	Output  string         `yaml:"output,omitempty"`
	Pull    PullSettings   `yaml:"pull,omitempty"`
	Backup  BackupSettings `yaml:"backup,omitempty"`
	Nodes   []Node         `yaml:"nodes"`
}

// PullSettings configures the image pull coordinator.
type PullSettings struct {
	DelaySeconds        int `yaml:"pull_delay_seconds,omitempty"`
	Retries             int `yaml:"pull_retries,omitempty"`
	RetryBackoffSeconds int `yaml:"retry_backoff_seconds,omitempty"`
}

const (
	DefaultPullDelaySeconds    = 6
	DefaultPullRetries         = 2
	DefaultRetryBackoffSeconds = 3
)

// Normalize fills unset pull settings with defaults. An unset or
// non-positive retry count is indistinguishable from absent in YAML and
// takes the default; the coordinator separately enforces a minimum of one
// attempt per image.
func (p PullSettings) Normalize() PullSettings {
	if p.DelaySeconds <= 0 {
		p.DelaySeconds = DefaultPullDelaySeconds
	}
	if p.Retries < 1 {
		p.Retries = DefaultPullRetries
	}
	if p.RetryBackoffSeconds <= 0 {
		p.RetryBackoffSeconds = DefaultRetryBackoffSeconds
	}
	return p
}

// StaggerDelay returns the pause inserted between successive image pulls.
func (p PullSettings) StaggerDelay() time.Duration {
	return time.Duration(p.DelaySeconds) * time.Second
}

// RetryBackoff returns the pause between attempts on the same image.
func (p PullSettings) RetryBackoff() time.Duration {
	return time.Duration(p.RetryBackoffSeconds) * time.Second
}

// BackupSettings configures the S3-compatible backup target.
type BackupSettings struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	Bucket   string `yaml:"bucket,omitempty"`
}

// Node describes one host in the lab.
type Node struct {
	Name     string    `yaml:"name"`
	Address  string    `yaml:"address"`
	Role     string    `yaml:"role"`
	Services []Service `yaml:"services,omitempty"`
}

// Service describes one container on a node.
type Service struct {
	Name        string            `yaml:"name"`
	Image       string            `yaml:"image"`
	Ports       []string          `yaml:"ports,omitempty"`
	Volumes     []string          `yaml:"volumes,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	Command     []string          `yaml:"command,omitempty"`
	TraefikRule string            `yaml:"traefik_rule,omitempty"`
}

// FindNode returns the first node with the given role, or nil.
func (c LabConfig) FindNode(role string) *Node {
	for i := range c.Nodes {
		if c.Nodes[i].Role == role {
			return &c.Nodes[i]
		}
	}
	return nil
}

// OutputDir returns the render root, defaulting relative to the config file.
func (c LabConfig) OutputDir(configPath string) string {
	out := strings.TrimSpace(c.Output)
	if out == "" {
		out = meta.OutputDir
	}
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(filepath.Dir(configPath), out)
}

// ResolveConfigPath picks the lab.yaml location from the flag, the
// LABOPS_CONFIG environment variable, or the working directory.
func ResolveConfigPath(flagValue string) string {
	if path := strings.TrimSpace(flagValue); path != "" {
		return path
	}
	if path := strings.TrimSpace(os.Getenv(meta.EnvPrefix + "_CONFIG")); path != "" {
		return path
	}
	return meta.ConfigFile
}

// LoadLabConfig reads, schema-validates, and parses a lab.yaml file.
func LoadLabConfig(path string) (LabConfig, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return LabConfig{}, err
	}

	if err := ValidateLabConfig(payload); err != nil {
		return LabConfig{}, fmt.Errorf("%s: %w", path, err)
	}

	var cfg LabConfig
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return LabConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// SaveLabConfig writes a LabConfig to the specified path.
func SaveLabConfig(path string, cfg LabConfig) error {
	payload, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, payload, 0o644)
}
