// Where: internal/generator/stage.go
// What: Scaffold the output directory layout and write rendered files.
// Why: Keep filesystem effects separate from template rendering.
package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/substratelab/labops/internal/config"
	"github.com/substratelab/labops/internal/meta"
)

// Stage renders the full deployment tree under outputDir and returns the
// written paths relative to outputDir. When envPath names an existing file
// it is copied into every node directory so compose interpolation works on
// the target host.
func Stage(cfg config.LabConfig, outputDir, envPath string) ([]string, error) {
	var written []string

	write := func(relPath, content string) error {
		fullPath := filepath.Join(outputDir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			return err
		}
		written = append(written, relPath)
		return nil
	}

	envPayload, err := readOptional(envPath)
	if err != nil {
		return nil, err
	}

	for _, node := range cfg.Nodes {
		nodeDir := filepath.Join(meta.NodesDir, node.Name)
		configsDir := filepath.Join(nodeDir, meta.ConfigsDir)

		compose, err := RenderCompose(cfg, node)
		if err != nil {
			return nil, fmt.Errorf("render compose for %s: %w", node.Name, err)
		}
		if err := write(filepath.Join(nodeDir, "docker-compose.yml"), compose); err != nil {
			return nil, err
		}

		promtail, err := RenderPromtail(cfg, node)
		if err != nil {
			return nil, fmt.Errorf("render promtail for %s: %w", node.Name, err)
		}
		if err := write(filepath.Join(configsDir, "promtail.yml"), promtail); err != nil {
			return nil, err
		}

		switch node.Role {
		case config.RoleGateway:
			traefik, err := RenderTraefik()
			if err != nil {
				return nil, fmt.Errorf("render traefik: %w", err)
			}
			if err := write(filepath.Join(configsDir, "traefik.yml"), traefik); err != nil {
				return nil, err
			}
		case config.RoleMonitor:
			prometheus, err := RenderPrometheus(cfg)
			if err != nil {
				return nil, fmt.Errorf("render prometheus: %w", err)
			}
			if err := write(filepath.Join(configsDir, "prometheus.yml"), prometheus); err != nil {
				return nil, err
			}

			loki, err := RenderLoki()
			if err != nil {
				return nil, fmt.Errorf("render loki: %w", err)
			}
			if err := write(filepath.Join(configsDir, "loki.yml"), loki); err != nil {
				return nil, err
			}

			datasources, err := RenderGrafanaDatasources(cfg)
			if err != nil {
				return nil, fmt.Errorf("render grafana datasources: %w", err)
			}
			if err := write(filepath.Join(configsDir, "grafana-datasources.yml"), datasources); err != nil {
				return nil, err
			}
		}

		if envPayload != "" {
			if err := write(filepath.Join(nodeDir, meta.EnvFile), envPayload); err != nil {
				return nil, err
			}
		}
	}

	readme, err := RenderReadme(cfg)
	if err != nil {
		return nil, fmt.Errorf("render readme: %w", err)
	}
	if err := write("README.md", readme); err != nil {
		return nil, err
	}

	return written, nil
}

func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(payload), nil
}
