// Where: internal/config/defaults.go
// What: Canonical six-node lab topology.
// Why: labops init must produce a working config without any answers.
package config

import "fmt"

// Default images for the stock services. Pinned tags so every node pulls
// the same versions.
const (
	ImageTraefik      = "traefik:v3.1"
	ImagePrometheus   = "prom/prometheus:v2.53.0"
	ImageLoki         = "grafana/loki:3.1.0"
	ImagePromtail     = "grafana/promtail:3.1.0"
	ImageGrafana      = "grafana/grafana:11.1.0"
	ImageNodeExporter = "prom/node-exporter:v1.8.1"
	ImageMinio        = "minio/minio:RELEASE.2024-06-13T22-53-53Z"
)

// DefaultLabConfig returns the stock deployment: one gateway, one monitor,
// four workers, with the monitoring baseline on every node.
func DefaultLabConfig(name string) LabConfig {
	nodes := []Node{
		{
			Name:    "gateway",
			Address: "192.168.40.10",
			Role:    RoleGateway,
			Services: append([]Service{
				{
					Name:  "traefik",
					Image: ImageTraefik,
					Ports: []string{"80:80", "443:443", "8080:8080"},
					Volumes: []string{
						"./configs/traefik.yml:/etc/traefik/traefik.yml:ro",
						"/var/run/docker.sock:/var/run/docker.sock:ro",
					},
				},
			}, baselineServices()...),
		},
		{
			Name:    "monitor",
			Address: "192.168.40.11",
			Role:    RoleMonitor,
			Services: append([]Service{
				{
					Name:  "prometheus",
					Image: ImagePrometheus,
					Ports: []string{"9090:9090"},
					Volumes: []string{
						"./configs/prometheus.yml:/etc/prometheus/prometheus.yml:ro",
						"prometheus-data:/prometheus",
					},
				},
				{
					Name:  "loki",
					Image: ImageLoki,
					Ports: []string{"3100:3100"},
					Volumes: []string{
						"./configs/loki.yml:/etc/loki/config.yml:ro",
						"loki-data:/loki",
					},
					Command: []string{"-config.file=/etc/loki/config.yml"},
				},
				{
					Name:  "grafana",
					Image: ImageGrafana,
					Ports: []string{"3000:3000"},
					Environment: map[string]string{
						"GF_SECURITY_ADMIN_USER":     "admin",
						"GF_SECURITY_ADMIN_PASSWORD": "${GRAFANA_ADMIN_PASSWORD}",
					},
					Volumes: []string{
						"./configs/grafana-datasources.yml:/etc/grafana/provisioning/datasources/datasources.yml:ro",
						"grafana-data:/var/lib/grafana",
					},
					TraefikRule: "Host(`grafana.lab.local`)",
				},
				{
					Name:  "minio",
					Image: ImageMinio,
					Ports: []string{"9000:9000", "9001:9001"},
					Environment: map[string]string{
						"MINIO_ROOT_USER":     "${MINIO_ROOT_USER}",
						"MINIO_ROOT_PASSWORD": "${MINIO_ROOT_PASSWORD}",
					},
					Volumes: []string{"minio-data:/data"},
					Command: []string{"server", "/data", "--console-address", ":9001"},
				},
			}, baselineServices()...),
		},
	}

	for i := 1; i <= 4; i++ {
		nodes = append(nodes, Node{
			Name:     fmt.Sprintf("worker-%d", i),
			Address:  fmt.Sprintf("192.168.40.%d", 11+i),
			Role:     RoleWorker,
			Services: baselineServices(),
		})
	}

	return LabConfig{
		Version: 1,
		Name:    name,
		Pull: PullSettings{
			DelaySeconds:        DefaultPullDelaySeconds,
			Retries:             DefaultPullRetries,
			RetryBackoffSeconds: DefaultRetryBackoffSeconds,
		},
		Backup: BackupSettings{
			Endpoint: "http://192.168.40.11:9000",
			Bucket:   "labops-backups",
		},
		Nodes: nodes,
	}
}

// baselineServices is the monitoring agent pair deployed on every node.
func baselineServices() []Service {
	return []Service{
		{
			Name:  "node-exporter",
			Image: ImageNodeExporter,
			Ports: []string{"9100:9100"},
		},
		{
			Name:  "promtail",
			Image: ImagePromtail,
			Volumes: []string{
				"./configs/promtail.yml:/etc/promtail/config.yml:ro",
				"/var/log:/var/log:ro",
			},
			Command: []string{"-config.file=/etc/promtail/config.yml"},
		},
	}
}
