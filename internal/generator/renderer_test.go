// Where: internal/generator/renderer_test.go
// What: Tests for template rendering output.
// Why: Rendered manifests must carry images, interpolation refs, and volumes.
package generator

import (
	"strings"
	"testing"

	"github.com/substratelab/labops/internal/config"
)

func TestRenderComposeListsServicesAndVolumes(t *testing.T) {
	cfg := config.DefaultLabConfig("homelab")
	monitor := cfg.FindNode(config.RoleMonitor)
	if monitor == nil {
		t.Fatal("default config has no monitor node")
	}

	out, err := RenderCompose(cfg, *monitor)
	if err != nil {
		t.Fatalf("render compose: %v", err)
	}

	for _, image := range []string{
		config.ImagePrometheus,
		config.ImageLoki,
		config.ImageGrafana,
		config.ImageMinio,
		config.ImagePromtail,
		config.ImageNodeExporter,
	} {
		if !strings.Contains(out, "image: "+image) {
			t.Fatalf("compose missing image %s:\n%s", image, out)
		}
	}

	if !strings.Contains(out, `"${GRAFANA_ADMIN_PASSWORD}"`) {
		t.Fatalf("compose missing env interpolation reference:\n%s", out)
	}
	if !strings.Contains(out, "volumes:\n  grafana-data:") {
		t.Fatalf("compose missing named volume section:\n%s", out)
	}
	if strings.Contains(out, "volumes:\n  ./configs") {
		t.Fatalf("bind mount leaked into named volumes:\n%s", out)
	}
	if !strings.Contains(out, "./configs/grafana-datasources.yml:/etc/grafana/provisioning/datasources/datasources.yml:ro") {
		t.Fatalf("grafana missing datasource provisioning mount:\n%s", out)
	}
}

func TestRenderGrafanaDatasourcesTargetsMonitor(t *testing.T) {
	cfg := config.DefaultLabConfig("homelab")

	out, err := RenderGrafanaDatasources(cfg)
	if err != nil {
		t.Fatalf("render grafana datasources: %v", err)
	}

	monitor := cfg.FindNode(config.RoleMonitor)
	if !strings.Contains(out, "url: http://"+monitor.Address+":9090") {
		t.Fatalf("datasources missing prometheus url:\n%s", out)
	}
	if !strings.Contains(out, "url: http://"+monitor.Address+":3100") {
		t.Fatalf("datasources missing loki url:\n%s", out)
	}
}

func TestRenderComposeTraefikLabels(t *testing.T) {
	cfg := config.LabConfig{
		Name: "homelab",
		Nodes: []config.Node{{
			Name:    "monitor",
			Address: "10.0.0.2",
			Role:    config.RoleMonitor,
			Services: []config.Service{{
				Name:        "grafana",
				Image:       "grafana/grafana:11.1.0",
				TraefikRule: "Host(`grafana.lab.local`)",
			}},
		}},
	}

	out, err := RenderCompose(cfg, cfg.Nodes[0])
	if err != nil {
		t.Fatalf("render compose: %v", err)
	}
	if !strings.Contains(out, `traefik.enable: "true"`) {
		t.Fatalf("missing traefik enable label:\n%s", out)
	}
	if !strings.Contains(out, "traefik.http.routers.grafana.rule:") {
		t.Fatalf("missing traefik rule label:\n%s", out)
	}
}

func TestRenderTraefikExposesMetricsNotDashboard(t *testing.T) {
	out, err := RenderTraefik()
	if err != nil {
		t.Fatalf("render traefik: %v", err)
	}

	if !strings.Contains(out, "entryPoint: metrics") {
		t.Fatalf("traefik config missing metrics entrypoint:\n%s", out)
	}
	if strings.Contains(out, "dashboard") {
		t.Fatalf("traefik config exposes the dashboard:\n%s", out)
	}
}

func TestRenderPrometheusScrapesEveryNode(t *testing.T) {
	cfg := config.DefaultLabConfig("homelab")

	out, err := RenderPrometheus(cfg)
	if err != nil {
		t.Fatalf("render prometheus: %v", err)
	}

	for _, node := range cfg.Nodes {
		if !strings.Contains(out, node.Address+":9100") {
			t.Fatalf("prometheus missing target for %s:\n%s", node.Name, out)
		}
	}
	gateway := cfg.FindNode(config.RoleGateway)
	if !strings.Contains(out, gateway.Address+":8080") {
		t.Fatalf("prometheus missing traefik target:\n%s", out)
	}
}

func TestRenderPromtailPointsAtMonitorLoki(t *testing.T) {
	cfg := config.DefaultLabConfig("homelab")
	worker := cfg.Nodes[len(cfg.Nodes)-1]

	out, err := RenderPromtail(cfg, worker)
	if err != nil {
		t.Fatalf("render promtail: %v", err)
	}

	monitor := cfg.FindNode(config.RoleMonitor)
	if !strings.Contains(out, "http://"+monitor.Address+":3100/loki/api/v1/push") {
		t.Fatalf("promtail missing loki push url:\n%s", out)
	}
	if !strings.Contains(out, "node: "+worker.Name) {
		t.Fatalf("promtail missing node label:\n%s", out)
	}
}

func TestRenderReadmeListsNodes(t *testing.T) {
	cfg := config.DefaultLabConfig("homelab")

	out, err := RenderReadme(cfg)
	if err != nil {
		t.Fatalf("render readme: %v", err)
	}
	for _, node := range cfg.Nodes {
		if !strings.Contains(out, "| "+node.Name+" |") {
			t.Fatalf("readme missing node %s:\n%s", node.Name, out)
		}
	}
}
