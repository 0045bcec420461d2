// Where: internal/generator/renderer.go
// What: Render compose manifests, service configs, and the deployment README.
// Why: All output files come from one embedded, cached template set.
package generator

import (
	"bytes"
	"embed"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/substratelab/labops/internal/config"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateCache sync.Map

type composeTemplateData struct {
	Lab          string
	Node         config.Node
	NamedVolumes []string
}

type prometheusTemplateData struct {
	Nodes          []config.Node
	GatewayAddress string
}

type grafanaTemplateData struct {
	MonitorAddress string
}

type promtailTemplateData struct {
	NodeName    string
	LokiAddress string
}

type readmeTemplateData struct {
	Lab   string
	Nodes []config.Node
}

// RenderCompose renders a node's docker-compose.yml.
func RenderCompose(lab config.LabConfig, node config.Node) (string, error) {
	data := composeTemplateData{
		Lab:          lab.Name,
		Node:         node,
		NamedVolumes: namedVolumes(node),
	}
	return renderTemplate("compose.yml.tmpl", data)
}

// RenderTraefik renders the gateway's static Traefik configuration.
func RenderTraefik() (string, error) {
	return renderTemplate("traefik.yml.tmpl", nil)
}

// RenderPrometheus renders the monitor's scrape configuration covering
// every node's exporter.
func RenderPrometheus(lab config.LabConfig) (string, error) {
	data := prometheusTemplateData{Nodes: lab.Nodes}
	if gateway := lab.FindNode(config.RoleGateway); gateway != nil {
		data.GatewayAddress = gateway.Address
	}
	return renderTemplate("prometheus.yml.tmpl", data)
}

// RenderLoki renders the monitor's Loki configuration.
func RenderLoki() (string, error) {
	return renderTemplate("loki.yml.tmpl", nil)
}

// RenderGrafanaDatasources renders the monitor's Grafana provisioning file
// so a fresh Grafana starts with Prometheus and Loki wired in.
func RenderGrafanaDatasources(lab config.LabConfig) (string, error) {
	data := grafanaTemplateData{}
	if monitor := lab.FindNode(config.RoleMonitor); monitor != nil {
		data.MonitorAddress = monitor.Address
	}
	return renderTemplate("grafana-datasources.yml.tmpl", data)
}

// RenderPromtail renders a node's Promtail configuration pointing at the
// monitor node's Loki.
func RenderPromtail(lab config.LabConfig, node config.Node) (string, error) {
	data := promtailTemplateData{NodeName: node.Name}
	if monitor := lab.FindNode(config.RoleMonitor); monitor != nil {
		data.LokiAddress = monitor.Address
	}
	return renderTemplate("promtail.yml.tmpl", data)
}

// RenderReadme renders the deployment README at the output root.
func RenderReadme(lab config.LabConfig) (string, error) {
	return renderTemplate("readme.md.tmpl", readmeTemplateData{Lab: lab.Name, Nodes: lab.Nodes})
}

// namedVolumes returns the node's compose-managed volume names, sorted.
// Bind mounts (path-like sources) are excluded.
func namedVolumes(node config.Node) []string {
	seen := map[string]struct{}{}
	for _, svc := range node.Services {
		for _, volume := range svc.Volumes {
			source, _, found := strings.Cut(volume, ":")
			if !found || source == "" {
				continue
			}
			if strings.HasPrefix(source, "/") || strings.HasPrefix(source, ".") || strings.HasPrefix(source, "~") {
				continue
			}
			seen[source] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func renderTemplate(name string, data any) (string, error) {
	tmpl, err := loadTemplate(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func loadTemplate(name string) (*template.Template, error) {
	if value, ok := templateCache.Load(name); ok {
		return value.(*template.Template), nil
	}
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, err
	}
	templateCache.Store(name, tmpl)
	return tmpl, nil
}
