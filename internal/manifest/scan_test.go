// Where: internal/manifest/scan_test.go
// What: Tests for image extraction and ordered deduplication.
// Why: Pull order and uniqueness drive the coordinator's attempt set.
package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestExtractValue(t *testing.T) {
	cases := []struct {
		name  string
		line  string
		want  string
		match bool
	}{
		{"plain", "image: foo:1", "foo:1", true},
		{"indented", "    image: nginx:1.27", "nginx:1.27", true},
		{"double-quoted", `image: "bar:2"`, "bar:2", true},
		{"single-quoted", "image: 'grafana/loki:3.1.0'", "grafana/loki:3.1.0", true},
		{"registry-path", "  image: registry.lab.local:5000/app:v2  ", "registry.lab.local:5000/app:v2", true},
		{"comment", "# image: ghost:1", "", false},
		{"other-key", "container_name: traefik", "", false},
		{"key-without-value", "image:", "", false},
		{"blank", "   ", "", false},
		{"mismatched-quotes-kept", `image: "odd'`, `"odd'`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractValue(tc.line, ImageKey)
			if ok != tc.match {
				t.Fatalf("line %q: expected match=%v, got %v", tc.line, tc.match, ok)
			}
			if got != tc.want {
				t.Fatalf("line %q: expected %q, got %q", tc.line, tc.want, got)
			}
		})
	}
}

func TestScanImagesDeduplicatesInFirstOccurrenceOrder(t *testing.T) {
	dir := t.TempDir()
	manifests := []string{
		"services:\n  a:\n    image: foo:1\n",
		"services:\n  b:\n    image: \"bar:2\"\n  c:\n    image: foo:1\n",
		"services:\n  d:\n    image: baz:3\n  e:\n    image: bar:2\n",
	}

	var paths []string
	for i, content := range manifests {
		path := filepath.Join(dir, "compose-"+string(rune('a'+i))+".yml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write manifest: %v", err)
		}
		paths = append(paths, path)
	}

	images, err := ScanImages(paths)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	want := []string{"foo:1", "bar:2", "baz:3"}
	if !reflect.DeepEqual(images, want) {
		t.Fatalf("expected %v, got %v", want, images)
	}
}

func TestScanImagesEmptyManifests(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docker-compose.yml")
	if err := os.WriteFile(path, []byte("services: {}\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	images, err := ScanImages([]string{path})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(images) != 0 {
		t.Fatalf("expected no images, got %v", images)
	}
}

func TestFindComposeFiles(t *testing.T) {
	root := t.TempDir()
	for _, node := range []string{"gateway", "monitor", "worker-1"} {
		dir := filepath.Join(root, "nodes", node)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "docker-compose.yml"), []byte("services: {}\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	files, err := FindComposeFiles(root)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 manifests, got %d: %v", len(files), files)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1] >= files[i] {
			t.Fatalf("manifests not in lexical order: %v", files)
		}
	}
}
