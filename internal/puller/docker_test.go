// Where: internal/puller/docker_test.go
// What: Tests for the Docker-backed pull operation.
// Why: Errors surface either from the API call or inside the progress stream.
package puller

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/docker/docker/api/types/image"
)

type fakeImageAPI struct {
	stream string
	err    error
	pulled []string
}

func (f *fakeImageAPI) ImagePull(_ context.Context, refStr string, _ image.PullOptions) (io.ReadCloser, error) {
	f.pulled = append(f.pulled, refStr)
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.stream)), nil
}

func TestDockerPullerDrainsCleanStream(t *testing.T) {
	api := &fakeImageAPI{stream: `{"status":"Pulling from library/traefik"}` + "\n" + `{"status":"Download complete"}` + "\n"}
	p := DockerPuller{Client: api}

	if err := p.Pull(context.Background(), "traefik:v3.1"); err != nil {
		t.Fatalf("pull: %v", err)
	}
	if len(api.pulled) != 1 || api.pulled[0] != "traefik:v3.1" {
		t.Fatalf("unexpected pull calls: %v", api.pulled)
	}
}

func TestDockerPullerSurfacesStreamError(t *testing.T) {
	api := &fakeImageAPI{stream: `{"status":"Pulling"}` + "\n" + `{"error":"manifest unknown"}` + "\n"}
	p := DockerPuller{Client: api}

	err := p.Pull(context.Background(), "ghost:0")
	if err == nil || !strings.Contains(err.Error(), "manifest unknown") {
		t.Fatalf("expected stream error, got %v", err)
	}
}

func TestDockerPullerSurfacesAPIError(t *testing.T) {
	api := &fakeImageAPI{err: fmt.Errorf("daemon not running")}
	p := DockerPuller{Client: api}

	err := p.Pull(context.Background(), "foo:1")
	if err == nil || !strings.Contains(err.Error(), "daemon not running") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestDockerPullerNilClient(t *testing.T) {
	if err := (DockerPuller{}).Pull(context.Background(), "foo:1"); err == nil {
		t.Fatal("expected error for nil client")
	}
}
