// Where: internal/puller/docker.go
// What: Docker SDK implementation of the pull operation.
// Why: Keep the coordinator independent of the Docker client for tests.
package puller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// ImageAPIClient is the subset of the Docker SDK used for pulling.
type ImageAPIClient interface {
	ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error)
}

// NewDockerClient constructs a Docker SDK client using environment defaults.
func NewDockerClient() (*client.Client, error) {
	return client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
}

// DockerPuller pulls images through the Docker daemon.
type DockerPuller struct {
	Client ImageAPIClient
}

// Pull requests the image and drains the daemon's progress stream. The pull
// is not complete (or failed) until the stream ends.
func (p DockerPuller) Pull(ctx context.Context, ref string) error {
	if p.Client == nil {
		return fmt.Errorf("docker client is nil")
	}
	reader, err := p.Client.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()
	return drainPullProgress(reader)
}

func drainPullProgress(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		var event struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}
		if event.Error != "" {
			return fmt.Errorf("pull error: %s", event.Error)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read pull output: %w", err)
	}
	return nil
}
