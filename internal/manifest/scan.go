// Where: internal/manifest/scan.go
// What: Image reference extraction from rendered compose manifests.
// Why: The pull coordinator needs a deterministic, order-preserving image list.
package manifest

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/substratelab/labops/internal/meta"
)

// ImageKey is the declaration token recognized in manifest lines.
const ImageKey = "image:"

// ExtractValue returns the value declared on a single manifest line for the
// given key token. A line matches when, after trimming whitespace, it starts
// with the key; the value is the remainder with surrounding quotes stripped.
// Comment lines never match.
func ExtractValue(line, key string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	if !strings.HasPrefix(trimmed, key) {
		return "", false
	}

	value := strings.TrimSpace(trimmed[len(key):])
	value = stripQuotes(value)
	if value == "" {
		return "", false
	}
	return value, true
}

func stripQuotes(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if first == last && (first == '"' || first == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}

// ScanImages collects image references from the given manifest files in
// supply order, line order preserved, first occurrence winning.
func ScanImages(paths []string) ([]string, error) {
	seen := map[string]struct{}{}
	var images []string

	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open manifest %s: %w", path, err)
		}

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			value, ok := ExtractValue(scanner.Text(), ImageKey)
			if !ok {
				continue
			}
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			images = append(images, value)
		}
		err = scanner.Err()
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("read manifest %s: %w", path, err)
		}
	}

	return images, nil
}

// FindComposeFiles returns the rendered compose manifests under the output
// root in lexical node order.
func FindComposeFiles(outputDir string) ([]string, error) {
	pattern := filepath.Join(outputDir, meta.NodesDir, "*", "docker-compose.yml")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	return matches, nil
}
