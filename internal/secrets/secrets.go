// Where: internal/secrets/secrets.go
// What: Random credential generation and .env persistence.
// Why: Every rendered lab gets unique tokens without manual secret handling.
package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Keys written to the generated .env file.
const (
	KeyGrafanaAdminPassword = "GRAFANA_ADMIN_PASSWORD"
	KeyMinioRootUser        = "MINIO_ROOT_USER"
	KeyMinioRootPassword    = "MINIO_ROOT_PASSWORD"
)

const tokenLength = 32

// Generate returns a fresh credential set. Existing values from the
// environment win so re-running init never rotates live secrets.
func Generate() map[string]string {
	values := map[string]string{
		KeyMinioRootUser: "labops",
	}
	for _, key := range []string{
		KeyGrafanaAdminPassword,
		KeyMinioRootPassword,
	} {
		values[key] = SecureToken(tokenLength)
	}
	for key := range values {
		if existing := os.Getenv(key); existing != "" {
			values[key] = existing
		}
	}
	return values
}

// SecureToken returns a random hex string of the requested length.
func SecureToken(length int) string {
	bytes := make([]byte, (length+1)/2)
	if _, err := rand.Read(bytes); err != nil {
		return "fallback-insecure-key-please-set-env"
	}
	return hex.EncodeToString(bytes)[:length]
}

// WriteEnvFile persists credentials as KEY=value lines in sorted key order.
func WriteEnvFile(path string, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&builder, "%s=%s\n", key, values[key])
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(builder.String()), 0o600)
}

// ReadEnvFile loads a .env file into a map. A missing file is not an error.
func ReadEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return values, nil
}
