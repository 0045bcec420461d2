// Where: internal/config/schema.go
// What: Schema validator for lab.yaml.
// Why: Reject malformed topologies before anything is rendered.
package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"
)

const labSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "name", "nodes"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "name": {"type": "string", "minLength": 1},
    "output": {"type": "string"},
    "pull": {
      "type": "object",
      "properties": {
        "pull_delay_seconds": {"type": "integer", "minimum": 0},
        "pull_retries": {"type": "integer", "minimum": 0},
        "retry_backoff_seconds": {"type": "integer", "minimum": 0}
      },
      "additionalProperties": false
    },
    "backup": {
      "type": "object",
      "properties": {
        "endpoint": {"type": "string"},
        "bucket": {"type": "string"}
      },
      "additionalProperties": false
    },
    "nodes": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "address", "role"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "address": {"type": "string", "minLength": 1},
          "role": {"enum": ["gateway", "monitor", "worker"]},
          "services": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name", "image"],
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "image": {"type": "string", "minLength": 1},
                "ports": {"type": "array", "items": {"type": "string"}},
                "volumes": {"type": "array", "items": {"type": "string"}},
                "environment": {"type": "object", "additionalProperties": {"type": "string"}},
                "command": {"type": "array", "items": {"type": "string"}},
                "traefik_rule": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// ValidateLabConfig checks a raw lab.yaml payload against the lab schema.
func ValidateLabConfig(payload []byte) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}

	jsonData, err := yaml.YAMLToJSON(payload)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}

	if err := sch.Validate(document); err != nil {
		return fmt.Errorf("invalid lab config: %w", err)
	}
	return nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("lab.schema.json", strings.NewReader(labSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("lab.schema.json")
	})
	if schemaErr != nil {
		return nil, schemaErr
	}
	return compiledSchema, nil
}
