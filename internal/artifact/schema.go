package artifact

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://model-artifact.json"

const artifactSchema = `{
  "type": "object",
  "required": ["features", "model"],
  "properties": {
    "features": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 1}
    },
    "scaler": {
      "type": "object",
      "required": ["mean", "scale"],
      "properties": {
        "mean":  {"type": "array", "items": {"type": "number"}},
        "scale": {"type": "array", "items": {"type": "number"}}
      }
    },
    "model": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"enum": ["logistic_regression", "random_forest"]},
        "coefficients": {"type": "array", "items": {"type": "number"}},
        "intercept": {"type": "number"},
        "trees": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["nodes"],
            "properties": {
              "nodes": {
                "type": "array",
                "minItems": 1,
                "items": {
                  "type": "object",
                  "properties": {
                    "feature":   {"type": "integer"},
                    "threshold": {"type": "number"},
                    "left":      {"type": "integer"},
                    "right":     {"type": "integer"},
                    "value":     {"type": "array", "items": {"type": "number", "minimum": 0}}
                  }
                }
              }
            }
          }
        }
      },
      "allOf": [
        {
          "if": {"properties": {"type": {"const": "logistic_regression"}}},
          "then": {"required": ["coefficients", "intercept"]}
        },
        {
          "if": {"properties": {"type": {"const": "random_forest"}}},
          "then": {"required": ["trees"], "properties": {"trees": {"minItems": 1}}}
        }
      ]
    },
    "info": {
      "type": "object",
      "properties": {
        "name":     {"type": "string"},
        "accuracy": {"type": "number", "minimum": 0, "maximum": 1}
      }
    }
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(artifactSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse artifact schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add artifact schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validateDocument checks raw JSON against the artifact schema.
func validateDocument(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := schema.Validate(inst); err != nil {
		return &ValidationError{Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}
