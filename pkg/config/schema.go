package config

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// configSchema constrains the merged config. Koanf handles type
// coercion, so the schema focuses on enums and ranges.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "analysis": {
      "type": "object",
      "properties": {
        "detectors": {
          "type": "array",
          "items": {
            "enum": [
              "long_method",
              "large_class",
              "long_parameter_list",
              "duplicate_code",
              "complex_conditional",
              "dead_code",
              "comment_overuse"
            ]
          }
        },
        "workers": {"type": "integer", "minimum": 0}
      }
    },
    "thresholds": {
      "type": "object",
      "properties": {
        "long_method_high": {"type": "integer", "minimum": 1},
        "large_class_lines": {"type": "integer", "minimum": 1},
        "large_class_lines_high": {"type": "integer", "minimum": 1},
        "large_class_methods": {"type": "integer", "minimum": 1},
        "large_class_methods_high": {"type": "integer", "minimum": 1},
        "params_high": {"type": "integer", "minimum": 1},
        "conditional_ops": {"type": "integer", "minimum": 0},
        "conditional_parens": {"type": "integer", "minimum": 0},
        "conditional_ops_high": {"type": "integer", "minimum": 0},
        "conditional_parens_high": {"type": "integer", "minimum": 0},
        "duplicate_window": {"type": "integer", "minimum": 2},
        "duplicate_min_line_len": {"type": "integer", "minimum": 1},
        "dead_comment_block": {"type": "integer", "minimum": 1},
        "comment_ratio": {"type": "number", "minimum": 0, "maximum": 1},
        "comment_ratio_medium": {"type": "number", "minimum": 0, "maximum": 1},
        "min_file_lines": {"type": "integer", "minimum": 0},
        "duplicate_strategy": {"enum": ["block", "line"]}
      }
    },
    "limits": {
      "type": "object",
      "properties": {
        "max_files": {"type": "integer", "minimum": 1},
        "max_file_size": {"type": "integer", "minimum": 1}
      }
    },
    "cache": {
      "type": "object",
      "properties": {
        "ttl": {"type": "integer", "minimum": 0}
      }
    },
    "output": {
      "type": "object",
      "properties": {
        "format": {"enum": ["text", "json", "markdown", "toon"]}
      }
    }
  }
}`

func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(configSchema))
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("augur-config.json", doc); err != nil {
		return nil, err
	}
	return compiler.Compile("augur-config.json")
}
