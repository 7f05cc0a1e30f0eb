package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator checks a raw stored document before it is trusted.
type ConfigValidator interface {
	ValidateConfiguration(raw []byte) error
	ValidatePresets(raw []byte) error
}

const (
	configurationSchemaURL = "https://schemas.homedash.local/configuration.json"
	presetsSchemaURL       = "https://schemas.homedash.local/presets.json"
)

const configurationSchema = `{
  "type": "object",
  "required": ["title", "views"],
  "properties": {
    "title": {"type": "string"},
    "views": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "title", "path", "widgets"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string"},
          "path": {"type": "string"},
          "widgets": {"type": "array", "items": {"$ref": "#/definitions/widget"}}
        }
      }
    }
  },
  "definitions": {
    "widget": {
      "type": "object",
      "required": ["id", "deviceId", "type", "size", "customization"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "deviceId": {"type": "string"},
        "type": {"type": "string", "minLength": 1},
        "size": {"enum": ["small", "medium", "large"]},
        "customization": {
          "type": "object",
          "required": ["theme", "color", "showLabel", "showStatus"],
          "properties": {
            "theme": {"enum": ["light", "dark", "auto"]},
            "color": {"type": "string"},
            "showLabel": {"type": "boolean"},
            "showStatus": {"type": "boolean"}
          }
        }
      }
    }
  }
}`

const presetsSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "config"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "name": {"type": "string"},
      "description": {"type": "string"},
      "config": {"$ref": "https://schemas.homedash.local/configuration.json"},
      "createdAt": {"type": "string"},
      "isDefault": {"type": "boolean"}
    }
  }
}`

// JSONSchemaValidator validates stored documents with jsonschema v5. Schemas
// are compiled once on first use.
type JSONSchemaValidator struct {
	once          sync.Once
	configuration *jsonschema.Schema
	presets       *jsonschema.Schema
	err           error
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{}
}

// ValidateConfiguration checks a configuration document. Duplicate widget ids
// inside a view are rejected as well.
func (v *JSONSchemaValidator) ValidateConfiguration(raw []byte) error {
	if err := v.compile(); err != nil {
		return err
	}
	payload, err := decodeDocument(raw)
	if err != nil {
		return err
	}
	if err := v.configuration.Validate(payload); err != nil {
		return fmt.Errorf("dashboard: configuration failed validation: %w", err)
	}
	var cfg Configuration
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("dashboard: decode configuration: %w", err)
	}
	return checkUniqueWidgetIDs(cfg)
}

// ValidatePresets checks a preset collection document.
func (v *JSONSchemaValidator) ValidatePresets(raw []byte) error {
	if err := v.compile(); err != nil {
		return err
	}
	payload, err := decodeDocument(raw)
	if err != nil {
		return err
	}
	if err := v.presets.Validate(payload); err != nil {
		return fmt.Errorf("dashboard: presets failed validation: %w", err)
	}
	var presets []Preset
	if err := json.Unmarshal(raw, &presets); err != nil {
		return fmt.Errorf("dashboard: decode presets: %w", err)
	}
	for _, p := range presets {
		if err := checkUniqueWidgetIDs(p.Config); err != nil {
			return fmt.Errorf("dashboard: preset %s: %w", p.ID, err)
		}
	}
	return nil
}

func (v *JSONSchemaValidator) compile() error {
	v.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		resources := map[string]string{
			configurationSchemaURL: configurationSchema,
			presetsSchemaURL:       presetsSchema,
		}
		for name, schema := range resources {
			if err := compiler.AddResource(name, strings.NewReader(schema)); err != nil {
				v.err = fmt.Errorf("dashboard: load schema %s: %w", name, err)
				return
			}
		}
		if v.configuration, v.err = compiler.Compile(configurationSchemaURL); v.err != nil {
			v.err = fmt.Errorf("dashboard: compile configuration schema: %w", v.err)
			return
		}
		if v.presets, v.err = compiler.Compile(presetsSchemaURL); v.err != nil {
			v.err = fmt.Errorf("dashboard: compile presets schema: %w", v.err)
		}
	})
	return v.err
}

func decodeDocument(raw []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("dashboard: parse document: %w", err)
	}
	return payload, nil
}

func checkUniqueWidgetIDs(cfg Configuration) error {
	for _, view := range cfg.Views {
		seen := make(map[string]struct{}, len(view.Widgets))
		for _, w := range view.Widgets {
			if _, dup := seen[w.ID]; dup {
				return fmt.Errorf("dashboard: view %s has duplicate widget id %s", view.ID, w.ID)
			}
			seen[w.ID] = struct{}{}
		}
	}
	return nil
}
