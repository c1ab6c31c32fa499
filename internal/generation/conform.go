package generation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// conform checks payload against the JSON Schema equivalent of schema.
func (v *Validator) conform(payload json.RawMessage, schema ResponseSchema) error {
	compiled, err := v.compile(schema)
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(payload))
	if err != nil {
		return mismatch("", "decode payload: %v", err)
	}

	if err := compiled.Validate(inst); err != nil {
		return mismatch("", "payload does not conform to %s: %v", schema.Name, err)
	}
	return nil
}

func (v *Validator) compile(schema ResponseSchema) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.compiled[schema.Name]; ok {
		return s, nil
	}

	doc, err := json.Marshal(JSONSchema(schema))
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %v", ErrInvalidSchema, schema.Name, err)
	}
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidSchema, schema.Name, err)
	}

	url := "mem://schemas/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("%w: add %s: %v", ErrInvalidSchema, schema.Name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("%w: compile %s: %v", ErrInvalidSchema, schema.Name, err)
	}

	v.compiled[schema.Name] = s
	return s, nil
}

// JSONSchema renders schema as a JSON Schema document describing the payloads
// the Validator produces for it.
func JSONSchema(schema ResponseSchema) map[string]any {
	if schema.Kind == SchemaText {
		return map[string]any{"type": "string", "minLength": 1}
	}
	return objectSchema(schema)
}

func objectSchema(schema ResponseSchema) map[string]any {
	props := make(map[string]any, len(schema.Fields))
	required := make([]string, 0, len(schema.Fields))

	for _, f := range schema.Fields {
		props[f.Name] = fieldSchema(f)
		required = append(required, f.Name)
	}

	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func fieldSchema(f FieldSpec) map[string]any {
	var s map[string]any
	switch f.Type {
	case FieldString:
		s = map[string]any{"type": "string"}
		if f.Required {
			s["minLength"] = 1
		}
	case FieldNumber:
		s = map[string]any{"type": "number"}
	case FieldEnum:
		s = map[string]any{"type": "string", "enum": f.Enum}
	case FieldStringList:
		s = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	case FieldObjectList:
		s = map[string]any{"type": "array", "items": objectSchema(*f.Item)}
	}

	if f.Length != nil {
		if f.Length.Min > 0 {
			s["minItems"] = f.Length.Min
		}
		if f.Length.Max > 0 {
			s["maxItems"] = f.Length.Max
		}
	}
	return s
}
