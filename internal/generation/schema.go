package generation

import (
	"fmt"
	"slices"
)

// SchemaKind distinguishes structured responses from free text.
type SchemaKind int

// Schema kinds
const (
	SchemaObject SchemaKind = iota
	SchemaText
)

// FieldType is the declared type of an object field.
type FieldType int

// Field types
const (
	FieldString FieldType = iota
	FieldNumber
	FieldEnum
	FieldStringList
	FieldObjectList
)

func (t FieldType) String() string {
	switch t {
	case FieldString:
		return "string"
	case FieldNumber:
		return "number"
	case FieldEnum:
		return "enum"
	case FieldStringList:
		return "string list"
	case FieldObjectList:
		return "object list"
	}
	return fmt.Sprintf("FieldType(%d)", int(t))
}

// LengthRule constrains the number of elements of a list field.
// Lists longer than Max are truncated. Lists shorter than Min are padded with
// Filler, or rejected when Filler is nil.
type LengthRule struct {
	Min int
	// Max of zero means unbounded.
	Max    int
	Filler any
}

// FieldSpec declares one field of an object response.
type FieldSpec struct {
	Name string
	// Aliases are alternative names accepted from the provider; the payload
	// always uses Name.
	Aliases []string
	Type    FieldType
	// Required fields cannot be defaulted: their absence rejects the response.
	Required bool
	// Default replaces absent or uncoercible values of optional fields.
	Default any
	// Enum is the closed set of canonical values for FieldEnum.
	Enum   []string
	Length *LengthRule
	// Item describes the elements of a FieldObjectList.
	Item *ResponseSchema
	// MatchOf names a sibling FieldStringList the value must be an element
	// of. Single letters are accepted as a 0-based index into that list.
	MatchOf string
}

// TextRules apply to free-text responses.
type TextRules struct {
	// TargetWords is a soft length target. Longer text is accepted.
	TargetWords int
}

// ResponseSchema declares the shape a provider response must have before it
// can be persisted.
type ResponseSchema struct {
	// Name identifies the schema. It must be unique per distinct shape.
	Name   string
	Kind   SchemaKind
	Fields []FieldSpec
	Text   TextRules
}

// Field returns the field spec with the given name.
func (s ResponseSchema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Check validates the schema declaration itself.
func (s ResponseSchema) Check() error {
	if s.Name == "" {
		return fmt.Errorf("%w: schema name is empty", ErrInvalidSchema)
	}

	switch s.Kind {
	case SchemaText:
		if len(s.Fields) > 0 {
			return fmt.Errorf("%w: %s: text schema declares fields", ErrInvalidSchema, s.Name)
		}
		if s.Text.TargetWords < 0 {
			return fmt.Errorf("%w: %s: negative word target", ErrInvalidSchema, s.Name)
		}
		return nil
	case SchemaObject:
	default:
		return fmt.Errorf("%w: %s: unknown schema kind %d", ErrInvalidSchema, s.Name, s.Kind)
	}

	if len(s.Fields) == 0 {
		return fmt.Errorf("%w: %s: object schema has no fields", ErrInvalidSchema, s.Name)
	}

	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: %s: field with empty name", ErrInvalidSchema, s.Name)
		}
		for _, n := range append([]string{f.Name}, f.Aliases...) {
			if seen[n] {
				return fmt.Errorf("%w: %s: duplicate field name %q", ErrInvalidSchema, s.Name, n)
			}
			seen[n] = true
		}
		if err := s.checkField(f); err != nil {
			return fmt.Errorf("%w: %s.%s: %s", ErrInvalidSchema, s.Name, f.Name, err)
		}
	}

	return nil
}

func (s ResponseSchema) checkField(f FieldSpec) error {
	if f.Required && f.Default != nil {
		return fmt.Errorf("required field declares a default")
	}

	switch f.Type {
	case FieldString:
		if f.Default != nil {
			if _, ok := f.Default.(string); !ok {
				return fmt.Errorf("default must be a string")
			}
		}
	case FieldNumber:
		if f.Default != nil {
			if _, ok := toFloat(f.Default); !ok {
				return fmt.Errorf("default must be numeric")
			}
		}
	case FieldEnum:
		if len(f.Enum) == 0 {
			return fmt.Errorf("enum declares no values")
		}
		if !f.Required {
			d, ok := f.Default.(string)
			if !ok || !slices.Contains(f.Enum, d) {
				return fmt.Errorf("optional enum needs a default from its value set")
			}
		}
	case FieldStringList:
		if f.Length != nil && f.Length.Filler != nil {
			if _, ok := f.Length.Filler.(string); !ok {
				return fmt.Errorf("filler must be a string")
			}
		}
	case FieldObjectList:
		if f.Item == nil || f.Item.Kind != SchemaObject {
			return fmt.Errorf("object list needs an object item schema")
		}
		if err := f.Item.Check(); err != nil {
			return err
		}
		if f.Length != nil && f.Length.Filler != nil {
			return fmt.Errorf("object lists cannot be padded")
		}
	default:
		return fmt.Errorf("unknown field type %s", f.Type)
	}

	if f.Length != nil {
		if f.Type != FieldStringList && f.Type != FieldObjectList {
			return fmt.Errorf("length rule on a %s field", f.Type)
		}
		if f.Length.Min < 0 || (f.Length.Max > 0 && f.Length.Min > f.Length.Max) {
			return fmt.Errorf("invalid length rule [%d, %d]", f.Length.Min, f.Length.Max)
		}
	}

	if f.MatchOf != "" {
		if f.Type != FieldString {
			return fmt.Errorf("match constraint on a %s field", f.Type)
		}
		sibling, ok := s.Field(f.MatchOf)
		if !ok || sibling.Type != FieldStringList {
			return fmt.Errorf("match target %q is not a string list", f.MatchOf)
		}
	}

	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
