package generation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var fencePattern = regexp.MustCompile("```[a-zA-Z]*\\n?")

// Validator turns raw provider text into a payload that satisfies a
// ResponseSchema. It is safe for concurrent use.
type Validator struct {
	logger *slog.Logger

	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// NewValidator creates a Validator.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		logger:   logger.With(slog.String("component", "response_validator")),
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate parses raw against schema. Object responses are recovered in
// order by parsing the text with code fences removed, then by parsing the
// span between the first '{' and the last '}'. The parsed object is then
// coerced field by field and checked for conformance. Any failure is a
// *ValidationError.
func (v *Validator) Validate(raw string, schema ResponseSchema) (json.RawMessage, error) {
	cleaned := strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))

	if schema.Kind == SchemaText {
		return v.validateText(cleaned, schema)
	}

	obj, err := parseObject(cleaned)
	if err != nil {
		return nil, err
	}

	coerced, err := coerceObject(obj, schema, "")
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(coerced)
	if err != nil {
		return nil, mismatch("", "re-encode payload: %v", err)
	}

	if err := v.conform(payload, schema); err != nil {
		return nil, err
	}

	return payload, nil
}

func (v *Validator) validateText(text string, schema ResponseSchema) (json.RawMessage, error) {
	if text == "" {
		return nil, &ValidationError{Reason: ReasonUnparseableResponse, Detail: "response text is empty"}
	}

	if target := schema.Text.TargetWords; target > 0 {
		if words := len(strings.Fields(text)); words > target {
			v.logger.Debug("text exceeds soft word target",
				slog.String("schema", schema.Name),
				slog.Int("words", words),
				slog.Int("target", target))
		}
	}

	payload, err := json.Marshal(text)
	if err != nil {
		return nil, mismatch("", "encode text: %v", err)
	}
	return payload, nil
}

func parseObject(text string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil && obj != nil {
		return obj, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err == nil && obj != nil {
			return obj, nil
		}
	}

	return nil, &ValidationError{
		Reason: ReasonUnparseableResponse,
		Detail: "no JSON object could be extracted from the response",
	}
}

func coerceObject(obj map[string]any, schema ResponseSchema, prefix string) (map[string]any, error) {
	out := make(map[string]any, len(schema.Fields))

	for _, f := range schema.Fields {
		path := joinPath(prefix, f.Name)
		raw, ok := lookup(obj, f)
		val, err := coerceField(raw, ok, f, path)
		if err != nil {
			return nil, err
		}
		out[f.Name] = val
	}

	for _, f := range schema.Fields {
		if f.MatchOf == "" {
			continue
		}
		path := joinPath(prefix, f.Name)
		matched, err := matchOption(out[f.Name].(string), out[f.MatchOf].([]any), path)
		if err != nil {
			return nil, err
		}
		out[f.Name] = matched
	}

	return out, nil
}

func lookup(obj map[string]any, f FieldSpec) (any, bool) {
	if v, ok := obj[f.Name]; ok && v != nil {
		return v, true
	}
	for _, alias := range f.Aliases {
		if v, ok := obj[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func coerceField(raw any, present bool, f FieldSpec, path string) (any, error) {
	if !present {
		if f.Required {
			return nil, missingField(path)
		}
		return absentValue(f, path)
	}

	switch f.Type {
	case FieldString:
		s, ok := scalarString(raw)
		if !ok {
			if f.Required {
				return nil, mismatch(path, "expected a string, got %T", raw)
			}
			return absentValue(f, path)
		}
		s = strings.TrimSpace(s)
		if s == "" && f.Required {
			return nil, missingField(path)
		}
		return s, nil

	case FieldNumber:
		if n, ok := number(raw); ok {
			return n, nil
		}
		if f.Required {
			return nil, mismatch(path, "expected a number, got %v", raw)
		}
		return absentValue(f, path)

	case FieldEnum:
		if s, ok := raw.(string); ok {
			for _, canonical := range f.Enum {
				if strings.EqualFold(strings.TrimSpace(s), canonical) {
					return canonical, nil
				}
			}
		}
		if f.Required {
			return nil, mismatch(path, "value %v is not one of %v", raw, f.Enum)
		}
		return f.Default, nil

	case FieldStringList:
		items, ok := raw.([]any)
		if !ok {
			if f.Required {
				return nil, mismatch(path, "expected a list, got %T", raw)
			}
			return absentValue(f, path)
		}
		list := make([]any, 0, len(items))
		for i, item := range items {
			s, ok := scalarString(item)
			if !ok {
				return nil, mismatch(fmt.Sprintf("%s[%d]", path, i), "expected a string, got %T", item)
			}
			list = append(list, strings.TrimSpace(s))
		}
		return applyLength(list, f.Length, path)

	case FieldObjectList:
		items, ok := raw.([]any)
		if !ok {
			if f.Required {
				return nil, mismatch(path, "expected a list, got %T", raw)
			}
			return absentValue(f, path)
		}
		if f.Length != nil && f.Length.Max > 0 && len(items) > f.Length.Max {
			items = items[:f.Length.Max]
		}
		list := make([]any, 0, len(items))
		for i, item := range items {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			m, ok := item.(map[string]any)
			if !ok {
				return nil, mismatch(itemPath, "expected an object, got %T", item)
			}
			c, err := coerceObject(m, *f.Item, itemPath)
			if err != nil {
				return nil, err
			}
			list = append(list, c)
		}
		return applyLength(list, f.Length, path)
	}

	return nil, mismatch(path, "unsupported field type %s", f.Type)
}

// absentValue is the value an optional field takes when it is missing or
// cannot be coerced.
func absentValue(f FieldSpec, path string) (any, error) {
	switch f.Type {
	case FieldString:
		if f.Default != nil {
			return f.Default, nil
		}
		return "", nil
	case FieldNumber:
		if n, ok := toFloat(f.Default); ok {
			return n, nil
		}
		return 0.0, nil
	case FieldEnum:
		return f.Default, nil
	case FieldStringList, FieldObjectList:
		return applyLength([]any{}, f.Length, path)
	}
	return nil, mismatch(path, "unsupported field type %s", f.Type)
}

func applyLength(list []any, rule *LengthRule, path string) ([]any, error) {
	if rule == nil {
		return list, nil
	}
	if rule.Max > 0 && len(list) > rule.Max {
		list = list[:rule.Max]
	}
	if len(list) < rule.Min {
		if rule.Filler == nil {
			return nil, mismatch(path, "expected at least %d items, got %d", rule.Min, len(list))
		}
		for len(list) < rule.Min {
			list = append(list, rule.Filler)
		}
	}
	return list, nil
}

// matchOption resolves answer against options: exact match, then
// case-insensitive match, then a single letter used as an index.
func matchOption(answer string, options []any, path string) (string, error) {
	for _, o := range options {
		if o.(string) == answer {
			return answer, nil
		}
	}
	for _, o := range options {
		if strings.EqualFold(o.(string), answer) {
			return o.(string), nil
		}
	}

	letter := strings.TrimRight(strings.TrimSpace(answer), ".):")
	if len(letter) == 1 {
		idx := int(strings.ToUpper(letter)[0]) - 'A'
		if idx >= 0 && idx < len(options) {
			return options[idx].(string), nil
		}
	}

	return "", mismatch(path, "answer %q matches none of the options", answer)
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	}
	return "", false
}

// number reports v as a finite float. NaN and infinities are not numbers
// here since they cannot be encoded as JSON.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(n), "%"))
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
