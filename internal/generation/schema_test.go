package generation_test

import (
	"testing"

	"github.com/careerforge/careerforge-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseSchema_CheckValid(t *testing.T) {
	t.Parallel()

	for _, s := range []generation.ResponseSchema{insightSchema(), questionSchema(), quizSchema(), letterSchema()} {
		assert.NoError(t, s.Check(), s.Name)
	}
}

func TestResponseSchema_CheckInvalid(t *testing.T) {
	t.Parallel()

	str := generation.FieldString
	tests := []struct {
		name   string
		schema generation.ResponseSchema
	}{
		{"no name", generation.ResponseSchema{Kind: generation.SchemaText}},
		{"object without fields", generation.ResponseSchema{Name: "x"}},
		{"text with fields", generation.ResponseSchema{
			Name: "x", Kind: generation.SchemaText,
			Fields: []generation.FieldSpec{{Name: "a", Type: str}},
		}},
		{"duplicate names", generation.ResponseSchema{Name: "x", Fields: []generation.FieldSpec{
			{Name: "a", Type: str}, {Name: "b", Type: str, Aliases: []string{"a"}},
		}}},
		{"required with default", generation.ResponseSchema{Name: "x", Fields: []generation.FieldSpec{
			{Name: "a", Type: str, Required: true, Default: "d"},
		}}},
		{"optional enum without default", generation.ResponseSchema{Name: "x", Fields: []generation.FieldSpec{
			{Name: "a", Type: generation.FieldEnum, Enum: []string{"X"}},
		}}},
		{"enum default outside set", generation.ResponseSchema{Name: "x", Fields: []generation.FieldSpec{
			{Name: "a", Type: generation.FieldEnum, Enum: []string{"X"}, Default: "Y"},
		}}},
		{"object list without item", generation.ResponseSchema{Name: "x", Fields: []generation.FieldSpec{
			{Name: "a", Type: generation.FieldObjectList},
		}}},
		{"inverted length", generation.ResponseSchema{Name: "x", Fields: []generation.FieldSpec{
			{Name: "a", Type: generation.FieldStringList, Length: &generation.LengthRule{Min: 5, Max: 2}},
		}}},
		{"length on string", generation.ResponseSchema{Name: "x", Fields: []generation.FieldSpec{
			{Name: "a", Type: str, Length: &generation.LengthRule{Max: 2}},
		}}},
		{"match target missing", generation.ResponseSchema{Name: "x", Fields: []generation.FieldSpec{
			{Name: "a", Type: str, MatchOf: "b"},
		}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.schema.Check()
			require.Error(t, err)
			assert.ErrorIs(t, err, generation.ErrInvalidSchema)
			assert.ErrorIs(t, err, generation.ErrInvalidRequest)
		})
	}
}

func TestGenerationRequest_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, insightRequest().Validate())

	noFallback := insightRequest()
	noFallback.Fallback = nil
	assert.ErrorIs(t, noFallback.Validate(), generation.ErrInvalidRequest)

	noPrompt := insightRequest()
	noPrompt.Prompt = "  "
	assert.ErrorIs(t, noPrompt.Validate(), generation.ErrInvalidRequest)

	noKind := insightRequest()
	noKind.Kind = ""
	assert.ErrorIs(t, noKind.Validate(), generation.ErrInvalidRequest)
}

func TestValidateKey(t *testing.T) {
	t.Parallel()

	assert.NoError(t, generation.ValidateKey("insights:healthcare"))
	assert.ErrorIs(t, generation.ValidateKey(""), generation.ErrInvalidKey)
	assert.ErrorIs(t, generation.ValidateKey("   "), generation.ErrInvalidKey)
	assert.ErrorIs(t, generation.ValidateKey("a\nb"), generation.ErrInvalidKey)

	long := make([]byte, generation.MaxKeyLength+1)
	for i := range long {
		long[i] = 'k'
	}
	assert.ErrorIs(t, generation.ValidateKey(string(long)), generation.ErrInvalidKey)
}
