package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/heddle/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	tests := []struct {
		name    string
		typ     schema.Type
		value   any
		wantErr bool
	}{
		{"int in range", schema.Int(1, 10), 4, false},
		{"int from float", schema.Int(1, 10), 4.0, false},
		{"int fraction", schema.Int(1, 10), 4.5, true},
		{"int below", schema.Int(1, 10), 0, true},
		{"number above", schema.Number(0, 1), 1.5, true},
		{"number wrong type", schema.Number(0, 1), "1", true},
		{"bool", schema.Bool(), true, false},
		{"bool wrong type", schema.Bool(), "true", true},
		{"select ok", schema.Select("a", "b"), "b", false},
		{"select unknown", schema.Select("a", "b"), "c", true},
		{"string any", schema.String(), "", false},
		{"string pattern", schema.Pattern(`^[0-9]+$`), "123", false},
		{"string pattern mismatch", schema.Pattern(`^[0-9]+$`), "12a", true},
		{"file any", schema.File(), "x.bin", false},
		{"file ext", schema.File(".png", ".jpg"), "loom/IMG.PNG", false},
		{"file bad ext", schema.File(".png"), "x.bmp", true},
		{"file empty", schema.File(), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.typ.Validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "[1, 10] integer", schema.Int(1, 10).Describe())
	assert.Equal(t, "a | b", schema.Select("a", "b").Describe())
	assert.Equal(t, "any text", schema.String().Describe())
	assert.Equal(t, schema.KindFile, schema.File().Kind())
}

func TestSchemaDefaultsAndValidate(t *testing.T) {
	s := schema.Schema{
		{Name: "repeats", Type: schema.Int(1, 8), Default: 2},
		{Name: "direction", Type: schema.Select("left", "right")},
	}

	values := s.WithDefaults(map[string]any{"extra": 1})
	assert.Equal(t, 2, values["repeats"])
	assert.Equal(t, 1, values["extra"])

	err := s.Validate(values)
	require.Error(t, err)
	assert.True(t, schema.IsMissing(err))
	require.Len(t, schema.ValidationErrors(err), 1)

	values["direction"] = "up"
	err = s.Validate(values)
	require.Error(t, err)
	assert.False(t, schema.IsMissing(err))

	values["direction"] = "left"
	assert.NoError(t, s.Validate(values))
}

func TestValidatePresent(t *testing.T) {
	s := schema.Schema{{Name: "n", Type: schema.Int(0, 3)}}
	assert.NoError(t, s.ValidatePresent(map[string]any{}))
	assert.Error(t, s.ValidatePresent(map[string]any{"n": 9}))
}

func TestNormalize(t *testing.T) {
	s := schema.Schema{
		{Name: "degrees", Type: schema.Select("90", "180", "270")},
		{Name: "amount", Type: schema.Int(-8, 8)},
		{Name: "repeat", Type: schema.Bool()},
		{Name: "label", Type: schema.String()},
	}

	tests := []struct {
		name  string
		in    map[string]any
		want  map[string]any
		valid bool
	}{
		{
			name:  "yaml scalars",
			in:    map[string]any{"degrees": 90, "amount": "3", "repeat": "true", "label": "x"},
			want:  map[string]any{"degrees": "90", "amount": 3.0, "repeat": true, "label": "x"},
			valid: true,
		},
		{
			name:  "json numbers",
			in:    map[string]any{"degrees": 180.0, "amount": -2.0, "repeat": false, "label": "y"},
			want:  map[string]any{"degrees": "180", "amount": -2.0, "repeat": false, "label": "y"},
			valid: true,
		},
		{
			name:  "unconvertible values are kept",
			in:    map[string]any{"degrees": []any{90}, "amount": "many", "repeat": "", "label": true},
			want:  map[string]any{"degrees": []any{90}, "amount": "many", "repeat": "", "label": true},
			valid: false,
		},
		{
			name:  "unknown keys pass through",
			in:    map[string]any{"degrees": "270", "amount": 1, "repeat": true, "label": "", "extra": 7},
			want:  map[string]any{"degrees": "270", "amount": 1.0, "repeat": true, "label": "", "extra": 7},
			valid: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.valid {
				assert.NoError(t, s.Validate(got))
			} else {
				assert.Error(t, s.Validate(got))
			}
		})
	}
}

func TestAggregateErrorMessage(t *testing.T) {
	err := &schema.AggregateError{Errors: []error{
		&schema.ValidationError{Key: "a", Reason: "required"},
		&schema.ValidationError{Key: "b", Reason: "bad", Value: 3},
	}}
	assert.Contains(t, err.Error(), "2 validation errors")
	assert.Contains(t, err.Error(), `param "b": bad (got 3)`)
}

func TestParamJSON(t *testing.T) {
	p := schema.Param{Name: "mode", Type: schema.Select("x", "y"), Default: "x"}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "select", got["kind"])
	assert.Equal(t, "x | y", got["constraint"])
	assert.Equal(t, []any{"x", "y"}, got["options"])
}
