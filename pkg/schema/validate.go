package schema

import "github.com/mitchellh/mapstructure"

const reasonRequired = "required"

// Param declares a single operator parameter.
type Param struct {
	Name        string
	DisplayName string
	Description string
	Type        Type
	// Default is used when the value is absent. A nil Default makes the parameter
	// mandatory for operators whose parameters are required.
	Default any
}

// Schema is the ordered parameter list of an operator.
type Schema []Param

// Lookup returns the parameter with the given name.
func (s Schema) Lookup(name string) (Param, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// WithDefaults returns a copy of values with every absent parameter that has a default
// filled in. Unknown keys are kept.
func (s Schema) WithDefaults(values map[string]any) map[string]any {
	out := make(map[string]any, len(values)+len(s))
	for k, v := range values {
		out[k] = v
	}
	for _, p := range s {
		if _, ok := out[p.Name]; !ok && p.Default != nil {
			out[p.Name] = p.Default
		}
	}
	return out
}

// Normalize returns a copy of values with every declared parameter weakly converted to
// the Go type its kind validates against: float64 for numbers, bool for booleans and
// string for the others. Values read from YAML, JSON or flags ("3", 90, "true") then
// validate like their canonical form. Values that cannot be converted are kept as is
// so Validate reports them.
func (s Schema) Normalize(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	for _, p := range s {
		value, ok := out[p.Name]
		if !ok || value == nil || p.Type == nil {
			continue
		}
		if v, ok := normalize(p.Type.Kind(), value); ok {
			out[p.Name] = v
		}
	}
	return out
}

func normalize(kind Kind, value any) (any, bool) {
	switch v := value.(type) {
	case string:
		if v == "" && kind != KindSelect && kind != KindString && kind != KindFile {
			return nil, false
		}
	case bool:
		if kind != KindBoolean {
			return nil, false
		}
	}
	switch kind {
	case KindNumber:
		var f float64
		if err := mapstructure.WeakDecode(value, &f); err == nil {
			return f, true
		}
	case KindBoolean:
		var b bool
		if err := mapstructure.WeakDecode(value, &b); err == nil {
			return b, true
		}
	default:
		var str string
		if err := mapstructure.WeakDecode(value, &str); err == nil {
			return str, true
		}
	}
	return nil, false
}

// Validate checks that every declared parameter is present and valid.
// Returns an *AggregateError with all failures found.
func (s Schema) Validate(values map[string]any) error {
	var errs []error
	for _, p := range s {
		value, exists := values[p.Name]
		if !exists {
			errs = append(errs, &ValidationError{Key: p.Name, Reason: reasonRequired})
			continue
		}
		if p.Type == nil {
			continue
		}
		if err := p.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: p.Name, Reason: err.Error(), Value: value})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidatePresent validates only the parameters that are present in values.
func (s Schema) ValidatePresent(values map[string]any) error {
	var errs []error
	for _, p := range s {
		value, exists := values[p.Name]
		if !exists || p.Type == nil {
			continue
		}
		if err := p.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: p.Name, Reason: err.Error(), Value: value})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
