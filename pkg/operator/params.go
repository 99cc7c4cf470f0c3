package operator

import (
	"fmt"

	"github.com/aretw0/heddle/pkg/schema"
	"github.com/mitchellh/mapstructure"
)

// Params holds parameter values by name.
type Params map[string]any

// Int returns the named parameter as an int, or 0.
func (p Params) Int(name string) int {
	f, _ := schema.ToFloat(p[name])
	return int(f)
}

// Float returns the named parameter as a float64, or 0.
func (p Params) Float(name string) float64 {
	f, _ := schema.ToFloat(p[name])
	return f
}

// Bool returns the named parameter as a bool, or false.
func (p Params) Bool(name string) bool {
	b, _ := p[name].(bool)
	return b
}

// String returns the named parameter as a string, or "".
func (p Params) String(name string) string {
	s, _ := p[name].(string)
	return s
}

// Clone returns a shallow copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// DecodeParams decodes p into the struct pointed to by out using `param` tags.
// Input is weakly typed so values read from YAML, JSON or flags ("3", 3.0) decode
// into ints and bools.
func DecodeParams(p Params, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "param",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create param decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(p)); err != nil {
		return fmt.Errorf("failed to decode params: %w", err)
	}
	return nil
}
