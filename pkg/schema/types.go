package schema

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strings"
)

// Kind names the five parameter families.
type Kind string

const (
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindSelect  Kind = "select"
	KindString  Kind = "string"
	KindFile    Kind = "file"
)

// Type defines the contract for parameter validation.
type Type interface {
	// Kind returns the parameter family.
	Kind() Kind
	// Validate checks if a value conforms to this type.
	Validate(value any) error
	// Describe returns the valid range or pattern in human-readable form.
	Describe() string
}

// NumberType accepts numbers within [Min, Max], optionally whole numbers only.
type NumberType struct {
	Min, Max float64
	Integer  bool
}

func (t *NumberType) Kind() Kind { return KindNumber }

func (t *NumberType) Validate(value any) error {
	f, ok := ToFloat(value)
	if !ok {
		return fmt.Errorf("expected number, got %T", value)
	}
	if t.Integer && f != math.Trunc(f) {
		return fmt.Errorf("expected whole number")
	}
	if f < t.Min || f > t.Max {
		return fmt.Errorf("out of range %s", t.Describe())
	}
	return nil
}

func (t *NumberType) Describe() string {
	if t.Integer {
		return fmt.Sprintf("[%d, %d] integer", int64(t.Min), int64(t.Max))
	}
	return fmt.Sprintf("[%g, %g]", t.Min, t.Max)
}

// BooleanType accepts true or false.
type BooleanType struct{}

func (t *BooleanType) Kind() Kind { return KindBoolean }

func (t *BooleanType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

func (t *BooleanType) Describe() string { return "true | false" }

// SelectType accepts one of a fixed list of options.
type SelectType struct {
	Options []string
}

func (t *SelectType) Kind() Kind { return KindSelect }

func (t *SelectType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string option, got %T", value)
	}
	for _, o := range t.Options {
		if o == s {
			return nil
		}
	}
	return fmt.Errorf("not one of %s", t.Describe())
}

func (t *SelectType) Describe() string { return strings.Join(t.Options, " | ") }

// StringType accepts strings, optionally matching a regular expression.
type StringType struct {
	pattern *regexp.Regexp
}

func (t *StringType) Kind() Kind { return KindString }

func (t *StringType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	if t.pattern != nil && !t.pattern.MatchString(s) {
		return fmt.Errorf("does not match %s", t.pattern)
	}
	return nil
}

func (t *StringType) Describe() string {
	if t.pattern == nil {
		return "any text"
	}
	return t.pattern.String()
}

// FileType accepts a path whose extension is in Extensions (any path when empty).
type FileType struct {
	Extensions []string
}

func (t *FileType) Kind() Kind { return KindFile }

func (t *FileType) Validate(value any) error {
	s, ok := value.(string)
	if !ok || s == "" {
		return fmt.Errorf("expected file path, got %T", value)
	}
	if len(t.Extensions) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(s))
	for _, e := range t.Extensions {
		if strings.EqualFold(e, ext) {
			return nil
		}
	}
	return fmt.Errorf("extension %q not in %s", ext, t.Describe())
}

func (t *FileType) Describe() string {
	if len(t.Extensions) == 0 {
		return "any file"
	}
	return strings.Join(t.Extensions, " | ")
}

// --- Factory Functions ---

// Number creates a real-valued number type.
func Number(min, max float64) Type { return &NumberType{Min: min, Max: max} }

// Int creates a whole-number type.
func Int(min, max int) Type {
	return &NumberType{Min: float64(min), Max: float64(max), Integer: true}
}

// Bool creates a boolean type.
func Bool() Type { return &BooleanType{} }

// Select creates a select type over the given options.
func Select(options ...string) Type { return &SelectType{Options: options} }

// String creates an unconstrained string type.
func String() Type { return &StringType{} }

// Pattern creates a string type constrained by a regular expression.
// It panics if expr does not compile, like regexp.MustCompile.
func Pattern(expr string) Type { return &StringType{pattern: regexp.MustCompile(expr)} }

// File creates a file type accepting the given extensions (e.g. ".png").
func File(extensions ...string) Type { return &FileType{Extensions: extensions} }

// ToFloat converts any Go numeric value to float64.
func ToFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
