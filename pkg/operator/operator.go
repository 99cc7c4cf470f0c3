package operator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/heddle/pkg/schema"
)

// Accepts is the number of drafts an inlet takes.
type Accepts int

const (
	One  Accepts = iota + 1 // exactly one draft; extra drafts are dropped
	Many                    // any number of drafts, concatenated in arrival order
)

func (a Accepts) String() string {
	if a == Many {
		return "many"
	}
	return "one"
}

// MarshalText encodes the count by name.
func (a Accepts) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// Inlet is a named input slot of an operator.
type Inlet struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Accepts     Accepts `json:"accepts"`
	// Optional inlets never short-circuit invocation when empty.
	Optional bool `json:"optional,omitempty"`
}

// defaultInlet is used by draft-consuming operators that declare no inlets.
var defaultInlet = Inlet{Name: "input", Accepts: One}

// Operator describes a draft transformation and its compute body.
type Operator struct {
	Name           string
	DisplayName    string
	Description    string
	Aliases        []string // historical names kept for loading older documents
	Classification Classification
	Inlets         []Inlet
	Params         schema.Schema
	Compute        Compute
}

// Validate checks that the compute body matches the classification and that inlets
// and parameters are consistent with it.
func (op *Operator) Validate() error {
	if op.Name == "" {
		return errors.New("operator has no name")
	}
	sig, err := op.Classification.Signature()
	if err != nil {
		return fmt.Errorf("operator %s: %w", op.Name, err)
	}
	if op.Compute == nil {
		return fmt.Errorf("operator %s: no compute function", op.Name)
	}
	if got := op.Compute.signature(); got != sig {
		return fmt.Errorf("operator %s: %s requires %s compute, got %s", op.Name, op.Classification, sig, got)
	}
	if op.Classification.Constraint == NoDrafts && len(op.Inlets) > 0 {
		return fmt.Errorf("operator %s: no-drafts operator declares inlets", op.Name)
	}
	if op.Classification.Constraint == NoParams && len(op.Params) > 0 {
		return fmt.Errorf("operator %s: no-params operator declares parameters", op.Name)
	}
	seen := make(map[string]bool, len(op.Params))
	for _, p := range op.Params {
		if p.Name == "" || seen[p.Name] {
			return fmt.Errorf("operator %s: duplicate or empty parameter %q", op.Name, p.Name)
		}
		if p.Type == nil {
			return fmt.Errorf("operator %s: parameter %q has no type", op.Name, p.Name)
		}
		if p.Default != nil {
			if err := p.Type.Validate(p.Default); err != nil {
				return fmt.Errorf("operator %s: default of %q: %w", op.Name, p.Name, err)
			}
		}
		seen[p.Name] = true
	}
	return nil
}

// ResolvedInlets returns the declared inlets, or the implicit single inlet of
// operators that consume drafts without declaring any.
func (op *Operator) ResolvedInlets() []Inlet {
	if len(op.Inlets) > 0 || op.Classification.Constraint == NoDrafts {
		return op.Inlets
	}
	in := defaultInlet
	switch op.Classification.Topology {
	case Merge, Bus:
		in.Accepts = Many
	}
	return []Inlet{in}
}

// Title returns the display name, falling back to the name.
func (op *Operator) Title() string {
	if op.DisplayName != "" {
		return op.DisplayName
	}
	return op.Name
}

// Doc renders the operator as a markdown reference page.
func (op *Operator) Doc() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", op.Title())
	fmt.Fprintf(&sb, "`%s` · %s\n\n", op.Name, op.Classification)
	if op.Description != "" {
		sb.WriteString(op.Description + "\n\n")
	}
	if len(op.Aliases) > 0 {
		fmt.Fprintf(&sb, "Also known as: %s\n\n", strings.Join(op.Aliases, ", "))
	}
	if inlets := op.ResolvedInlets(); len(inlets) > 0 {
		sb.WriteString("## Inlets\n\n| # | Name | Accepts | Optional |\n|---|---|---|---|\n")
		for i, in := range inlets {
			optional := in.Optional || op.Classification.Constraint == DraftsOptional
			fmt.Fprintf(&sb, "| %d | %s | %s | %t |\n", i, in.Name, in.Accepts, optional)
		}
		sb.WriteString("\n")
	}
	if len(op.Params) > 0 {
		sb.WriteString("## Parameters\n\n| Name | Kind | Range | Default |\n|---|---|---|---|\n")
		for _, p := range op.Params {
			def := "-"
			if p.Default != nil {
				def = fmt.Sprint(p.Default)
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", p.Name, p.Type.Kind(), p.Type.Describe(), def)
		}
	}
	return sb.String()
}
