// Package dto holds the wire shapes shared by the HTTP, MCP and CLI surfaces.
// The mapstructure tags let MCP tool arguments decode straight into them.
package dto

import (
	"fmt"

	"github.com/aretw0/heddle/pkg/draft"
	"github.com/aretw0/heddle/pkg/operator"
	"github.com/aretw0/heddle/pkg/schema"
	"github.com/mitchellh/mapstructure"
)

// Operator describes a registered operator.
type Operator struct {
	Name        string           `json:"name"`
	DisplayName string           `json:"display_name,omitempty"`
	Description string           `json:"description,omitempty"`
	Aliases     []string         `json:"aliases,omitempty"`
	Topology    string           `json:"topology"`
	Constraint  string           `json:"constraint"`
	Signature   string           `json:"signature"`
	Standalone  bool             `json:"standalone"`
	Inlets      []operator.Inlet `json:"inlets,omitempty"`
	Params      schema.Schema    `json:"params,omitempty"`
}

// FromOperator summarizes op.
func FromOperator(op *operator.Operator) Operator {
	sig, _ := op.Classification.Signature()
	return Operator{
		Name:        op.Name,
		DisplayName: op.Title(),
		Description: op.Description,
		Aliases:     op.Aliases,
		Topology:    op.Classification.Topology.String(),
		Constraint:  op.Classification.Constraint.String(),
		Signature:   sig.String(),
		Standalone:  op.Classification.Standalone(),
		Inlets:      op.ResolvedInlets(),
		Params:      op.Params,
	}
}

// Draft is a drawdown on the wire: one string per row, see draft.ParseCell.
type Draft struct {
	Name     string          `json:"name,omitempty" mapstructure:"name"`
	Wefts    int             `json:"wefts" mapstructure:"wefts"`
	Warps    int             `json:"warps" mapstructure:"warps"`
	Pattern  []string        `json:"pattern" mapstructure:"pattern"`
	Rows     []draft.RowMeta `json:"rows,omitempty" mapstructure:"rows"`
	Cols     []draft.ColMeta `json:"cols,omitempty" mapstructure:"cols"`
	Selvedge bool            `json:"selvedge,omitempty" mapstructure:"selvedge"`
}

// FromDraft converts d, or returns nil for a nil draft.
func FromDraft(d *draft.Draft) *Draft {
	if d == nil {
		return nil
	}
	out := &Draft{
		Name:     d.Name(),
		Wefts:    d.Wefts(),
		Warps:    d.Warps(),
		Pattern:  d.Pattern(),
		Selvedge: d.HasSelvedge(),
	}
	for i := 0; i < d.Wefts(); i++ {
		out.Rows = append(out.Rows, d.RowMeta(i))
	}
	for j := 0; j < d.Warps(); j++ {
		out.Cols = append(out.Cols, d.ColMeta(j))
	}
	return out
}

// ToDraft parses the pattern and applies the metadata when its length matches.
// Wefts and Warps are informational and ignored.
func (d *Draft) ToDraft() (*draft.Draft, error) {
	if d == nil {
		return nil, nil
	}
	out, err := draft.FromPattern(d.Pattern...)
	if err != nil {
		return nil, fmt.Errorf("invalid draft pattern: %w", err)
	}
	if len(d.Rows) == out.Wefts() {
		for i, m := range d.Rows {
			out.SetRowMeta(i, m)
		}
	}
	if len(d.Cols) == out.Warps() {
		for j, m := range d.Cols {
			out.SetColMeta(j, m)
		}
	}
	out.MarkSelvedge(d.Selvedge)
	out.SetName(d.Name)
	return out, nil
}

// Invoke is the body of a standalone invocation.
type Invoke struct {
	Draft  *Draft         `json:"draft,omitempty" mapstructure:"draft"`
	Params map[string]any `json:"params,omitempty" mapstructure:"params"`
}

// DecodeInvoke decodes loosely typed arguments (e.g. MCP tool arguments) into an Invoke.
func DecodeInvoke(args map[string]any) (*Invoke, error) {
	var out Invoke
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return &out, nil
}
