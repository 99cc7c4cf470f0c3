package domain

import (
	"maps"
	"slices"

	"github.com/aretw0/heddle/pkg/draft"
)

// DocumentVersion is the current persisted document format.
const DocumentVersion = 1

// Document is the persisted shape of a workspace. Only seed drafts (those with no
// upstream operator) carry their payload; the rest are rebuilt by replaying the graph.
type Document struct {
	ID        string           `json:"id,omitempty" yaml:"id,omitempty"`
	Version   int              `json:"version" yaml:"version"`
	Nodes     []NodeRecord     `json:"nodes" yaml:"nodes"`
	Edges     []EdgeRecord     `json:"edges" yaml:"edges"`
	Drafts    []DraftRecord    `json:"drafts,omitempty" yaml:"drafts,omitempty"`
	Operators []OperatorRecord `json:"operators,omitempty" yaml:"operators,omitempty"`
}

// NodeRecord is one entry of the flat node list.
type NodeRecord struct {
	ID     NodeID   `json:"id" yaml:"id"`
	Kind   NodeKind `json:"kind" yaml:"kind"`
	Bounds Bounds   `json:"bounds" yaml:"bounds"`
}

// Link is one ordered input or output reference of an edge record.
type Link struct {
	Node  NodeID `json:"node" yaml:"node"`
	Inlet int    `json:"inlet" yaml:"inlet"`
}

// EdgeRecord holds the graph bookkeeping of one node.
type EdgeRecord struct {
	Node    NodeID `json:"node" yaml:"node"`
	Parent  NodeID `json:"parent,omitempty" yaml:"parent,omitempty"`
	Inputs  []Link `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs []Link `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// DraftRecord is the payload of a seed draft node.
type DraftRecord struct {
	Node     NodeID          `json:"node" yaml:"node"`
	Name     string          `json:"name,omitempty" yaml:"name,omitempty"`
	Pattern  []string        `json:"pattern" yaml:"pattern"`
	Rows     []draft.RowMeta `json:"rows,omitempty" yaml:"rows,omitempty"`
	Cols     []draft.ColMeta `json:"cols,omitempty" yaml:"cols,omitempty"`
	Selvedge bool            `json:"selvedge,omitempty" yaml:"selvedge,omitempty"`
}

// OperatorRecord names the operator of an operator node and its parameter values.
type OperatorRecord struct {
	Node     NodeID         `json:"node" yaml:"node"`
	Operator string         `json:"operator" yaml:"operator"`
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// Clone returns a deep copy of the document. Parameter values are copied shallowly.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Nodes = slices.Clone(d.Nodes)
	out.Edges = make([]EdgeRecord, len(d.Edges))
	for i, e := range d.Edges {
		e.Inputs = slices.Clone(e.Inputs)
		e.Outputs = slices.Clone(e.Outputs)
		out.Edges[i] = e
	}
	if d.Edges == nil {
		out.Edges = nil
	}
	out.Drafts = make([]DraftRecord, len(d.Drafts))
	for i, r := range d.Drafts {
		r.Pattern = slices.Clone(r.Pattern)
		r.Rows = slices.Clone(r.Rows)
		r.Cols = slices.Clone(r.Cols)
		out.Drafts[i] = r
	}
	if d.Drafts == nil {
		out.Drafts = nil
	}
	out.Operators = make([]OperatorRecord, len(d.Operators))
	for i, r := range d.Operators {
		r.Params = maps.Clone(r.Params)
		out.Operators[i] = r
	}
	if d.Operators == nil {
		out.Operators = nil
	}
	return &out
}
