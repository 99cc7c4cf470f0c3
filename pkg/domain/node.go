package domain

import "fmt"

// NodeID identifies a node in a workspace graph. Ids are assigned from 1 upwards and
// never reused; NoNode is the zero value.
type NodeID int

// NoNode means "no node", e.g. a draft with no parent operator.
const NoNode NodeID = 0

// NodeKind defines what a node carries.
type NodeKind int

const (
	KindDraft NodeKind = iota + 1
	KindOperator
	KindConnection
)

func (k NodeKind) String() string {
	switch k {
	case KindDraft:
		return "draft"
	case KindOperator:
		return "operator"
	case KindConnection:
		return "connection"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// ParseNodeKind is the inverse of NodeKind.String.
func ParseNodeKind(s string) (NodeKind, error) {
	switch s {
	case "draft":
		return KindDraft, nil
	case "operator", "op":
		return KindOperator, nil
	case "connection", "cxn":
		return KindConnection, nil
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// MarshalText encodes the kind by name for JSON and YAML documents.
func (k NodeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name.
func (k *NodeKind) UnmarshalText(text []byte) error {
	parsed, err := ParseNodeKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Bounds is the screen rectangle of a node as kept by the host.
type Bounds struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
}
