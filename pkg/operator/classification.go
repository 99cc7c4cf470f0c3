package operator

import (
	"errors"
	"fmt"
)

// ErrUnclassified is returned for topology/constraint pairs that have no signature.
var ErrUnclassified = errors.New("unclassified operator")

// Topology is the draft cardinality contract of an operator.
type Topology int

const (
	Seed   Topology = iota + 1 // 0 or 1 draft in, 1 out
	Pipe                       // exactly 1 in, 1 out
	Merge                      // N in across inlets, 1 out
	Branch                     // 1 in, N out
	Bus                        // N in, M out
)

var topologyNames = map[Topology]string{
	Seed:   "seed",
	Pipe:   "pipe",
	Merge:  "merge",
	Branch: "branch",
	Bus:    "bus",
}

func (t Topology) String() string {
	if s, ok := topologyNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Topology(%d)", int(t))
}

// Constraint is the draft/parameter optionality contract of an operator.
type Constraint int

const (
	NoDrafts       Constraint = iota + 1 // drafts forbidden, params mandatory
	NoParams                             // draft mandatory, params forbidden
	DraftsOptional                       // params mandatory, draft optional
	ParamsOptional                       // draft mandatory, params optional
	AllRequired                          // both mandatory
)

var constraintNames = map[Constraint]string{
	NoDrafts:       "no-drafts",
	NoParams:       "no-params",
	DraftsOptional: "drafts-optional",
	ParamsOptional: "params-optional",
	AllRequired:    "all-required",
}

func (c Constraint) String() string {
	if s, ok := constraintNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Constraint(%d)", int(c))
}

// DraftsRequired reports whether a missing mandatory inlet short-circuits invocation.
func (c Constraint) DraftsRequired() bool {
	return c == NoParams || c == ParamsOptional || c == AllRequired
}

// ParamsRequired reports whether a missing parameter short-circuits invocation.
func (c Constraint) ParamsRequired() bool {
	return c == NoDrafts || c == DraftsOptional || c == AllRequired
}

// Signature is the shape of a compute function.
type Signature int

const (
	SigGenerate     Signature = iota + 1 // (params) -> draft
	SigGenerateWith                      // (params, optional draft) -> draft
	SigTransform                         // (draft) -> draft
	SigPipe                              // (draft, params) -> draft
	SigMerge                             // (inlets, params) -> draft
	SigBranch                            // (draft, params) -> drafts
	SigBus                               // (inlets, params) -> drafts
)

func (s Signature) String() string {
	switch s {
	case SigGenerate:
		return "generate"
	case SigGenerateWith:
		return "generate-with"
	case SigTransform:
		return "transform"
	case SigPipe:
		return "pipe"
	case SigMerge:
		return "merge"
	case SigBranch:
		return "branch"
	case SigBus:
		return "bus"
	default:
		return fmt.Sprintf("Signature(%d)", int(s))
	}
}

// Classification is the (topology, constraint) pair of an operator.
type Classification struct {
	Topology   Topology   `json:"topology"`
	Constraint Constraint `json:"constraint"`
}

func (c Classification) String() string {
	return c.Topology.String() + "/" + c.Constraint.String()
}

// Signature returns the compute shape fixed by the classification.
// Every pair is matched explicitly; pairs that cannot be satisfied return ErrUnclassified.
func (c Classification) Signature() (Signature, error) {
	switch c.Topology {
	case Seed:
		switch c.Constraint {
		case NoDrafts:
			return SigGenerate, nil
		case NoParams:
			return SigTransform, nil
		case DraftsOptional:
			return SigGenerateWith, nil
		case ParamsOptional, AllRequired:
			return SigPipe, nil
		}
	case Pipe:
		switch c.Constraint {
		case NoParams:
			return SigTransform, nil
		case DraftsOptional:
			return SigGenerateWith, nil
		case ParamsOptional, AllRequired:
			return SigPipe, nil
		}
	case Merge:
		switch c.Constraint {
		case NoParams, DraftsOptional, ParamsOptional, AllRequired:
			return SigMerge, nil
		}
	case Branch:
		switch c.Constraint {
		case NoParams, DraftsOptional, ParamsOptional, AllRequired:
			return SigBranch, nil
		}
	case Bus:
		switch c.Constraint {
		case NoParams, DraftsOptional, ParamsOptional, AllRequired:
			return SigBus, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnclassified, c)
}

// Standalone reports whether operators of this class can be stepped outside the graph
// with a single current draft and a parameter list.
func (c Classification) Standalone() bool {
	return c == Classification{Pipe, AllRequired} || c == Classification{Seed, DraftsOptional}
}

// MarshalText encodes the topology by name.
func (t Topology) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// MarshalText encodes the constraint by name.
func (c Constraint) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
