package operator

import (
	"context"

	"github.com/aretw0/heddle/pkg/draft"
)

// Compute is the body of an operator. It is implemented only by the function
// types below, one per Signature. Compute functions must not modify their input drafts.
type Compute interface {
	signature() Signature
}

// GenerateFunc builds a draft from parameters alone.
type GenerateFunc func(ctx context.Context, p Params) (*draft.Draft, error)

// GenerateWithFunc builds a draft from parameters and an optional input (nil when absent).
type GenerateWithFunc func(ctx context.Context, p Params, in *draft.Draft) (*draft.Draft, error)

// TransformFunc maps one draft to another without parameters.
type TransformFunc func(ctx context.Context, in *draft.Draft) (*draft.Draft, error)

// PipeFunc maps one draft to another under parameters.
type PipeFunc func(ctx context.Context, in *draft.Draft, p Params) (*draft.Draft, error)

// MergeFunc combines the drafts of every inlet into one.
type MergeFunc func(ctx context.Context, in Inlets, p Params) (*draft.Draft, error)

// BranchFunc splits one draft into many.
type BranchFunc func(ctx context.Context, in *draft.Draft, p Params) ([]*draft.Draft, error)

// BusFunc maps the drafts of every inlet to many drafts.
type BusFunc func(ctx context.Context, in Inlets, p Params) ([]*draft.Draft, error)

func (GenerateFunc) signature() Signature     { return SigGenerate }
func (GenerateWithFunc) signature() Signature { return SigGenerateWith }
func (TransformFunc) signature() Signature    { return SigTransform }
func (PipeFunc) signature() Signature         { return SigPipe }
func (MergeFunc) signature() Signature        { return SigMerge }
func (BranchFunc) signature() Signature       { return SigBranch }
func (BusFunc) signature() Signature          { return SigBus }

// Inlets holds the drafts gathered for each declared inlet, by inlet index.
type Inlets [][]*draft.Draft

// First returns the first draft of inlet i, or nil.
func (in Inlets) First(i int) *draft.Draft {
	if i < 0 || i >= len(in) || len(in[i]) == 0 {
		return nil
	}
	return in[i][0]
}

// At returns the drafts of inlet i.
func (in Inlets) At(i int) []*draft.Draft {
	if i < 0 || i >= len(in) {
		return nil
	}
	return in[i]
}

// All flattens every inlet in order.
func (in Inlets) All() []*draft.Draft {
	var out []*draft.Draft
	for _, ds := range in {
		out = append(out, ds...)
	}
	return out
}

// Len returns the number of drafts across all inlets.
func (in Inlets) Len() int {
	n := 0
	for _, ds := range in {
		n += len(ds)
	}
	return n
}
