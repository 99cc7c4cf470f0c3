package operator

import (
	"context"
	"fmt"

	"github.com/aretw0/heddle/pkg/draft"
	"github.com/aretw0/heddle/pkg/schema"
)

// Role tags an input as parameter values of the operator node itself or as drafts
// arriving at one of its inlets.
type Role int

const (
	RoleParent Role = iota + 1
	RoleChild
)

// Input is one tagged input of a graph-shaped call.
type Input struct {
	Role   Role
	Inlet  int            // inlet index, child inputs only
	Params Params         // parent inputs only
	Drafts []*draft.Draft // child inputs only
}

// ParentInput tags parameter values of the operator node.
func ParentInput(p Params) Input { return Input{Role: RoleParent, Params: p} }

// ChildInput tags drafts arriving at inlet.
func ChildInput(inlet int, ds ...*draft.Draft) Input {
	return Input{Role: RoleChild, Inlet: inlet, Drafts: ds}
}

// Call is the normalized form of a list of inputs for a given operator.
type Call struct {
	Params Params
	Inlets Inlets
	// Missing lists the mandatory inlets and parameters that received nothing.
	Missing []string
}

// Ready reports whether nothing mandatory is missing.
func (c *Call) Ready() bool { return len(c.Missing) == 0 }

// Prepare collects parameters from parent inputs and drafts per inlet from child
// inputs, applies parameter defaults, weakly converts parameter values to their
// declared kinds and reports missing mandatory inputs.
// Invalid parameter values are returned as a *schema.AggregateError.
func Prepare(op *Operator, inputs []Input) (*Call, error) {
	inlets := op.ResolvedInlets()
	call := &Call{Params: Params{}, Inlets: make(Inlets, len(inlets))}

	for _, in := range inputs {
		switch in.Role {
		case RoleParent:
			for k, v := range in.Params {
				call.Params[k] = v
			}
		case RoleChild:
			if in.Inlet < 0 || in.Inlet >= len(inlets) {
				continue
			}
			for _, d := range in.Drafts {
				if d != nil {
					call.Inlets[in.Inlet] = append(call.Inlets[in.Inlet], d)
				}
			}
		}
	}

	for i, inlet := range inlets {
		if inlet.Accepts == One && len(call.Inlets[i]) > 1 {
			call.Inlets[i] = call.Inlets[i][:1]
		}
		if len(call.Inlets[i]) == 0 && !inlet.Optional && op.Classification.Constraint.DraftsRequired() {
			call.Missing = append(call.Missing, "inlet "+inlet.Name)
		}
	}

	if op.Classification.Constraint == NoParams {
		call.Params = nil
		return call, nil
	}
	call.Params = op.Params.Normalize(op.Params.WithDefaults(call.Params))

	var err error
	if op.Classification.Constraint.ParamsRequired() {
		err = op.Params.Validate(call.Params)
		if schema.IsMissing(err) {
			for _, e := range schema.ValidationErrors(err) {
				call.Missing = append(call.Missing, "param "+e.(*schema.ValidationError).Key)
			}
			err = nil
		}
	} else {
		err = op.Params.ValidatePresent(call.Params)
	}
	if err != nil {
		return call, fmt.Errorf("operator %s: %w", op.Name, err)
	}
	return call, nil
}

// Invoke runs op on a graph-shaped list of inputs and returns its outputs.
//
// A missing mandatory inlet or parameter returns an empty result without calling the
// compute function. Outputs carry no user name and are given a generated name from
// the operator and its input drafts.
func Invoke(ctx context.Context, op *Operator, inputs []Input) ([]*draft.Draft, error) {
	call, err := Prepare(op, inputs)
	if err != nil {
		return nil, err
	}
	if !call.Ready() {
		return []*draft.Draft{}, nil
	}
	return call.Run(ctx, op)
}

// Run dispatches a prepared call to the compute function selected by the
// operator's classification.
func (c *Call) Run(ctx context.Context, op *Operator) ([]*draft.Draft, error) {
	sig, err := op.Classification.Signature()
	if err != nil {
		return nil, err
	}
	if op.Compute == nil || op.Compute.signature() != sig {
		return nil, fmt.Errorf("%w: %s compute does not match %s", ErrUnclassified, op.Name, op.Classification)
	}

	var out []*draft.Draft
	single := func(d *draft.Draft, err error) error {
		if d != nil {
			out = []*draft.Draft{d}
		}
		return err
	}

	switch sig {
	case SigGenerate:
		fn, _ := op.Compute.(GenerateFunc)
		err = single(fn(ctx, c.Params))
	case SigGenerateWith:
		fn, _ := op.Compute.(GenerateWithFunc)
		err = single(fn(ctx, c.Params, c.Inlets.First(0)))
	case SigTransform:
		fn, _ := op.Compute.(TransformFunc)
		err = single(fn(ctx, c.Inlets.First(0)))
	case SigPipe:
		fn, _ := op.Compute.(PipeFunc)
		err = single(fn(ctx, c.Inlets.First(0), c.Params))
	case SigMerge:
		fn, _ := op.Compute.(MergeFunc)
		err = single(fn(ctx, c.Inlets, c.Params))
	case SigBranch:
		fn, _ := op.Compute.(BranchFunc)
		out, err = fn(ctx, c.Inlets.First(0), c.Params)
	case SigBus:
		fn, _ := op.Compute.(BusFunc)
		out, err = fn(ctx, c.Inlets, c.Params)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnclassified, op.Classification)
	}
	if err != nil {
		return nil, fmt.Errorf("operator %s: %w", op.Name, err)
	}

	name := draft.ChainName(op.Name, c.Inlets.All()...)
	result := make([]*draft.Draft, 0, len(out))
	for _, d := range out {
		if d == nil {
			continue
		}
		d.SetName("")
		d.SetGeneratedName(name)
		result = append(result, d)
	}
	return result, nil
}

// InvokeStandalone steps a single operator outside the graph with the current draft
// and a parameter list. Only Pipe/AllRequired and Seed/DraftsOptional operators can be
// stepped this way. The input draft is not modified.
func InvokeStandalone(ctx context.Context, op *Operator, current *draft.Draft, p Params) (*draft.Draft, error) {
	if !op.Classification.Standalone() {
		return nil, fmt.Errorf("operator %s (%s) cannot be invoked standalone", op.Name, op.Classification)
	}
	inputs := []Input{ParentInput(p)}
	if current != nil {
		inputs = append(inputs, ChildInput(0, current.Clone()))
	}
	out, err := Invoke(ctx, op, inputs)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}
