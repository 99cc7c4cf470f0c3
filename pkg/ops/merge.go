package ops

import (
	"context"

	"github.com/aretw0/heddle/pkg/draft"
	"github.com/aretw0/heddle/pkg/operator"
	"github.com/aretw0/heddle/pkg/schema"
)

var repeatParam = schema.Param{
	Name:        "repeat",
	Type:        schema.Bool(),
	Default:     true,
	Description: "size to the least common multiple of the inputs instead of the largest input",
}

type mergeParams struct {
	Repeat bool `param:"repeat"`
}

type binaryParams struct {
	Repeat     bool `param:"repeat"`
	ShiftEnds  int  `param:"shift-ends"`
	ShiftPicks int  `param:"shift-picks"`
}

var draftsInlet = []operator.Inlet{{Name: "drafts", Accepts: operator.Many}}

// Interlace alternates picks from each input, so the result has one pick of every
// input per repeat. Row systems are made unique per input.
func Interlace() *operator.Operator {
	return &operator.Operator{
		Name:           "interlace",
		DisplayName:    "Interlace",
		Description:    "Alternates the picks of every input draft.",
		Classification: class(operator.Merge, operator.ParamsOptional),
		Inlets:         draftsInlet,
		Params:         schema.Schema{repeatParam},
		Compute: operator.MergeFunc(func(_ context.Context, in operator.Inlets, p operator.Params) (*draft.Draft, error) {
			inputs := nonEmpty(in.All())
			if len(inputs) == 0 {
				return draft.New(0, 0), nil
			}
			args, err := decode[mergeParams](p)
			if err != nil {
				return nil, err
			}
			wefts, warps := draft.MergeSize(inputs, args.Repeat)
			n := len(inputs)
			fitted, systems := fitAll(inputs, wefts, warps)

			out := draft.New(wefts*n, warps)
			for i := 0; i < wefts*n; i++ {
				src, row := fitted[i%n], i/n
				meta := src.RowMeta(row)
				meta.System = systems[i%n][row]
				meta.Selvedge = i%2 == 0
				out.SetRowMeta(i, meta)
				for j := 0; j < warps; j++ {
					out.Set(i, j, src.Get(row, j))
				}
			}
			for j := 0; j < warps; j++ {
				out.SetColMeta(j, fitted[0].ColMeta(j))
			}
			return out, nil
		}),
	}
}

// Layer weaves each input as its own layer of a multi-layer cloth. Picks and ends
// alternate between layers; when weaving a layer, the ends of the layers above it are
// raised and the ends below it stay down.
func Layer() *operator.Operator {
	return &operator.Operator{
		Name:           "layer",
		DisplayName:    "Layer",
		Description:    "Stacks the inputs as layers of a multi-layer cloth, first on top.",
		Aliases:        []string{"layer-notation"},
		Classification: class(operator.Merge, operator.ParamsOptional),
		Inlets:         draftsInlet,
		Params:         schema.Schema{repeatParam},
		Compute: operator.MergeFunc(func(_ context.Context, in operator.Inlets, p operator.Params) (*draft.Draft, error) {
			inputs := nonEmpty(in.All())
			if len(inputs) == 0 {
				return draft.New(0, 0), nil
			}
			args, err := decode[mergeParams](p)
			if err != nil {
				return nil, err
			}
			wefts, warps := draft.MergeSize(inputs, args.Repeat)
			n := len(inputs)
			fitted, rowSystems := fitAll(inputs, wefts, warps)
			colMaps := make([][]int, n)
			for k, f := range fitted {
				colMaps[k] = f.ColSystemMapping()
			}
			colSystems := draft.UniquifySystems(colMaps...)

			out := draft.New(wefts*n, warps*n)
			for i := 0; i < wefts*n; i++ {
				rl, row := i%n, i/n
				meta := fitted[rl].RowMeta(row)
				meta.System = rowSystems[rl][row]
				meta.Selvedge = i%2 == 0
				out.SetRowMeta(i, meta)
				for j := 0; j < warps*n; j++ {
					cl, col := j%n, j/n
					switch {
					case cl == rl:
						out.Set(i, j, fitted[rl].Get(row, col))
					case cl < rl:
						out.Set(i, j, draft.Up)
					default:
						out.Set(i, j, draft.Down)
					}
				}
			}
			for j := 0; j < warps*n; j++ {
				cl, col := j%n, j/n
				meta := fitted[cl].ColMeta(col)
				meta.System = colSystems[cl][col]
				out.SetColMeta(j, meta)
			}
			return out, nil
		}),
	}
}

// JoinLeft places the inputs side by side, left to right.
func JoinLeft() *operator.Operator {
	return &operator.Operator{
		Name:           "join-left",
		DisplayName:    "Join Left",
		Description:    "Places the inputs side by side; all are repeated to a common height.",
		Classification: class(operator.Merge, operator.ParamsOptional),
		Inlets:         draftsInlet,
		Params:         schema.Schema{repeatParam},
		Compute: operator.MergeFunc(func(_ context.Context, in operator.Inlets, p operator.Params) (*draft.Draft, error) {
			inputs := nonEmpty(in.All())
			if len(inputs) == 0 {
				return draft.New(0, 0), nil
			}
			args, err := decode[mergeParams](p)
			if err != nil {
				return nil, err
			}
			wefts, _ := draft.MergeSize(inputs, args.Repeat)
			total := 0
			for _, d := range inputs {
				total += d.Warps()
			}
			out := draft.Fit(inputs[0], wefts, total)
			out.MarkSelvedge(false)
			offset := 0
			for _, d := range inputs {
				f := draft.Fit(d, wefts, d.Warps())
				for j := 0; j < d.Warps(); j++ {
					out.SetColMeta(offset+j, f.ColMeta(j))
					for i := 0; i < wefts; i++ {
						out.Set(i, offset+j, f.Get(i, j))
					}
				}
				offset += d.Warps()
			}
			return out, nil
		}),
	}
}

// JoinTop stacks the inputs top to bottom.
func JoinTop() *operator.Operator {
	return &operator.Operator{
		Name:           "join-top",
		DisplayName:    "Join Top",
		Description:    "Stacks the inputs vertically; all are repeated to a common width.",
		Classification: class(operator.Merge, operator.ParamsOptional),
		Inlets:         draftsInlet,
		Params:         schema.Schema{repeatParam},
		Compute: operator.MergeFunc(func(_ context.Context, in operator.Inlets, p operator.Params) (*draft.Draft, error) {
			inputs := nonEmpty(in.All())
			if len(inputs) == 0 {
				return draft.New(0, 0), nil
			}
			args, err := decode[mergeParams](p)
			if err != nil {
				return nil, err
			}
			_, warps := draft.MergeSize(inputs, args.Repeat)
			total := 0
			for _, d := range inputs {
				total += d.Wefts()
			}
			out := draft.Fit(inputs[0], total, warps)
			out.MarkSelvedge(false)
			offset := 0
			for _, d := range inputs {
				f := draft.Fit(d, d.Wefts(), warps)
				for i := 0; i < d.Wefts(); i++ {
					out.SetRowMeta(offset+i, f.RowMeta(i))
					for j := 0; j < warps; j++ {
						out.Set(offset+i, j, f.Get(i, j))
					}
				}
				offset += d.Wefts()
			}
			return out, nil
		}),
	}
}

// Overlay raises every cell that is up in any input.
func Overlay() *operator.Operator {
	return binary("overlay", "Overlay", "Union of the raised cells of `a` and every `b`.", draft.OpOr, "union")
}

// Atop places the b inputs over a: their determined cells win.
func Atop() *operator.Operator {
	return binary("atop", "Atop", "Places every `b` over `a`; set cells of `b` win.", draft.OpUp)
}

// Mask keeps only cells raised in a and every b.
func Mask() *operator.Operator {
	return binary("mask", "Mask", "Intersection of the raised cells of `a` and every `b`.", draft.OpAnd, "intersect")
}

// Knockout raises cells raised in exactly one of the accumulated result and each b.
func Knockout() *operator.Operator {
	return binary("knockout", "Knockout", "Difference of the raised cells of `a` and every `b`.", draft.OpNeq, "difference")
}

// binary builds an operator that folds every b draft into a with op. Atop folds with
// the b draft as first operand so it lands on top.
func binary(name, title, desc string, op draft.Op, aliases ...string) *operator.Operator {
	return &operator.Operator{
		Name:           name,
		DisplayName:    title,
		Description:    desc,
		Aliases:        aliases,
		Classification: class(operator.Merge, operator.ParamsOptional),
		Inlets: []operator.Inlet{
			{Name: "a", Accepts: operator.One},
			{Name: "b", Accepts: operator.Many, Optional: true},
		},
		Params: schema.Schema{
			repeatParam,
			{Name: "shift-ends", Type: schema.Int(-4096, 4096), Default: 0, Description: "offset of the b drafts to the right"},
			{Name: "shift-picks", Type: schema.Int(-4096, 4096), Default: 0, Description: "offset of the b drafts downwards"},
		},
		Compute: operator.MergeFunc(func(_ context.Context, in operator.Inlets, p operator.Params) (*draft.Draft, error) {
			args, err := decode[binaryParams](p)
			if err != nil {
				return nil, err
			}
			a := in.First(0)
			bs := nonEmpty(in.At(1))
			wefts, warps := draft.MergeSize(append([]*draft.Draft{a}, bs...), args.Repeat)
			out := draft.Fit(a, wefts, warps)
			dy, dx := args.ShiftPicks, args.ShiftEnds
			for _, b := range bs {
				for i := 0; i < wefts; i++ {
					for j := 0; j < warps; j++ {
						bc := draft.Sample(b, i-dy, j-dx)
						if op == draft.OpUp {
							out.Set(i, j, draft.Combine(op, bc, out.Get(i, j)))
						} else {
							out.Set(i, j, draft.Combine(op, out.Get(i, j), bc))
						}
					}
				}
			}
			return out, nil
		}),
	}
}

// fitAll repeats every input to the common size and returns the uniquified row systems
// of the fitted drafts.
func fitAll(inputs []*draft.Draft, wefts, warps int) ([]*draft.Draft, [][]int) {
	fitted := make([]*draft.Draft, len(inputs))
	rows := make([][]int, len(inputs))
	for k, d := range inputs {
		fitted[k] = draft.Fit(d, wefts, warps)
		rows[k] = fitted[k].RowSystemMapping()
	}
	return fitted, draft.UniquifySystems(rows...)
}

func nonEmpty(ds []*draft.Draft) []*draft.Draft {
	out := make([]*draft.Draft, 0, len(ds))
	for _, d := range ds {
		if !d.IsEmpty() {
			out = append(out, d)
		}
	}
	return out
}
