package ops

import (
	"context"

	"github.com/aretw0/heddle/pkg/draft"
	"github.com/aretw0/heddle/pkg/operator"
	"github.com/aretw0/heddle/pkg/schema"
)

// Invert swaps up and down cells. Unset cells stay unset.
func Invert() *operator.Operator {
	return &operator.Operator{
		Name:           "invert",
		DisplayName:    "Invert",
		Description:    "Swaps raised and lowered cells.",
		Classification: class(operator.Pipe, operator.NoParams),
		Compute: operator.TransformFunc(func(_ context.Context, in *draft.Draft) (*draft.Draft, error) {
			out := in.Clone()
			in.Each(func(i, j int, c draft.Cell) { out.Set(i, j, c.Invert()) })
			return out, nil
		}),
	}
}

// FlipHorizontal mirrors every row left to right, along with the column metadata.
func FlipHorizontal() *operator.Operator {
	return &operator.Operator{
		Name:           "flip-horizontal",
		DisplayName:    "Flip Horizontal",
		Description:    "Mirrors the draft left to right.",
		Aliases:        []string{"fliphorz", "flip-x"},
		Classification: class(operator.Pipe, operator.NoParams),
		Compute: operator.TransformFunc(func(_ context.Context, in *draft.Draft) (*draft.Draft, error) {
			return withinSelvedge(in, func(d *draft.Draft) *draft.Draft {
				w := d.Warps()
				return remap(d, d.Wefts(), w, func(i, j int) (int, int) { return i, w - 1 - j })
			}), nil
		}),
	}
}

// FlipVertical mirrors the draft top to bottom, along with the row metadata.
func FlipVertical() *operator.Operator {
	return &operator.Operator{
		Name:           "flip-vertical",
		DisplayName:    "Flip Vertical",
		Description:    "Mirrors the draft top to bottom.",
		Aliases:        []string{"flipvert", "flip-y"},
		Classification: class(operator.Pipe, operator.NoParams),
		Compute: operator.TransformFunc(func(_ context.Context, in *draft.Draft) (*draft.Draft, error) {
			h := in.Wefts()
			return remap(in, h, in.Warps(), func(i, j int) (int, int) { return h - 1 - i, j }), nil
		}),
	}
}

// Shift rotates cells cyclically by amount along the warps (to the right) or the wefts (down).
func Shift() *operator.Operator {
	return &operator.Operator{
		Name:           "shift",
		DisplayName:    "Shift",
		Description:    "Cyclically shifts the draft by `amount` ends or picks.",
		Classification: class(operator.Pipe, operator.AllRequired),
		Params: schema.Schema{
			{Name: "amount", Type: schema.Int(-4096, 4096), Description: "positive moves right or down"},
			{Name: "axis", Type: schema.Select("warps", "wefts"), Default: "warps"},
		},
		Compute: operator.PipeFunc(func(_ context.Context, in *draft.Draft, p operator.Params) (*draft.Draft, error) {
			args, err := decode[shiftParams](p)
			if err != nil {
				return nil, err
			}
			n := args.Amount
			if args.Axis == "wefts" {
				h := in.Wefts()
				return remap(in, h, in.Warps(), func(i, j int) (int, int) { return mod(i-n, h), j }), nil
			}
			return withinSelvedge(in, func(d *draft.Draft) *draft.Draft {
				w := d.Warps()
				return remap(d, d.Wefts(), w, func(i, j int) (int, int) { return i, mod(j-n, w) })
			}), nil
		}),
	}
}

type shiftParams struct {
	Amount int    `param:"amount"`
	Axis   string `param:"axis"`
}

// Rotate turns the draft clockwise by a quarter, half or three quarters. Row and
// column metadata swap axes on quarter turns.
func Rotate() *operator.Operator {
	return &operator.Operator{
		Name:           "rotate",
		DisplayName:    "Rotate",
		Description:    "Rotates the draft clockwise.",
		Classification: class(operator.Pipe, operator.AllRequired),
		Params: schema.Schema{
			{Name: "degrees", Type: schema.Select("90", "180", "270"), Default: "90"},
		},
		Compute: operator.PipeFunc(func(_ context.Context, in *draft.Draft, p operator.Params) (*draft.Draft, error) {
			args, err := decode[rotateParams](p)
			if err != nil {
				return nil, err
			}
			return withinSelvedge(in, func(d *draft.Draft) *draft.Draft {
				h, w := d.Wefts(), d.Warps()
				switch args.Degrees {
				case "180":
					return remap(d, h, w, func(i, j int) (int, int) { return h - 1 - i, w - 1 - j })
				case "270":
					return transpose(d, func(i, j int) (int, int) { return j, w - 1 - i })
				default:
					return transpose(d, func(i, j int) (int, int) { return h - 1 - j, i })
				}
			}), nil
		}),
	}
}

type rotateParams struct {
	Degrees string `param:"degrees"`
}

// Tile repeats the draft across and down.
func Tile() *operator.Operator {
	return &operator.Operator{
		Name:           "tile",
		DisplayName:    "Tile",
		Description:    "Repeats the draft `across` times horizontally and `down` times vertically.",
		Classification: class(operator.Pipe, operator.AllRequired),
		Params: schema.Schema{
			{Name: "across", Type: schema.Int(1, 64), Default: 2},
			{Name: "down", Type: schema.Int(1, 64), Default: 2},
		},
		Compute: operator.PipeFunc(func(_ context.Context, in *draft.Draft, p operator.Params) (*draft.Draft, error) {
			args, err := decode[tileParams](p)
			if err != nil {
				return nil, err
			}
			return withinSelvedge(in, func(d *draft.Draft) *draft.Draft {
				return draft.Fit(d, d.Wefts()*args.Down, d.Warps()*args.Across)
			}), nil
		}),
	}
}

type tileParams struct {
	Across int `param:"across"`
	Down   int `param:"down"`
}

// Stretch repeats every pick and end in place by the given factors.
func Stretch() *operator.Operator {
	return &operator.Operator{
		Name:           "stretch",
		DisplayName:    "Stretch",
		Description:    "Scales the draft by repeating each pick `wefts` times and each end `warps` times.",
		Classification: class(operator.Pipe, operator.AllRequired),
		Params: schema.Schema{
			{Name: "wefts", Type: schema.Int(1, 64), Default: 2},
			{Name: "warps", Type: schema.Int(1, 64), Default: 2},
		},
		Compute: operator.PipeFunc(func(_ context.Context, in *draft.Draft, p operator.Params) (*draft.Draft, error) {
			args, err := decode[stretchParams](p)
			if err != nil {
				return nil, err
			}
			fy, fx := args.Wefts, args.Warps
			return withinSelvedge(in, func(d *draft.Draft) *draft.Draft {
				return remap(d, d.Wefts()*fy, d.Warps()*fx, func(i, j int) (int, int) { return i / fy, j / fx })
			}), nil
		}),
	}
}

type stretchParams struct {
	Wefts int `param:"wefts"`
	Warps int `param:"warps"`
}

// AddSelvedge adds selvedge ends on both sides. When start is given the per-row flags
// are reset to alternate from that state; otherwise the stored flags are used.
func AddSelvedge() *operator.Operator {
	return &operator.Operator{
		Name:           "add-selvedge",
		DisplayName:    "Selvedge",
		Description:    "Adds (or replaces) a selvedge end on each side.",
		Aliases:        []string{"selvedge"},
		Classification: class(operator.Pipe, operator.ParamsOptional),
		Params: schema.Schema{
			{Name: "start", Type: schema.Select("up", "down"), Description: "state of the left end on the first pick"},
		},
		Compute: operator.PipeFunc(func(_ context.Context, in *draft.Draft, p operator.Params) (*draft.Draft, error) {
			args, err := decode[selvedgeParams](p)
			if err != nil {
				return nil, err
			}
			out := in.Clone()
			if args.Start != "" {
				out.SetSelvedgeFlags(args.Start == "up", args.Start != "up")
			}
			out.AddSelvedge()
			return out, nil
		}),
	}
}

type selvedgeParams struct {
	Start string `param:"start"`
}

// withinSelvedge applies a transform that moves or resizes columns to the body of in.
// A selvedge is stripped first and added back around the result so its ends stay on
// the outside.
func withinSelvedge(in *draft.Draft, fn func(*draft.Draft) *draft.Draft) *draft.Draft {
	if !in.HasSelvedge() {
		return fn(in)
	}
	body := in.Clone()
	body.RemoveSelvedge()
	out := fn(body)
	out.AddSelvedge()
	return out
}

// remap builds a wefts x warps draft whose cell (i, j) and metadata come from in at src(i, j).
func remap(in *draft.Draft, wefts, warps int, src func(i, j int) (int, int)) *draft.Draft {
	if in.IsEmpty() {
		return in.Clone()
	}
	out := in.Clone()
	if wefts != in.Wefts() || warps != in.Warps() {
		out = draft.New(wefts, warps)
	}
	for i := 0; i < wefts; i++ {
		si, _ := src(i, 0)
		out.SetRowMeta(i, in.RowMeta(si))
		for j := 0; j < warps; j++ {
			si, sj := src(i, j)
			out.Set(i, j, in.Get(si, sj))
		}
	}
	for j := 0; j < warps && wefts > 0; j++ {
		_, sj := src(0, j)
		out.SetColMeta(j, in.ColMeta(sj))
	}
	return out
}

// transpose builds the quarter-turned draft; src maps an output cell to its input cell.
// Rows take the metadata of the input columns they came from and vice versa.
func transpose(in *draft.Draft, src func(i, j int) (int, int)) *draft.Draft {
	wefts, warps := in.Warps(), in.Wefts()
	out := draft.New(wefts, warps)
	if in.IsEmpty() {
		return out
	}
	for i := 0; i < wefts; i++ {
		_, sj := src(i, 0)
		col := in.ColMeta(sj)
		out.SetRowMeta(i, draft.RowMeta{Shuttle: col.Shuttle, System: col.System, Selvedge: i%2 == 0})
		for j := 0; j < warps; j++ {
			si, sj := src(i, j)
			out.Set(i, j, in.Get(si, sj))
		}
	}
	for j := 0; j < warps && wefts > 0; j++ {
		si, _ := src(0, j)
		row := in.RowMeta(si)
		out.SetColMeta(j, draft.ColMeta{Shuttle: row.Shuttle, System: row.System})
	}
	return out
}
