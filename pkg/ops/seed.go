package ops

import (
	"context"
	"math/rand/v2"

	"github.com/aretw0/heddle/pkg/draft"
	"github.com/aretw0/heddle/pkg/operator"
	"github.com/aretw0/heddle/pkg/schema"
)

// Tabby generates a plain-weave block of 2r x 2r where a cell is up when its row and
// column fall in the same half. With a shape input the structure is repeated over the
// shape's size and kept only where the shape is up.
func Tabby() *operator.Operator {
	return &operator.Operator{
		Name:           "tabby",
		DisplayName:    "Tabby",
		Description:    "Plain weave in blocks of `repeats` picks and ends.",
		Aliases:        []string{"plain"},
		Classification: class(operator.Seed, operator.DraftsOptional),
		Inlets:         []operator.Inlet{{Name: "shape", Accepts: operator.One, Optional: true}},
		Params: schema.Schema{
			{Name: "repeats", Type: schema.Int(1, 64), Default: 1, Description: "width of each block"},
		},
		Compute: operator.GenerateWithFunc(func(_ context.Context, p operator.Params, shape *draft.Draft) (*draft.Draft, error) {
			args, err := decode[tabbyParams](p)
			if err != nil {
				return nil, err
			}
			r := args.Repeats
			unit := generate(2*r, 2*r, func(i, j int) bool { return (i < r) == (j < r) })
			if shape.IsEmpty() {
				return unit, nil
			}
			return maskBy(unit, shape), nil
		}),
	}
}

type tabbyParams struct {
	Repeats int `param:"repeats"`
}

// Twill generates a (up/down) twill, stepping one end per pick.
func Twill() *operator.Operator {
	return &operator.Operator{
		Name:           "twill",
		DisplayName:    "Twill",
		Description:    "Diagonal weave with `up` ends raised and `down` lowered per pick.",
		Classification: class(operator.Seed, operator.NoDrafts),
		Params: schema.Schema{
			{Name: "up", Type: schema.Int(1, 32), Default: 1},
			{Name: "down", Type: schema.Int(1, 32), Default: 3},
			{Name: "direction", Type: schema.Select("z", "s"), Default: "z"},
		},
		Compute: operator.GenerateFunc(func(_ context.Context, p operator.Params) (*draft.Draft, error) {
			args, err := decode[twillParams](p)
			if err != nil {
				return nil, err
			}
			up := args.Up
			n := up + args.Down
			step := 1
			if args.Direction == "s" {
				step = -1
			}
			return generate(n, n, func(i, j int) bool { return mod(j-step*i, n) < up }), nil
		}),
	}
}

type twillParams struct {
	Up        int    `param:"up"`
	Down      int    `param:"down"`
	Direction string `param:"direction"`
}

// Satin generates a satin with one raised end per pick, advancing by move ends.
func Satin() *operator.Operator {
	return &operator.Operator{
		Name:           "satin",
		DisplayName:    "Satin",
		Description:    "Satin of `size` ends with interlacements `move` ends apart.",
		Classification: class(operator.Seed, operator.NoDrafts),
		Params: schema.Schema{
			{Name: "size", Type: schema.Int(2, 64), Default: 5},
			{Name: "move", Type: schema.Int(1, 63), Default: 2},
		},
		Compute: operator.GenerateFunc(func(_ context.Context, p operator.Params) (*draft.Draft, error) {
			args, err := decode[satinParams](p)
			if err != nil {
				return nil, err
			}
			n, move := args.Size, args.Move
			return generate(n, n, func(i, j int) bool { return j == mod(i*move, n) }), nil
		}),
	}
}

type satinParams struct {
	Size int `param:"size"`
	Move int `param:"move"`
}

// Rectangle produces a draft of a given size, repeating the input over it when one is
// connected and leaving every cell down otherwise.
func Rectangle() *operator.Operator {
	return &operator.Operator{
		Name:           "rectangle",
		DisplayName:    "Rectangle",
		Description:    "Blank draft, or the input repeated to the given size.",
		Classification: class(operator.Seed, operator.DraftsOptional),
		Params: schema.Schema{
			{Name: "wefts", Type: schema.Int(1, 4096), Default: 8},
			{Name: "warps", Type: schema.Int(1, 4096), Default: 8},
		},
		Compute: operator.GenerateWithFunc(func(_ context.Context, p operator.Params, in *draft.Draft) (*draft.Draft, error) {
			args, err := decode[sizeParams](p)
			if err != nil {
				return nil, err
			}
			if in.IsEmpty() {
				return draft.New(args.Wefts, args.Warps), nil
			}
			return draft.Fit(in, args.Wefts, args.Warps), nil
		}),
	}
}

type sizeParams struct {
	Wefts int `param:"wefts"`
	Warps int `param:"warps"`
}

// Random raises cells with the given density. The same seed always yields the same draft.
func Random() *operator.Operator {
	return &operator.Operator{
		Name:           "random",
		DisplayName:    "Random",
		Description:    "Cells raised at random with probability `density`.",
		Classification: class(operator.Seed, operator.NoDrafts),
		Params: schema.Schema{
			{Name: "wefts", Type: schema.Int(1, 4096), Default: 8},
			{Name: "warps", Type: schema.Int(1, 4096), Default: 8},
			{Name: "density", Type: schema.Number(0, 1), Default: 0.5},
			{Name: "seed", Type: schema.Int(0, 1<<31-1), Default: 1},
		},
		Compute: operator.GenerateFunc(func(_ context.Context, p operator.Params) (*draft.Draft, error) {
			args, err := decode[randomParams](p)
			if err != nil {
				return nil, err
			}
			seed := uint64(args.Seed)
			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			return generate(args.Wefts, args.Warps, func(int, int) bool { return rng.Float64() < args.Density }), nil
		}),
	}
}

type randomParams struct {
	Wefts   int     `param:"wefts"`
	Warps   int     `param:"warps"`
	Density float64 `param:"density"`
	Seed    int     `param:"seed"`
}

func generate(wefts, warps int, up func(i, j int) bool) *draft.Draft {
	d := draft.New(wefts, warps)
	for i := 0; i < wefts; i++ {
		for j := 0; j < warps; j++ {
			d.Set(i, j, draft.FromBool(up(i, j)))
		}
	}
	return d
}

// maskBy repeats unit over shape's size and keeps it only where shape is up.
func maskBy(unit, shape *draft.Draft) *draft.Draft {
	out := draft.Fit(unit, shape.Wefts(), shape.Warps())
	for i := 0; i < out.Wefts(); i++ {
		out.SetRowMeta(i, shape.RowMeta(i))
		for j := 0; j < out.Warps(); j++ {
			if !shape.IsUp(i, j) {
				out.Set(i, j, draft.Unset)
			}
		}
	}
	for j := 0; j < out.Warps(); j++ {
		out.SetColMeta(j, shape.ColMeta(j))
	}
	return out
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
