package ops

import (
	"context"

	"github.com/aretw0/heddle/pkg/draft"
	"github.com/aretw0/heddle/pkg/operator"
	"github.com/aretw0/heddle/pkg/schema"
)

// Slice cuts the draft into parts of near-equal size along one axis. Parts that
// would be empty are omitted.
func Slice() *operator.Operator {
	return &operator.Operator{
		Name:           "slice",
		DisplayName:    "Slice",
		Description:    "Cuts the draft into `parts` pieces along `axis`.",
		Classification: class(operator.Branch, operator.AllRequired),
		Params: schema.Schema{
			{Name: "parts", Type: schema.Int(2, 64), Default: 2},
			{Name: "axis", Type: schema.Select("wefts", "warps"), Default: "wefts"},
		},
		Compute: operator.BranchFunc(func(_ context.Context, in *draft.Draft, p operator.Params) ([]*draft.Draft, error) {
			args, err := decode[sliceParams](p)
			if err != nil {
				return nil, err
			}
			parts := args.Parts
			byWefts := args.Axis != "warps"
			length := in.Warps()
			if byWefts {
				length = in.Wefts()
			}

			var out []*draft.Draft
			for k := 0; k < parts; k++ {
				lo, hi := k*length/parts, (k+1)*length/parts
				if hi <= lo {
					continue
				}
				piece := in.Clone()
				if byWefts {
					cut(lo, hi, piece.Wefts(), piece.DeleteRow)
				} else {
					cut(lo, hi, piece.Warps(), piece.DeleteCol)
					piece.MarkSelvedge(false)
				}
				out = append(out, piece)
			}
			return out, nil
		}),
	}
}

type sliceParams struct {
	Parts int    `param:"parts"`
	Axis  string `param:"axis"`
}

// cut keeps indices [lo, hi) of an axis of length n, deleting the rest with del.
func cut(lo, hi, n int, del func(int)) {
	for k := n - 1; k >= hi; k-- {
		del(k)
	}
	for k := 0; k < lo; k++ {
		del(0)
	}
}

// SplitBySystem returns one draft per row system, in order of first appearance,
// holding only the picks of that system.
func SplitBySystem() *operator.Operator {
	return &operator.Operator{
		Name:           "split-by-system",
		DisplayName:    "Split by System",
		Description:    "Separates the picks of each weft system into their own draft.",
		Aliases:        []string{"deinterlace"},
		Classification: class(operator.Branch, operator.NoParams),
		Compute: operator.BranchFunc(func(_ context.Context, in *draft.Draft, _ operator.Params) ([]*draft.Draft, error) {
			var order []int
			rows := make(map[int][]int)
			for i, sys := range in.RowSystemMapping() {
				if _, ok := rows[sys]; !ok {
					order = append(order, sys)
				}
				rows[sys] = append(rows[sys], i)
			}

			out := make([]*draft.Draft, 0, len(order))
			for _, sys := range order {
				idx := rows[sys]
				d := draft.New(len(idx), in.Warps())
				for i, src := range idx {
					d.SetRowMeta(i, in.RowMeta(src))
					for j := 0; j < in.Warps(); j++ {
						d.Set(i, j, in.Get(src, j))
					}
				}
				for j := 0; j < in.Warps(); j++ {
					d.SetColMeta(j, in.ColMeta(j))
				}
				out = append(out, d)
			}
			return out, nil
		}),
	}
}
