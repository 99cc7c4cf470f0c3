package ops_test

import (
	"context"
	"testing"

	"github.com/aretw0/heddle/pkg/draft"
	"github.com/aretw0/heddle/pkg/operator"
	"github.com/aretw0/heddle/pkg/ops"
	"github.com/aretw0/heddle/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reg = ops.Default()

// run invokes a built-in operator; inlets[k] are the drafts for inlet k.
func run(t *testing.T, name string, params operator.Params, inlets ...[]*draft.Draft) []*draft.Draft {
	t.Helper()
	inputs := []operator.Input{operator.ParentInput(params)}
	for k, ds := range inlets {
		inputs = append(inputs, operator.ChildInput(k, ds...))
	}
	out, err := reg.Invoke(context.Background(), name, inputs)
	require.NoError(t, err)
	return out
}

func one(t *testing.T, name string, params operator.Params, inlets ...[]*draft.Draft) []string {
	t.Helper()
	out := run(t, name, params, inlets...)
	require.Len(t, out, 1)
	return out[0].Pattern()
}

func drafts(ds ...*draft.Draft) []*draft.Draft { return ds }

func TestTabbyThenFlip(t *testing.T) {
	out := run(t, "tabby", operator.Params{"repeats": 2})
	require.Len(t, out, 1)
	tabby := out[0]
	require.Equal(t, 4, tabby.Wefts())
	require.Equal(t, 4, tabby.Warps())
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.Equal(t, (i < 2) == (j < 2), tabby.IsUp(i, j), "cell (%d,%d)", i, j)
		}
	}

	flipped := one(t, "flip-horizontal", nil, drafts(tabby))
	for i, row := range tabby.Pattern() {
		r := []rune(row)
		for a, b := 0, len(r)-1; a < b; a, b = a+1, b-1 {
			r[a], r[b] = r[b], r[a]
		}
		assert.Equal(t, string(r), flipped[i])
	}
	assert.Equal(t, []string{"..xx", "..xx", "xx..", "xx.."}, flipped)
}

func TestTabbyWithShape(t *testing.T) {
	shape := draft.MustPattern("xxx", "x..")
	assert.Equal(t, []string{"x.x", ".??"}, one(t, "tabby", nil, drafts(shape)))
}

func TestSeeds(t *testing.T) {
	assert.Equal(t, []string{"x...", ".x..", "..x.", "...x"}, one(t, "twill", nil))
	assert.Equal(t, []string{"x...", "...x", "..x.", ".x.."}, one(t, "twill", operator.Params{"direction": "s"}))
	assert.Equal(t, []string{"x....", "..x..", "....x", ".x...", "...x."}, one(t, "satin", nil))
	assert.Equal(t, []string{"x.x", "x.x"}, one(t, "rectangle", operator.Params{"wefts": 2, "warps": 3}, drafts(draft.MustPattern("x."))))

	blank := run(t, "rectangle", nil)
	require.Len(t, blank, 1)
	assert.Equal(t, 8, blank[0].Wefts())
}

func TestRandomIsDeterministic(t *testing.T) {
	p := operator.Params{"wefts": 6, "warps": 6, "seed": 42}
	assert.Equal(t, one(t, "random", p), one(t, "random", p))
	assert.Equal(t, []string{"..", ".."}, one(t, "random", operator.Params{"wefts": 2, "warps": 2, "density": 0}))
	assert.Equal(t, []string{"xx", "xx"}, one(t, "random", operator.Params{"wefts": 2, "warps": 2, "density": 1}))
}

func TestPipes(t *testing.T) {
	in := draft.MustPattern("xx.", "...")
	tests := []struct {
		name   string
		op     string
		params operator.Params
		in     *draft.Draft
		want   []string
	}{
		{"invert", "invert", nil, draft.MustPattern("x.?"), []string{".x?"}},
		{"flip vertical", "flip-vertical", nil, in, []string{"...", "xx."}},
		{"shift warps", "shift", operator.Params{"amount": 1}, draft.MustPattern("x.."), []string{".x."}},
		{"shift left", "shift", operator.Params{"amount": -1}, draft.MustPattern("x.."), []string{"..x"}},
		{"shift wefts", "shift", operator.Params{"amount": 1, "axis": "wefts"}, draft.MustPattern("x.", ".."), []string{"..", "x."}},
		{"rotate 90", "rotate", nil, in, []string{".x", ".x", ".."}},
		{"rotate 180", "rotate", operator.Params{"degrees": "180"}, in, []string{"...", ".xx"}},
		{"rotate 270", "rotate", operator.Params{"degrees": "270"}, in, []string{"..", "x.", "x."}},
		{"tile", "tile", nil, draft.MustPattern("x."), []string{"x.x.", "x.x."}},
		{"stretch", "stretch", operator.Params{"wefts": 2, "warps": 3}, draft.MustPattern("x."), []string{"xxx...", "xxx..."}},
		{"selvedge", "add-selvedge", nil, draft.MustPattern(".."), []string{"x..."}},
		{"selvedge start down", "add-selvedge", operator.Params{"start": "down"}, draft.MustPattern(".."), []string{"...x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, one(t, tt.op, tt.params, drafts(tt.in)))
		})
	}
}

func TestParamsFromDocuments(t *testing.T) {
	in := draft.MustPattern("xx.", "...")
	// YAML decodes degrees: 90 as an int and flags may arrive as strings
	assert.Equal(t, one(t, "rotate", nil, drafts(in)), one(t, "rotate", operator.Params{"degrees": 90}, drafts(in)))
	assert.Equal(t, []string{"...", ".xx"}, one(t, "rotate", operator.Params{"degrees": 180.0}, drafts(in)))
	assert.Equal(t, []string{".x."}, one(t, "shift", operator.Params{"amount": "1"}, drafts(draft.MustPattern("x.."))))
	assert.Equal(t, []string{"x.x.x."}, one(t, "tile", operator.Params{"across": "3", "down": 1.0}, drafts(draft.MustPattern("x."))))

	a, b := draft.MustPattern("x.", ".."), draft.MustPattern("x.x")
	repeated := run(t, "interlace", operator.Params{"repeat": "true"}, drafts(a, b))
	require.Len(t, repeated, 1)
	assert.Equal(t, 6, repeated[0].Warps())
	fitted := run(t, "interlace", operator.Params{"repeat": "false"}, drafts(a, b))
	require.Len(t, fitted, 1)
	assert.Equal(t, 3, fitted[0].Warps())

	_, err := reg.Invoke(context.Background(), "rotate", []operator.Input{
		operator.ParentInput(operator.Params{"degrees": 45}),
		operator.ChildInput(0, in),
	})
	var invalid *schema.AggregateError
	assert.ErrorAs(t, err, &invalid)
}

func TestSelvedgeStaysOutermost(t *testing.T) {
	selvedged := func() *draft.Draft {
		d := draft.MustPattern("x.")
		d.AddSelvedge()
		return d
	}
	tests := []struct {
		name   string
		op     string
		params operator.Params
		want   []string
	}{
		{"tile", "tile", nil, []string{"xx.x..", "xx.x.."}},
		{"stretch", "stretch", operator.Params{"wefts": 1, "warps": 2}, []string{"xxx..."}},
		{"shift", "shift", operator.Params{"amount": 1}, []string{"x.x."}},
		{"flip", "flip-horizontal", nil, []string{"x.x."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, tt.op, tt.params, drafts(selvedged()))
			require.Len(t, out, 1)
			assert.True(t, out[0].HasSelvedge())
			assert.Equal(t, tt.want, out[0].Pattern())
		})
	}
}

func TestShiftRequiresAmount(t *testing.T) {
	assert.Empty(t, run(t, "shift", nil, drafts(draft.MustPattern("x."))))
}

func TestRotateSwapsMetadata(t *testing.T) {
	in := draft.New(2, 3)
	in.SetColShuttles(1, 2, 3)
	in.SetRowSystems(4, 5)

	out := run(t, "rotate", nil, drafts(in))
	require.Len(t, out, 1)
	assert.Equal(t, []int{1, 2, 3}, out[0].RowShuttleMapping())
	assert.Equal(t, []int{5, 4}, out[0].ColSystemMapping())
}

func TestInterlace(t *testing.T) {
	a := draft.MustPattern("xx")
	b := draft.MustPattern("..", "x.")
	out := run(t, "interlace", nil, drafts(a, b))
	require.Len(t, out, 1)
	assert.Equal(t, []string{"xx", "..", "xx", "x."}, out[0].Pattern())
	assert.Equal(t, []int{0, 1, 0, 1}, out[0].RowSystemMapping())
	assert.Equal(t, "interlace", out[0].Name())
}

func TestLayer(t *testing.T) {
	out := run(t, "layer", nil, drafts(draft.MustPattern("x"), draft.MustPattern(".")))
	require.Len(t, out, 1)
	assert.Equal(t, []string{"x.", "x."}, out[0].Pattern())
	assert.Equal(t, []int{0, 1}, out[0].ColSystemMapping())
	assert.Equal(t, []int{0, 1}, out[0].RowSystemMapping())
}

func TestJoins(t *testing.T) {
	assert.Equal(t, []string{"x.x", "xx."},
		one(t, "join-left", nil, drafts(draft.MustPattern("x"), draft.MustPattern(".x", "x."))))
	assert.Equal(t, []string{"x.", "xx"},
		one(t, "join-top", nil, drafts(draft.MustPattern("x."), draft.MustPattern("x"))))
}

func TestBinaryFamily(t *testing.T) {
	tests := []struct {
		op   string
		a, b string
		want string
	}{
		{"overlay", "x..", ".x.", "xx."},
		{"mask", "xx.", ".x.", ".x."},
		{"knockout", "xx.", ".xx", "x.x"},
		{"atop", "xxx", "?.?", "x.x"},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			got := one(t, tt.op, nil, drafts(draft.MustPattern(tt.a)), drafts(draft.MustPattern(tt.b)))
			assert.Equal(t, []string{tt.want}, got)
		})
	}

	assert.Equal(t, []string{".x.."},
		one(t, "overlay", operator.Params{"shift-ends": 1}, drafts(draft.MustPattern("....")), drafts(draft.MustPattern("x..."))))
	assert.Equal(t, []string{"x."}, one(t, "overlay", nil, drafts(draft.MustPattern("x."))))
	assert.Empty(t, run(t, "overlay", nil, nil, drafts(draft.MustPattern("x."))))
}

func TestSlice(t *testing.T) {
	in := draft.MustPattern("x...", ".x..", "..x.", "...x")
	out := run(t, "slice", nil, drafts(in))
	require.Len(t, out, 2)
	assert.Equal(t, []string{"x...", ".x.."}, out[0].Pattern())
	assert.Equal(t, []string{"..x.", "...x"}, out[1].Pattern())

	out = run(t, "slice", operator.Params{"parts": 3, "axis": "warps"}, drafts(in))
	require.Len(t, out, 3)
	assert.Equal(t, 1, out[0].Warps())
	assert.Equal(t, 1, out[1].Warps())
	assert.Equal(t, 2, out[2].Warps())

	out = run(t, "slice", operator.Params{"parts": 8}, drafts(draft.MustPattern("x", ".")))
	assert.Len(t, out, 2)
}

func TestSplitBySystem(t *testing.T) {
	in := draft.MustPattern("x..", ".x.", "..x")
	in.SetRowSystems(0, 1)

	out := run(t, "split-by-system", nil, drafts(in))
	require.Len(t, out, 2)
	assert.Equal(t, []string{"x..", "..x"}, out[0].Pattern())
	assert.Equal(t, []string{".x."}, out[1].Pattern())
}

func TestEmptyMerges(t *testing.T) {
	for _, name := range []string{"interlace", "layer", "join-left", "join-top"} {
		t.Run(name, func(t *testing.T) {
			out := run(t, name, nil, drafts(draft.New(0, 3)))
			require.Len(t, out, 1)
			assert.True(t, out[0].IsEmpty())
		})
	}
}

func TestDefaultRegistry(t *testing.T) {
	for _, op := range ops.All() {
		assert.NoError(t, op.Validate(), op.Name)
	}
	op, ok := reg.Lookup("fliphorz")
	require.True(t, ok)
	assert.Equal(t, "flip-horizontal", op.Name)
	assert.Len(t, reg.List(), len(ops.All()))
}
