// Package ops is the built-in operator library.
//
// Seeds generate structures (tabby, twill, satin, rectangle, random), pipes
// transform one draft (invert, flips, shift, rotate, tile, stretch, add-selvedge),
// merges combine many (interlace, layer, joins, the overlay family) and branches
// split one draft into several (slice, split-by-system). Default returns a registry
// holding all of them.
package ops

import (
	"github.com/aretw0/heddle/pkg/operator"
	"github.com/aretw0/heddle/pkg/registry"
)

// All returns fresh descriptors of every built-in operator.
func All() []*operator.Operator {
	return []*operator.Operator{
		Tabby(), Twill(), Satin(), Rectangle(), Random(),
		Invert(), FlipHorizontal(), FlipVertical(), Shift(), Rotate(), Tile(), Stretch(), AddSelvedge(),
		Interlace(), Layer(), JoinLeft(), JoinTop(), Overlay(), Atop(), Mask(), Knockout(),
		Slice(), SplitBySystem(),
	}
}

// Default returns a registry with every built-in operator registered.
func Default() *registry.Registry {
	r := registry.NewRegistry()
	r.MustRegister(All()...)
	return r
}

// decode reads operator parameters into a struct tagged with `param`.
func decode[T any](p operator.Params) (T, error) {
	var args T
	err := operator.DecodeParams(p, &args)
	return args, err
}

func class(t operator.Topology, c operator.Constraint) operator.Classification {
	return operator.Classification{Topology: t, Constraint: c}
}
