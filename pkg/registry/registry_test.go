package registry_test

import (
	"context"
	"testing"

	"github.com/aretw0/heddle/pkg/domain"
	"github.com/aretw0/heddle/pkg/draft"
	"github.com/aretw0/heddle/pkg/operator"
	"github.com/aretw0/heddle/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(name string, aliases ...string) *operator.Operator {
	return &operator.Operator{
		Name:           name,
		Aliases:        aliases,
		Classification: operator.Classification{Topology: operator.Pipe, Constraint: operator.NoParams},
		Compute: operator.TransformFunc(func(_ context.Context, in *draft.Draft) (*draft.Draft, error) {
			return in.Clone(), nil
		}),
	}
}

func TestRegisterAndLookup(t *testing.T) {
	r := registry.NewRegistry()
	require.NoError(t, r.Register(identity("mirror", "flipx", "fliphorz")))
	require.NoError(t, r.Register(identity("clear")))

	op, ok := r.Lookup("mirror")
	require.True(t, ok)
	assert.Equal(t, "mirror", op.Name)

	op, ok = r.Lookup("fliphorz")
	require.True(t, ok)
	assert.Equal(t, "mirror", op.Name)

	_, ok = r.Lookup("nope")
	assert.False(t, ok)

	_, err := r.Get("nope")
	assert.ErrorIs(t, err, domain.ErrOperatorNotFound)

	assert.Equal(t, []string{"clear", "mirror"}, r.Names())
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := registry.NewRegistry()
	require.NoError(t, r.Register(identity("a", "old-a")))

	assert.Error(t, r.Register(identity("a")))
	assert.Error(t, r.Register(identity("old-a")))
	assert.Error(t, r.Register(identity("b", "a")))
	assert.Error(t, r.Register(&operator.Operator{Name: "bad"}))

	assert.Panics(t, func() { r.MustRegister(identity("a")) })
}

func TestInvoke(t *testing.T) {
	r := registry.NewRegistry()
	r.MustRegister(identity("same"))

	out, err := r.Invoke(context.Background(), "same", []operator.Input{operator.ChildInput(0, draft.MustPattern("x."))})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"x."}, out[0].Pattern())

	_, err = r.Invoke(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, domain.ErrOperatorNotFound)
}
