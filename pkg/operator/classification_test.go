package operator_test

import (
	"testing"

	"github.com/aretw0/heddle/pkg/operator"
	"github.com/stretchr/testify/assert"
)

func TestSignatureMatrix(t *testing.T) {
	topologies := []operator.Topology{operator.Seed, operator.Pipe, operator.Merge, operator.Branch, operator.Bus}
	constraints := []operator.Constraint{
		operator.NoDrafts, operator.NoParams, operator.DraftsOptional, operator.ParamsOptional, operator.AllRequired,
	}
	want := map[operator.Topology][]operator.Signature{
		operator.Seed:   {operator.SigGenerate, operator.SigTransform, operator.SigGenerateWith, operator.SigPipe, operator.SigPipe},
		operator.Pipe:   {0, operator.SigTransform, operator.SigGenerateWith, operator.SigPipe, operator.SigPipe},
		operator.Merge:  {0, operator.SigMerge, operator.SigMerge, operator.SigMerge, operator.SigMerge},
		operator.Branch: {0, operator.SigBranch, operator.SigBranch, operator.SigBranch, operator.SigBranch},
		operator.Bus:    {0, operator.SigBus, operator.SigBus, operator.SigBus, operator.SigBus},
	}

	for _, top := range topologies {
		for i, con := range constraints {
			c := operator.Classification{Topology: top, Constraint: con}
			t.Run(c.String(), func(t *testing.T) {
				sig, err := c.Signature()
				if want[top][i] == 0 {
					assert.ErrorIs(t, err, operator.ErrUnclassified)
					return
				}
				assert.NoError(t, err)
				assert.Equal(t, want[top][i], sig)
			})
		}
	}
}

func TestUnknownClassification(t *testing.T) {
	_, err := operator.Classification{Topology: 42, Constraint: operator.NoParams}.Signature()
	assert.ErrorIs(t, err, operator.ErrUnclassified)
	assert.Equal(t, "Topology(42)/no-params", operator.Classification{Topology: 42, Constraint: operator.NoParams}.String())
}

func TestStandaloneClasses(t *testing.T) {
	assert.True(t, operator.Classification{Topology: operator.Pipe, Constraint: operator.AllRequired}.Standalone())
	assert.True(t, operator.Classification{Topology: operator.Seed, Constraint: operator.DraftsOptional}.Standalone())
	assert.False(t, operator.Classification{Topology: operator.Pipe, Constraint: operator.NoParams}.Standalone())
	assert.False(t, operator.Classification{Topology: operator.Merge, Constraint: operator.AllRequired}.Standalone())
}
