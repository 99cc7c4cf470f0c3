package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/heddle/pkg/domain"
	"github.com/aretw0/heddle/pkg/draft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractDocument(id string) *domain.Document {
	return &domain.Document{
		ID:      id,
		Version: domain.DocumentVersion,
		Nodes: []domain.NodeRecord{
			{ID: 1, Kind: domain.KindDraft, Bounds: domain.Bounds{X: 10, Y: 20}},
			{ID: 2, Kind: domain.KindOperator},
			{ID: 3, Kind: domain.KindConnection},
		},
		Edges: []domain.EdgeRecord{
			{Node: 1, Outputs: []domain.Link{{Node: 3}}},
			{Node: 2, Inputs: []domain.Link{{Node: 3}}},
			{Node: 3, Inputs: []domain.Link{{Node: 1}}, Outputs: []domain.Link{{Node: 2}}},
		},
		Drafts: []domain.DraftRecord{{
			Node:    1,
			Name:    "seed",
			Pattern: []string{"x.", ".x"},
			Rows:    []draft.RowMeta{{Shuttle: 1, Selvedge: true}, {Shuttle: 2}},
		}},
		Operators: []domain.OperatorRecord{{Node: 2, Operator: "shift", Params: map[string]any{"amount": 1}}},
	}
}

// RunDocumentStoreContract runs a suite of tests to verify that a DocumentStore
// implementation adheres to the interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	id := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		doc := contractDocument(id)
		require.NoError(t, store.Save(ctx, id, doc), "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, id, loaded.ID)
		assert.Equal(t, doc.Nodes, loaded.Nodes)
		assert.Equal(t, doc.Edges, loaded.Edges)
		assert.Equal(t, doc.Drafts, loaded.Drafts)
		require.Len(t, loaded.Operators, 1)
		assert.Equal(t, "shift", loaded.Operators[0].Operator)
		// serialized stores may turn ints into float64
		assert.EqualValues(t, 1, loaded.Operators[0].Params["amount"])
	})

	t.Run("Save overwrites", func(t *testing.T) {
		doc := contractDocument(id)
		doc.Operators[0].Operator = "invert"
		doc.Operators[0].Params = nil
		require.NoError(t, store.Save(ctx, id, doc))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "invert", loaded.Operators[0].Operator)
	})

	t.Run("Load isolates caller", func(t *testing.T) {
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		loaded.Nodes[0].Bounds.X = 999

		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 10.0, again.Nodes[0].Bounds.X)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, contractDocument(id)))
		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound, "Load after Delete should return ErrWorkspaceNotFound")
		assert.NoError(t, store.Delete(ctx, id), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1, id2 := id+"-1", id+"-2"
		require.NoError(t, store.Save(ctx, id1, contractDocument(id1)))
		require.NoError(t, store.Save(ctx, id2, contractDocument(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
