package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/heddle/pkg/adapters/memory"
	"github.com/aretw0/heddle/pkg/domain"
	"github.com/aretw0/heddle/pkg/persistence/middleware"
	"github.com/aretw0/heddle/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument_Contract(t *testing.T) {
	m := middleware.NewStoreMetrics(nil)
	ports.RunDocumentStoreContract(t, middleware.Chain(memory.NewStore(), middleware.Instrument(m)))
	assert.Positive(t, testutil.ToFloat64(m.Operations.WithLabelValues("save", "ok")))
	assert.Positive(t, testutil.ToFloat64(m.Operations.WithLabelValues("load", "not_found")))
}

func TestInstrument_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := middleware.NewStoreMetrics(reg)
	store := middleware.Instrument(m)(memory.NewStore())

	_, err := store.List(context.Background())
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "heddle_store_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
}

func TestReadOnly(t *testing.T) {
	ctx := context.Background()
	base := memory.NewStore()
	require.NoError(t, base.Save(ctx, "w1", &domain.Document{Version: domain.DocumentVersion}))

	store := middleware.Chain(base, middleware.ReadOnly())

	doc, err := store.Load(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentVersion, doc.Version)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"w1"}, ids)

	assert.ErrorIs(t, store.Save(ctx, "w2", &domain.Document{}), middleware.ErrReadOnly)
	assert.ErrorIs(t, store.Delete(ctx, "w1"), middleware.ErrReadOnly)

	_, err = base.Load(ctx, "w1")
	assert.NoError(t, err, "delete must not reach the wrapped store")
}

func TestChainOrder(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.DocumentStore) ports.DocumentStore {
			calls = append(calls, name)
			return next
		}
	}
	middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))
	assert.Equal(t, []string{"inner", "outer"}, calls)
}
