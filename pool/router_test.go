package pool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/primkit/api"
	"github.com/momentics/primkit/pool"
)

func buildTiers(t *testing.T) (*pool.Registry, []*pool.Pool) {
	t.Helper()
	reg := pool.NewRegistry()
	for _, cfg := range []pool.Config{
		{Name: "small", BlockSize: 64, BlockCount: 2},
		{Name: "medium", BlockSize: 256, BlockCount: 2},
		{Name: "large", BlockSize: 1024, BlockCount: 1},
	} {
		p, err := pool.New(cfg)
		require.NoError(t, err)
		require.NoError(t, reg.Register(p))
	}
	return reg, reg.BySize()
}

func TestRouterPicksSmallestFit(t *testing.T) {
	reg, tiers := buildTiers(t)
	r := pool.NewRouter(tiers, false)

	b, err := r.Alloc(48, api.Forever)
	require.NoError(t, err)
	assert.True(t, b.Pooled())
	assert.Len(t, b.Bytes(), 48)
	assert.Equal(t, 1, reg.Get("small").Stats().Allocated)
	assert.Equal(t, 0, reg.Get("medium").Stats().Allocated)

	require.NoError(t, r.Free(b, api.Forever))
	assert.Equal(t, 0, reg.Get("small").Stats().Allocated)
}

func TestRouterWalksUpOnExhaustion(t *testing.T) {
	reg, tiers := buildTiers(t)
	r := pool.NewRouter(tiers, false)

	b1, err := r.Alloc(64, api.Forever)
	require.NoError(t, err)
	b2, err := r.Alloc(64, api.Forever)
	require.NoError(t, err)

	// Small tier exhausted; the next fitting tier serves the request.
	b3, err := r.Alloc(64, api.Forever)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Get("medium").Stats().Allocated)

	for _, b := range []pool.Buffer{b1, b2, b3} {
		require.NoError(t, r.Free(b, api.Forever))
	}
}

func TestRouterHeapFallback(t *testing.T) {
	_, tiers := buildTiers(t)

	strict := pool.NewRouter(tiers, false)
	_, err := strict.Alloc(4096, api.Forever)
	assert.ErrorIs(t, err, api.ErrExhausted)

	lax := pool.NewRouter(tiers, true)
	b, err := lax.Alloc(4096, api.Forever)
	require.NoError(t, err)
	assert.False(t, b.Pooled())
	assert.Len(t, b.Bytes(), 4096)
	require.NoError(t, lax.Free(b, api.Forever))
}

func TestRegistryDuplicateAndLookup(t *testing.T) {
	reg := pool.NewRegistry()
	p, err := pool.New(pool.Config{Name: "dup", BlockSize: 32, BlockCount: 1})
	require.NoError(t, err)
	require.NoError(t, reg.Register(p))

	q, err := pool.New(pool.Config{Name: "dup", BlockSize: 64, BlockCount: 1})
	require.NoError(t, err)
	assert.ErrorIs(t, reg.Register(q), api.ErrAlreadyRegistered)

	assert.Same(t, p, reg.Get("dup"))
	assert.Nil(t, reg.Get("absent"))
	assert.Equal(t, []string{"dup"}, reg.Names())
	require.NoError(t, reg.CloseAll())
}
