package session

import (
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

func TestContextLifecycle(t *testing.T) {
	store := NewStore()
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	ctx := store.Get("")
	assert.Equal(t, DefaultID, ctx.ID())

	_, err := ctx.Informes()
	assert.True(t, errors.Is(err, domain.ErrNoInformes))
	assert.False(t, ctx.Status().Loaded)

	ctx.Load(domain.ForeignCatalog{Name: "informes.xlsx", Rows: []domain.ForeignCatalogRow{{ForeignCode: "1"}}})
	catalog, err := ctx.Informes()
	require.NoError(t, err)
	assert.Equal(t, "informes.xlsx", catalog.Name)

	st := ctx.Status()
	assert.True(t, st.Loaded)
	assert.Equal(t, 1, st.Rows)
	assert.Equal(t, fixed, *st.LoadedAt)

	ctx.Clear()
	_, err = ctx.Informes()
	assert.True(t, errors.Is(err, domain.ErrNoInformes))
}

func TestStoreIsolatesSessions(t *testing.T) {
	store := NewStore()
	store.Get("a").Load(domain.ForeignCatalog{Name: "a.xlsx"})

	_, err := store.Get("b").Informes()
	assert.Error(t, err)
	assert.Same(t, store.Get(" a "), store.Get("a"))
	assert.Equal(t, 2, store.Len())

	store.Drop("a")
	_, err = store.Get("a").Informes()
	assert.Error(t, err)
}

func TestContextConcurrentAccess(t *testing.T) {
	ctx := NewStore().Get("x")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ctx.Load(domain.ForeignCatalog{Name: "f"})
		}()
		go func() {
			defer wg.Done()
			_ = ctx.Status()
		}()
	}
	wg.Wait()
	assert.True(t, ctx.Status().Loaded)
}

func TestStoreSweepsIdleSessions(t *testing.T) {
	store := NewStoreWithTTL(time.Hour)
	clock := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	store.Get("old").Load(domain.ForeignCatalog{Name: "old.xlsx"})
	clock = clock.Add(45 * time.Minute)
	store.Get("recent")
	require.Equal(t, 2, store.Len())

	clock = clock.Add(30 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())

	_, err := store.Get("old").Informes()
	assert.True(t, errors.Is(err, domain.ErrNoInformes), "expired session comes back empty")
}

func TestStoreGetKeepsSessionAlive(t *testing.T) {
	store := NewStoreWithTTL(time.Hour)
	clock := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	store.Get("a")
	for i := 0; i < 4; i++ {
		clock = clock.Add(50 * time.Minute)
		store.Get("a")
		assert.Zero(t, store.Sweep())
	}
	assert.Equal(t, 1, store.Len())
}

func TestStoreWithoutTTLNeverSweeps(t *testing.T) {
	store := NewStoreWithTTL(0)
	clock := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	store.Get("a")
	clock = clock.Add(24 * 365 * time.Hour)
	assert.Zero(t, store.Sweep())
	assert.Equal(t, 1, store.Len())
}
