package service

import (
	"context"
	"testing"
	"time"

	"chainrpc/internal/domain/entity"
	"chainrpc/internal/infrastructure/catalogstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const weekly = 7 * 24 * time.Hour

func testChains() []entity.Chain {
	return []entity.Chain{
		{
			ChainID:   1,
			Name:      "Ethereum Mainnet",
			ShortName: "eth",
			Currency:  entity.Currency{Name: "Ether", Symbol: "ETH", Decimals: 18},
			RPC:       []string{"https://u1", "https://u2", "https://u3"},
		},
		{
			ChainID:   10,
			Name:      "OP Mainnet",
			ShortName: "oeth",
			Currency:  entity.Currency{Name: "Ether", Symbol: "ETH", Decimals: 18},
			RPC:       []string{"https://op1"},
		},
	}
}

func newCatalog(source *fakeSource) (*CatalogService, *catalogstore.MemoryStore) {
	store := catalogstore.NewMemoryStore()
	return NewCatalogService(store, source, time.Minute, zap.NewNop()), store
}

func TestRefreshIfStaleFetchesWhenCatalogMissing(t *testing.T) {
	source := &fakeSource{chains: testChains()}
	catalog, _ := newCatalog(source)

	require.NoError(t, catalog.RefreshIfStale(context.Background(), weekly))
	assert.Equal(t, 1, source.fetchCount())

	chain, err := catalog.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Ethereum Mainnet", chain.Name)
	assert.False(t, chain.Validated)
}

func TestRefreshIfStaleIsNoOpWhileFresh(t *testing.T) {
	source := &fakeSource{chains: testChains()}
	catalog, _ := newCatalog(source)

	require.NoError(t, catalog.RefreshIfStale(context.Background(), weekly))
	require.NoError(t, catalog.RefreshIfStale(context.Background(), weekly))
	require.NoError(t, catalog.RefreshIfStale(context.Background(), weekly))
	assert.Equal(t, 1, source.fetchCount())
}

func TestRefreshIfStaleRefetchesExpiredCatalog(t *testing.T) {
	source := &fakeSource{chains: testChains()}
	store := catalogstore.NewMemoryStore()
	require.NoError(t, store.Save(&entity.Catalog{
		Entries: map[int64]entity.Chain{
			1: {ChainID: 1, Name: "Stale", RPC: []string{"https://old"}, Validated: true},
		},
		Date: time.Now().Add(-8 * 24 * time.Hour),
	}))

	catalog := NewCatalogService(store, source, time.Minute, zap.NewNop())
	require.NoError(t, catalog.RefreshIfStale(context.Background(), weekly))
	assert.Equal(t, 1, source.fetchCount())

	// A full refresh drops previous narrowing and validation flags.
	chain, err := catalog.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Ethereum Mainnet", chain.Name)
	assert.Equal(t, []string{"https://u1", "https://u2", "https://u3"}, chain.RPC)
	assert.False(t, chain.Validated)
}

func TestRefreshIfStalePropagatesSourceFailure(t *testing.T) {
	source := &fakeSource{err: entity.ErrSourceUnavailable}
	catalog, _ := newCatalog(source)

	err := catalog.RefreshIfStale(context.Background(), weekly)
	assert.ErrorIs(t, err, entity.ErrSourceUnavailable)
}

func TestGetUnknownChain(t *testing.T) {
	source := &fakeSource{chains: testChains()}
	catalog, _ := newCatalog(source)
	require.NoError(t, catalog.RefreshIfStale(context.Background(), weekly))

	_, err := catalog.Get(999)
	assert.ErrorIs(t, err, entity.ErrUnknownNetwork)
}

func TestGetWithoutCatalog(t *testing.T) {
	catalog, _ := newCatalog(&fakeSource{})
	_, err := catalog.Get(1)
	assert.ErrorIs(t, err, entity.ErrUnknownNetwork)
}

func TestRecordValidatedNarrowsAndPersists(t *testing.T) {
	source := &fakeSource{chains: testChains()}
	catalog, store := newCatalog(source)
	require.NoError(t, catalog.RefreshIfStale(context.Background(), weekly))

	require.NoError(t, catalog.RecordValidated(1, []string{"https://u2", "https://u3"}))

	chain, err := catalog.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://u2", "https://u3"}, chain.RPC)
	assert.True(t, chain.Validated)

	// Narrowing is persisted, not just cached.
	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://u2", "https://u3"}, persisted.Entries[1].RPC)
	assert.True(t, persisted.Entries[1].Validated)
}

func TestRecordValidatedIsIdempotent(t *testing.T) {
	source := &fakeSource{chains: testChains()}
	catalog, _ := newCatalog(source)
	require.NoError(t, catalog.RefreshIfStale(context.Background(), weekly))

	urls := []string{"https://u2", "https://u3"}
	require.NoError(t, catalog.RecordValidated(1, urls))
	first, err := catalog.Get(1)
	require.NoError(t, err)

	require.NoError(t, catalog.RecordValidated(1, urls))
	second, err := catalog.Get(1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecordValidatedUnknownChain(t *testing.T) {
	source := &fakeSource{chains: testChains()}
	catalog, _ := newCatalog(source)
	require.NoError(t, catalog.RefreshIfStale(context.Background(), weekly))

	err := catalog.RecordValidated(999, []string{"https://u1"})
	assert.ErrorIs(t, err, entity.ErrUnknownNetwork)
}

func TestEntriesSnapshot(t *testing.T) {
	source := &fakeSource{chains: testChains()}
	catalog, _ := newCatalog(source)
	require.NoError(t, catalog.RefreshIfStale(context.Background(), weekly))

	entries, err := catalog.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Contains(t, entries, int64(1))
	assert.Contains(t, entries, int64(10))
}
