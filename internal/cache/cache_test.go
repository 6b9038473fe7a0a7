package cache

import (
	"context"
	"testing"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindPopulatesFromSnapshots(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	c := New()

	sub, err := c.Bind(s, domain.Query{Collection: "notes"})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	assert.Equal(t, 0, c.Len())

	id, err := s.Add(ctx, "notes", map[string]any{"title": "first", "kind": "note"})
	require.NoError(t, err)

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "first", entries[0].Title)
	assert.Equal(t, id, entries[0].ID)

	got, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, "first", got.Title)
}

func TestCacheTracksDeletes(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	c := New()

	id, err := s.Add(ctx, "notes", map[string]any{"title": "gone", "kind": "note"})
	require.NoError(t, err)

	sub, err := c.Bind(s, domain.Query{Collection: "notes"})
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.Equal(t, 1, c.Len())

	require.NoError(t, s.Delete(ctx, "notes", id))
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get(id)
	assert.False(t, ok)
}

func TestUnsubscribeFreezesCache(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	c := New()

	sub, err := c.Bind(s, domain.Query{Collection: "notes"})
	require.NoError(t, err)

	_, err = s.Add(ctx, "notes", map[string]any{"title": "kept", "kind": "note"})
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	sub.Unsubscribe()
	_, err = s.Add(ctx, "notes", map[string]any{"title": "missed", "kind": "note"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestOnChangeFiresPerSnapshot(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	c := New()

	var fired int
	c.OnChange(func() { fired++ })

	sub, err := c.Bind(s, domain.Query{Collection: "notes"})
	require.NoError(t, err)
	defer sub.Unsubscribe()
	assert.Equal(t, 1, fired)

	_, err = s.Add(ctx, "notes", map[string]any{"title": "a", "kind": "note"})
	require.NoError(t, err)
	assert.Equal(t, 2, fired)
}

func TestMemberFilteredCache(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	c := New()

	require.NoError(t, s.SetMerge(ctx, "shared_docs", "d1", map[string]any{
		"title": "ours", "kind": "note", "members": []int64{1, 2},
	}))
	require.NoError(t, s.SetMerge(ctx, "shared_docs", "d2", map[string]any{
		"title": "theirs", "kind": "note", "members": []int64{3},
	}))

	sub, err := c.Bind(s, domain.Query{
		Collection: "shared_docs",
		Where:      []domain.Where{{Field: "members", Op: domain.OpArrayContains, Value: int64(2)}},
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "ours", entries[0].Title)
}
