package service

import (
	"context"
	"testing"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionBindCacheAndClose(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	session := NewSession(7)

	c, err := session.BindCache("notes", store, domain.Query{Collection: "user_7_note"})
	require.NoError(t, err)

	_, err = store.Add(ctx, "user_7_note", map[string]any{"title": "a", "kind": "note"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	// 关闭会话后快照不再投递到缓存
	session.Close()
	_, err = store.Add(ctx, "user_7_note", map[string]any{"title": "b", "kind": "note"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestSessionRebindReplacesCache(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	session := NewSession(7)
	defer session.Close()

	c1, err := session.BindCache("notes", store, domain.Query{Collection: "user_7_note"})
	require.NoError(t, err)

	// 监听重建：同名缓存换绑新查询
	c2, err := session.BindCache("notes", store, domain.Query{Collection: "shared_docs"})
	require.NoError(t, err)

	got, ok := session.Cache("notes")
	require.True(t, ok)
	assert.Same(t, c2, got)

	// 旧缓存的订阅随换绑释放，原集合的后续变更不再投递
	_, err = store.Add(ctx, "user_7_note", map[string]any{"title": "a", "kind": "note"})
	require.NoError(t, err)
	assert.Equal(t, 0, c1.Len())

	// 新缓存照常接收所绑集合的快照
	_, err = store.Add(ctx, "shared_docs", map[string]any{"title": "s", "kind": "note"})
	require.NoError(t, err)
	assert.Equal(t, 1, c2.Len())
}

func TestSessionBindAfterCloseFails(t *testing.T) {
	store := memstore.New()
	session := NewSession(7)
	session.Close()

	_, err := session.BindCache("notes", store, domain.Query{Collection: "user_7_note"})
	assert.Error(t, err)
}
