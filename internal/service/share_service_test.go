package service

import (
	"context"
	"testing"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/internal/store/memstore"
	"github.com/haierkeys/entry-board-service/pkg/code"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// failTxStore 事务总是失败且不产生任何写入的存储替身
type failTxStore struct {
	domain.RemoteStore
}

func (s *failTxStore) RunTransaction(ctx context.Context, fn func(tx domain.Tx) error) error {
	return code.ErrorTransactionFailed.WithDetails("simulated conflict")
}

func newShareFixture(t *testing.T) (ShareService, NicknameService, *memstore.MemStore, *ServiceConfig) {
	t.Helper()

	config, err := NewServiceConfig()
	require.NoError(t, err)
	store := memstore.New()
	logger := zap.NewNop()
	nickname := NewNicknameService(store, logger, config)
	return NewShareService(store, nickname, logger, config), nickname, store, config
}

func TestShareTransactionFailureIsAtomic(t *testing.T) {
	_, nickname, store, config := newShareFixture(t)
	ctx := context.Background()

	require.NoError(t, nickname.Claim(ctx, 9, "ninebell"))

	collection := config.PrivateCollection(7, domain.KindNote)
	id, err := store.Add(ctx, collection, map[string]any{"title": "plan", "kind": "note"})
	require.NoError(t, err)

	failing := NewShareService(&failTxStore{RemoteStore: store}, nickname, zap.NewNop(), config)
	_, err = failing.Share(ctx, 7, &domain.Entry{ID: id, Title: "plan", Kind: domain.KindNote}, "ninebell")
	assert.ErrorIs(t, err, code.ErrorTransactionFailed)

	// 私有文档原样保留，共享集合为空
	doc, err := store.Get(ctx, collection, id)
	require.NoError(t, err)
	assert.Equal(t, "plan", doc.Fields["title"])

	var sharedDocs int
	sub, err := store.Subscribe(domain.Query{Collection: config.SharedCollection}, func(s domain.Snapshot) {
		sharedDocs = len(s.Docs)
	})
	require.NoError(t, err)
	sub.Unsubscribe()
	assert.Equal(t, 0, sharedDocs)
}

func TestShareRejectsNonShareableKind(t *testing.T) {
	s, _, _, _ := newShareFixture(t)

	// 类型检查先于昵称解析与任何存储访问
	_, err := s.Share(context.Background(), 7, &domain.Entry{ID: "e1", Kind: domain.KindWalletFile}, "anyone")
	assert.ErrorIs(t, err, code.ErrorKindNotShareable)
}

func TestUnshareRejectsUnsharedEntry(t *testing.T) {
	s, _, _, _ := newShareFixture(t)

	_, err := s.Unshare(context.Background(), 7, &domain.Entry{ID: "e1", Kind: domain.KindNote})
	assert.ErrorIs(t, err, code.ErrorShareNotShared)
}

func TestShareUnshareRoundtripPreservesContent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("share then unshare keeps title and kind", prop.ForAll(
		func(title string, kindIdx int) bool {
			kinds := []domain.Kind{domain.KindNote, domain.KindTodo, domain.KindChecklist}
			kind := kinds[kindIdx%len(kinds)]

			s, nickname, store, config := newShareFixture(t)
			ctx := context.Background()

			if err := nickname.Claim(ctx, 9, "ninebell"); err != nil {
				return false
			}
			id, err := store.Add(ctx, config.PrivateCollection(7, kind),
				map[string]any{"title": title, "kind": string(kind)})
			if err != nil {
				return false
			}

			shared, err := s.Share(ctx, 7, &domain.Entry{ID: id, Title: title, Kind: kind}, "ninebell")
			if err != nil || !shared.IsShared || shared.EffectiveKind() != kind {
				return false
			}

			private, err := s.Unshare(ctx, 7, shared)
			if err != nil {
				return false
			}
			return private.Title == title && private.Kind == kind && !private.IsShared
		},
		gen.RegexMatch(`[a-zA-Z0-9 ]{1,16}`),
		gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}
