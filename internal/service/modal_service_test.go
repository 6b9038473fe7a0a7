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

// countingStore 统计写操作次数的存储装饰器
type countingStore struct {
	domain.RemoteStore
	writes int
}

func (s *countingStore) SetMerge(ctx context.Context, collection string, id string, fields map[string]any) error {
	s.writes++
	return s.RemoteStore.SetMerge(ctx, collection, id, fields)
}

func (s *countingStore) Update(ctx context.Context, collection string, id string, fields map[string]any) error {
	s.writes++
	return s.RemoteStore.Update(ctx, collection, id, fields)
}

func (s *countingStore) Delete(ctx context.Context, collection string, id string) error {
	s.writes++
	return s.RemoteStore.Delete(ctx, collection, id)
}

func (s *countingStore) DeleteIfExists(ctx context.Context, collection string, id string) error {
	s.writes++
	return s.RemoteStore.DeleteIfExists(ctx, collection, id)
}

func (s *countingStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	s.writes++
	return s.RemoteStore.Add(ctx, collection, fields)
}

func (s *countingStore) RunTransaction(ctx context.Context, fn func(tx domain.Tx) error) error {
	s.writes++
	return s.RemoteStore.RunTransaction(ctx, fn)
}

func (s *countingStore) BatchCommit(ctx context.Context, ops []domain.WriteOp) error {
	s.writes++
	return s.RemoteStore.BatchCommit(ctx, ops)
}

// fakeBlob 可注入错误的文件存储替身
type fakeBlob struct {
	deleted []string
	err     error
}

func (f *fakeBlob) Put(ctx context.Context, pathKey string, content []byte, onProgress func(written int64, total int64)) (string, error) {
	return "https://blob.example.com/" + pathKey, nil
}

func (f *fakeBlob) Delete(ctx context.Context, pathKey string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, pathKey)
	return nil
}

// recordingNotifier 记录全部通知用于断言
type recordingNotifier struct {
	successes []string
	failures  []error
}

func (n *recordingNotifier) Success(message string) {
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string, err error) {
	n.failures = append(n.failures, err)
}

type harness struct {
	store    *countingStore
	blob     *fakeBlob
	session  *Session
	notifier *recordingNotifier
	config   *ServiceConfig
	nickname NicknameService
	share    ShareService
	modal    ModalService
}

func newHarness(t *testing.T, uid int64) *harness {
	t.Helper()

	config, err := NewServiceConfig()
	require.NoError(t, err)

	h := &harness{
		store:    &countingStore{RemoteStore: memstore.New()},
		blob:     &fakeBlob{},
		session:  NewSession(uid),
		notifier: &recordingNotifier{},
		config:   config,
	}
	logger := zap.NewNop()
	h.nickname = NewNicknameService(h.store, logger, config)
	h.share = NewShareService(h.store, h.nickname, logger, config)
	h.modal = NewModalService(h.store, h.blob, h.share, h.session, h.notifier,
		ConfirmFunc(func(string) bool { return true }), logger, config)
	return h
}

// seedEntry 直接入库一个条目并打开编辑模态
func (h *harness) seedEntry(t *testing.T, ctx context.Context, e domain.Entry) domain.Entry {
	t.Helper()

	fields := map[string]any{"title": e.Title, "kind": string(e.Kind)}
	if e.Body != "" {
		fields["body"] = e.Body
	}
	if e.FileRef != nil {
		fields["fileRef"] = map[string]any{
			"fileName": e.FileRef.FileName, "fileUrl": e.FileRef.FileURL, "storagePath": e.FileRef.StoragePath,
		}
	}
	collection := h.config.PrivateCollection(h.session.UID, e.Kind)
	id, err := h.store.Add(ctx, collection, fields)
	require.NoError(t, err)
	e.ID = id
	h.store.writes = 0
	return e
}

func TestSaveValidationFailureMakesNoStoreCall(t *testing.T) {
	h := newHarness(t, 7)
	ctx := context.Background()

	h.modal.OpenForEdit(nil, domain.KindNote)
	h.modal.Model().Entry.Title = "   "

	err := h.modal.Save(ctx)
	assert.ErrorIs(t, err, code.ErrorEntryTitleRequired)
	assert.Equal(t, 0, h.store.writes)
	assert.Equal(t, StateEditing, h.modal.State())
	require.Len(t, h.notifier.failures, 1)
}

func TestSaveNewEntryClosesModal(t *testing.T) {
	h := newHarness(t, 7)
	ctx := context.Background()

	h.modal.OpenForEdit(nil, domain.KindNote)
	h.modal.Model().Entry.Title = "Idea"

	require.NoError(t, h.modal.Save(ctx))
	assert.Equal(t, StateClosed, h.modal.State())

	// 新建场景：ID 已分配、kind 保持、links 为空、createdAt 已写入
	collection := h.config.PrivateCollection(7, domain.KindNote)
	id := h.modal.Model().Entry.ID
	require.NotEmpty(t, id)

	doc, err := h.store.Get(ctx, collection, id)
	require.NoError(t, err)
	assert.Equal(t, "Idea", doc.Fields["title"])
	assert.Equal(t, "note", doc.Fields["kind"])
	assert.NotNil(t, doc.Fields["createdAt"])
	assert.EqualValues(t, 7, doc.Fields["ownerUid"])
	_, hasLinks := doc.Fields["links"]
	assert.False(t, hasLinks)
}

func TestSaveExistingStaysEditing(t *testing.T) {
	h := newHarness(t, 7)
	ctx := context.Background()

	e := h.seedEntry(t, ctx, domain.Entry{Title: "draft", Kind: domain.KindNote})
	h.modal.OpenForEdit(&e, e.Kind)
	h.modal.Model().Entry.Title = "final"

	require.NoError(t, h.modal.Save(ctx))
	assert.Equal(t, StateEditing, h.modal.State())
	assert.Equal(t, "final", h.modal.Model().Entry.Title)

	doc, err := h.store.Get(ctx, h.config.PrivateCollection(7, domain.KindNote), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", doc.Fields["title"])
}

func TestSaveNewFailurePreservesModel(t *testing.T) {
	h := newHarness(t, 7)
	ctx := context.Background()

	// 用一个总是失败的存储替身验证模型保留
	failing := &failingStore{RemoteStore: h.store}
	modal := NewModalService(failing, h.blob, h.share, NewSession(7), h.notifier,
		ConfirmFunc(func(string) bool { return true }), zap.NewNop(), h.config)

	modal.OpenForEdit(nil, domain.KindNote)
	modal.Model().Entry.Title = "keep me"
	modal.Model().Entry.Body = "typed text"

	err := modal.Save(ctx)
	assert.ErrorIs(t, err, code.ErrorSaveFailed)
	assert.Equal(t, StateEditing, modal.State())
	require.NotNil(t, modal.Model())
	assert.Equal(t, "keep me", modal.Model().Entry.Title)
	assert.Equal(t, "typed text", modal.Model().Entry.Body)
}

// failingStore 所有写操作都失败的存储替身
type failingStore struct {
	domain.RemoteStore
}

func (s *failingStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	return "", code.ErrorInternal.WithDetails("store offline")
}

func (s *failingStore) Update(ctx context.Context, collection string, id string, fields map[string]any) error {
	return code.ErrorInternal.WithDetails("store offline")
}

func TestRequestShareRejectsNonShareableKind(t *testing.T) {
	h := newHarness(t, 7)
	ctx := context.Background()

	e := h.seedEntry(t, ctx, domain.Entry{Title: "wallet", Kind: domain.KindWalletFile})
	h.modal.OpenForEdit(&e, e.Kind)

	err := h.modal.RequestShare()
	assert.ErrorIs(t, err, code.ErrorKindNotShareable)
	assert.Equal(t, StateEditing, h.modal.State())
	assert.Equal(t, 0, h.store.writes)
}

func TestRequestShareRejectsUnsavedEntry(t *testing.T) {
	h := newHarness(t, 7)

	h.modal.OpenForEdit(nil, domain.KindNote)
	h.modal.Model().Entry.Title = "new"

	err := h.modal.RequestShare()
	assert.ErrorIs(t, err, code.ErrorInvalidState)
	assert.Equal(t, StateEditing, h.modal.State())
}

func TestShareSubmitMigratesAndReturnsToEditing(t *testing.T) {
	h := newHarness(t, 7)
	ctx := context.Background()

	require.NoError(t, h.nickname.Claim(ctx, 9, "ninebell"))

	e := h.seedEntry(t, ctx, domain.Entry{Title: "plan", Kind: domain.KindNote})
	h.modal.OpenForEdit(&e, e.Kind)
	require.NoError(t, h.modal.RequestShare())
	assert.Equal(t, StateSharing, h.modal.State())

	require.NoError(t, h.modal.ShareSubmit(ctx, "ninebell"))
	assert.Equal(t, StateEditing, h.modal.State())

	shared := h.modal.Model().Entry
	assert.True(t, shared.IsShared)
	assert.NotEqual(t, e.ID, shared.ID)
	assert.Equal(t, domain.KindNote, shared.EffectiveKind())
	assert.Equal(t, []int64{7, 9}, shared.Members)

	// 私有文档已删除，共享文档存在
	_, err := h.store.Get(ctx, h.config.PrivateCollection(7, domain.KindNote), e.ID)
	assert.ErrorIs(t, err, code.ErrorNotFound)
	_, err = h.store.Get(ctx, h.config.SharedCollection, shared.ID)
	assert.NoError(t, err)
}

func TestShareSubmitUnknownNicknameLeavesStateUnchanged(t *testing.T) {
	h := newHarness(t, 7)
	ctx := context.Background()

	e := h.seedEntry(t, ctx, domain.Entry{Title: "plan", Kind: domain.KindNote})
	h.modal.OpenForEdit(&e, e.Kind)
	require.NoError(t, h.modal.RequestShare())

	err := h.modal.ShareSubmit(ctx, "nobody")
	assert.ErrorIs(t, err, code.ErrorNicknameNotFound)
	assert.Equal(t, StateSharing, h.modal.State())

	// 私有文档原样保留
	doc, err := h.store.Get(ctx, h.config.PrivateCollection(7, domain.KindNote), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "plan", doc.Fields["title"])
}

func TestShareSubmitIsIdempotentForExistingMember(t *testing.T) {
	h := newHarness(t, 7)
	ctx := context.Background()

	require.NoError(t, h.nickname.Claim(ctx, 9, "ninebell"))

	e := h.seedEntry(t, ctx, domain.Entry{Title: "plan", Kind: domain.KindNote})
	h.modal.OpenForEdit(&e, e.Kind)
	require.NoError(t, h.modal.RequestShare())
	require.NoError(t, h.modal.ShareSubmit(ctx, "ninebell"))

	h.store.writes = 0
	require.NoError(t, h.modal.RequestShare())
	require.NoError(t, h.modal.ShareSubmit(ctx, "ninebell"))

	assert.Equal(t, 0, h.store.writes)
	assert.Equal(t, []int64{7, 9}, h.modal.Model().Entry.Members)
}

func TestUnshareByNonOwnerIsRejectedWithZeroWrites(t *testing.T) {
	owner := newHarness(t, 7)
	ctx := context.Background()

	require.NoError(t, owner.nickname.Claim(ctx, 9, "ninebell"))
	e := owner.seedEntry(t, ctx, domain.Entry{Title: "plan", Kind: domain.KindNote})
	owner.modal.OpenForEdit(&e, e.Kind)
	require.NoError(t, owner.modal.RequestShare())
	require.NoError(t, owner.modal.ShareSubmit(ctx, "ninebell"))
	shared := owner.modal.Model().Entry

	// 成员 9 在自己的会话中尝试取消分享
	member := &harness{
		store:    owner.store,
		blob:     &fakeBlob{},
		session:  NewSession(9),
		notifier: &recordingNotifier{},
		config:   owner.config,
	}
	logger := zap.NewNop()
	member.nickname = NewNicknameService(member.store, logger, member.config)
	member.share = NewShareService(member.store, member.nickname, logger, member.config)
	member.modal = NewModalService(member.store, member.blob, member.share, member.session, member.notifier,
		ConfirmFunc(func(string) bool { return true }), logger, member.config)

	member.modal.OpenForEdit(&shared, shared.EffectiveKind())
	require.NoError(t, member.modal.RequestUnshare())
	owner.store.writes = 0

	err := member.modal.ConfirmUnshare(ctx)
	assert.ErrorIs(t, err, code.ErrorPermissionDenied)
	assert.Equal(t, 0, owner.store.writes)
	assert.Equal(t, StateConfirmingUnshare, member.modal.State())

	// 共享文档原样保留
	doc, err := owner.store.Get(ctx, owner.config.SharedCollection, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, true, doc.Fields["isShared"])
}

func TestUnshareByOwnerMigratesBack(t *testing.T) {
	h := newHarness(t, 7)
	ctx := context.Background()

	require.NoError(t, h.nickname.Claim(ctx, 9, "ninebell"))
	e := h.seedEntry(t, ctx, domain.Entry{Title: "plan", Kind: domain.KindNote})
	h.modal.OpenForEdit(&e, e.Kind)
	require.NoError(t, h.modal.RequestShare())
	require.NoError(t, h.modal.ShareSubmit(ctx, "ninebell"))
	sharedID := h.modal.Model().Entry.ID

	require.NoError(t, h.modal.RequestUnshare())
	require.NoError(t, h.modal.ConfirmUnshare(ctx))
	assert.Equal(t, StateEditing, h.modal.State())

	private := h.modal.Model().Entry
	assert.False(t, private.IsShared)
	assert.Empty(t, private.Members)
	assert.Equal(t, domain.Kind(""), private.OriginalKind)
	assert.Equal(t, domain.KindNote, private.Kind)
	assert.NotEqual(t, sharedID, private.ID)

	_, err := h.store.Get(ctx, h.config.SharedCollection, sharedID)
	assert.ErrorIs(t, err, code.ErrorNotFound)
}

func TestLinkAddDeleteRoundtrip(t *testing.T) {
	h := newHarness(t, 7)
	ctx := context.Background()

	e := h.seedEntry(t, ctx, domain.Entry{Title: "refs", Kind: domain.KindNote})
	h.modal.OpenForEdit(&e, e.Kind)

	require.NoError(t, h.modal.RequestAddLink())
	require.NoError(t, h.modal.LinkSubmit(ctx, "Docs", "example.com/docs"))
	assert.Equal(t, StateEditing, h.modal.State())

	links := h.modal.Model().Entry.Links
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/docs", links[0].URL)

	require.NoError(t, h.modal.DeleteLink(ctx, 0))
	assert.Empty(t, h.modal.Model().Entry.Links)

	doc, err := h.store.Get(ctx, h.config.PrivateCollection(7, domain.KindNote), e.ID)
	require.NoError(t, err)
	assert.Empty(t, doc.Fields["links"])
}

func TestLinkSubmitValidationKeepsModalOpen(t *testing.T) {
	h := newHarness(t, 7)
	ctx := context.Background()

	e := h.seedEntry(t, ctx, domain.Entry{Title: "refs", Kind: domain.KindNote})
	h.modal.OpenForEdit(&e, e.Kind)
	require.NoError(t, h.modal.RequestAddLink())

	err := h.modal.LinkSubmit(ctx, "", "example.com")
	assert.ErrorIs(t, err, code.ErrorLinkInvalid)
	assert.Equal(t, StateAddingLink, h.modal.State())
	assert.Equal(t, 0, h.store.writes)
}

func TestDeleteLinkOutOfRange(t *testing.T) {
	h := newHarness(t, 7)
	ctx := context.Background()

	e := h.seedEntry(t, ctx, domain.Entry{Title: "refs", Kind: domain.KindNote})
	h.modal.OpenForEdit(&e, e.Kind)

	err := h.modal.DeleteLink(ctx, 3)
	assert.ErrorIs(t, err, code.ErrorLinkIndexOutOfRange)
	assert.Equal(t, 0, h.store.writes)
}

func TestDeleteLinkDeclinedConfirmationDoesNothing(t *testing.T) {
	h := newHarness(t, 7)
	ctx := context.Background()

	e := h.seedEntry(t, ctx, domain.Entry{Title: "refs", Kind: domain.KindNote})
	modal := NewModalService(h.store, h.blob, h.share, h.session, h.notifier,
		ConfirmFunc(func(string) bool { return false }), zap.NewNop(), h.config)
	modal.OpenForEdit(&e, e.Kind)
	modal.Model().Entry.Links = []domain.Link{{Title: "Docs", URL: "https://example.com"}}

	require.NoError(t, modal.DeleteLink(ctx, 0))
	assert.Len(t, modal.Model().Entry.Links, 1)
	assert.Equal(t, 0, h.store.writes)
}

func TestConfirmDeleteRemovesFileThenDocument(t *testing.T) {
	h := newHarness(t, 7)
	ctx := context.Background()

	e := h.seedEntry(t, ctx, domain.Entry{
		Title: "contract.pdf",
		Kind:  domain.KindWalletFile,
		FileRef: &domain.FileRef{
			FileName: "contract.pdf", FileURL: "https://blob.example.com/c.pdf", StoragePath: "wallet/7/c.pdf",
		},
	})
	h.modal.OpenForEdit(&e, e.Kind)

	require.NoError(t, h.modal.RequestDelete())
	require.NoError(t, h.modal.ConfirmDelete(ctx))
	assert.Equal(t, StateClosed, h.modal.State())
	assert.Equal(t, []string{"wallet/7/c.pdf"}, h.blob.deleted)

	_, err := h.store.Get(ctx, h.config.PrivateCollection(7, domain.KindWalletFile), e.ID)
	assert.ErrorIs(t, err, code.ErrorNotFound)
}

func TestConfirmDeleteToleratesMissingFile(t *testing.T) {
	h := newHarness(t, 7)
	h.blob.err = domain.ErrBlobNotFound
	ctx := context.Background()

	e := h.seedEntry(t, ctx, domain.Entry{
		Title: "gone.pdf",
		Kind:  domain.KindWalletFile,
		FileRef: &domain.FileRef{
			FileName: "gone.pdf", FileURL: "https://blob.example.com/g.pdf", StoragePath: "wallet/7/g.pdf",
		},
	})
	h.modal.OpenForEdit(&e, e.Kind)

	require.NoError(t, h.modal.RequestDelete())
	require.NoError(t, h.modal.ConfirmDelete(ctx))
	assert.Equal(t, StateClosed, h.modal.State())
}

func TestConfirmDeleteBlobFailureAbortsDocumentDelete(t *testing.T) {
	h := newHarness(t, 7)
	h.blob.err = code.ErrorInternal.WithDetails("blob backend down")
	ctx := context.Background()

	e := h.seedEntry(t, ctx, domain.Entry{
		Title: "stuck.pdf",
		Kind:  domain.KindWalletFile,
		FileRef: &domain.FileRef{
			FileName: "stuck.pdf", FileURL: "https://blob.example.com/s.pdf", StoragePath: "wallet/7/s.pdf",
		},
	})
	h.modal.OpenForEdit(&e, e.Kind)

	require.NoError(t, h.modal.RequestDelete())
	err := h.modal.ConfirmDelete(ctx)
	assert.ErrorIs(t, err, code.ErrorFileDeleteFailed)
	assert.Equal(t, StateConfirmingDelete, h.modal.State())

	// 文档仍然存在，不留下指向悬空文件的孤儿
	_, err = h.store.Get(ctx, h.config.PrivateCollection(7, domain.KindWalletFile), e.ID)
	assert.NoError(t, err)
}

func TestCancelReturnsToEditing(t *testing.T) {
	h := newHarness(t, 7)
	ctx := context.Background()

	e := h.seedEntry(t, ctx, domain.Entry{Title: "plan", Kind: domain.KindNote})
	h.modal.OpenForEdit(&e, e.Kind)
	require.NoError(t, h.modal.RequestDelete())
	assert.Equal(t, StateConfirmingDelete, h.modal.State())

	h.modal.Cancel()
	assert.Equal(t, StateEditing, h.modal.State())
}

func TestCloseDiscardsModel(t *testing.T) {
	h := newHarness(t, 7)

	h.modal.OpenForEdit(nil, domain.KindNote)
	h.modal.Model().Entry.Title = "unsaved"

	h.modal.Close()
	assert.Equal(t, StateClosed, h.modal.State())
	assert.Nil(t, h.modal.Model())
}

func TestSaveValidationProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("blank titles never reach the store", prop.ForAll(
		func(spaces int) bool {
			h := newHarness(t, 7)
			h.modal.OpenForEdit(nil, domain.KindNote)
			title := ""
			for i := 0; i < spaces; i++ {
				title += " "
			}
			h.modal.Model().Entry.Title = title

			err := h.modal.Save(context.Background())
			return err != nil && h.store.writes == 0
		},
		gen.IntRange(0, 8),
	))

	properties.Property("non-blank titles always close the new-entry modal", prop.ForAll(
		func(title string) bool {
			h := newHarness(t, 7)
			h.modal.OpenForEdit(nil, domain.KindNote)
			h.modal.Model().Entry.Title = title

			if err := h.modal.Save(context.Background()); err != nil {
				return false
			}
			return h.modal.State() == StateClosed && h.modal.Model().Entry.ID != ""
		},
		gen.RegexMatch(`[a-zA-Z0-9]{1,12}`),
	))

	properties.TestingRun(t)
}
