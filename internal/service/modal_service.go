package service

import (
	"context"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/internal/entry"
	"github.com/haierkeys/entry-board-service/pkg/code"
	"github.com/haierkeys/entry-board-service/pkg/logger"
	"github.com/haierkeys/entry-board-service/pkg/util"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// State 模态流程状态
type State string

const (
	StateClosed            State = "closed"
	StateEditing           State = "editing"
	StateSharing           State = "sharing"
	StateAddingLink        State = "adding_link"
	StateConfirmingDelete  State = "confirming_delete"
	StateConfirmingUnshare State = "confirming_unshare"
)

// Confirmer answers synchronous yes/no confirmation prompts
// Confirmer 回答同步的是/否确认提示
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc 函数式 Confirmer 适配
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// ModalService defines the entry modal workflow interface
// ModalService 定义条目模态流程接口
// 编辑、分享、加链接三个子模态互斥，永不叠加；
// 每次存储拒绝都转换为用户可见通知，状态机停留在当前状态
type ModalService interface {
	// State returns the current workflow state
	// State 返回当前流程状态
	State() State

	// Model returns the entry model under edit, nil when closed
	// Model 返回正在编辑的条目模型，关闭状态下为 nil
	Model() *entry.Model

	// OpenForEdit opens the edit modal for an existing or fresh entry
	// OpenForEdit 打开编辑模态，existing 为 nil 时按 kind 新建
	OpenForEdit(existing *domain.Entry, kind domain.Kind)

	// Save validates and persists the model
	// Save 校验并保存模型；新条目保存后关闭，既有条目保存后停留在编辑态并刷新模型
	Save(ctx context.Context) error

	// RequestShare closes the edit view and opens the share modal
	// RequestShare 关闭编辑视图并打开分享模态
	RequestShare() error

	// ShareSubmit shares the entry with the nickname's owner
	// ShareSubmit 把条目分享给昵称对应的用户，成功后回到编辑态
	ShareSubmit(ctx context.Context, targetNickname string) error

	// RequestUnshare asks for confirmation before unsharing
	// RequestUnshare 进入取消分享确认态
	RequestUnshare() error

	// ConfirmUnshare executes the unshare transaction
	// ConfirmUnshare 执行取消分享事务，成功后回到编辑态
	ConfirmUnshare(ctx context.Context) error

	// RequestAddLink opens the add-link modal
	// RequestAddLink 打开加链接模态
	RequestAddLink() error

	// LinkSubmit validates and appends a link, persisting the whole array
	// LinkSubmit 校验并追加链接，整组链接写回存储
	LinkSubmit(ctx context.Context, title string, url string) error

	// DeleteLink removes the link at the requested index after confirmation
	// DeleteLink 确认后移除指定索引的链接，整组链接写回存储
	DeleteLink(ctx context.Context, index int) error

	// RequestDelete asks for confirmation before deleting the entry
	// RequestDelete 进入删除确认态
	RequestDelete() error

	// ConfirmDelete deletes the backing file (if any) then the document
	// ConfirmDelete 先删除关联文件再删除文档，成功后关闭
	ConfirmDelete(ctx context.Context) error

	// Cancel returns from a confirmation state to editing
	// Cancel 从确认态返回编辑态
	Cancel()

	// Close discards unsaved edits and closes the workflow
	// Close 丢弃未保存的修改并关闭流程
	Close()
}

// modalService implementation of ModalService interface
// modalService 实现 ModalService 接口
type modalService struct {
	store     domain.RemoteStore
	blob      domain.BlobStore
	share     ShareService
	notifier  Notifier
	confirmer Confirmer
	logger    *zap.Logger
	config    *ServiceConfig
	session   *Session

	state State
	model *entry.Model
}

// NewModalService creates ModalService instance
// NewModalService 创建 ModalService 实例
func NewModalService(store domain.RemoteStore, blob domain.BlobStore, share ShareService, session *Session, notifier Notifier, confirmer Confirmer, logger *zap.Logger, config *ServiceConfig) ModalService {
	return &modalService{
		store:     store,
		blob:      blob,
		share:     share,
		session:   session,
		notifier:  notifier,
		confirmer: confirmer,
		logger:    logger,
		config:    config,
		state:     StateClosed,
	}
}

func (m *modalService) State() State {
	return m.state
}

func (m *modalService) Model() *entry.Model {
	return m.model
}

// OpenForEdit opens the edit modal for an existing or fresh entry
// OpenForEdit 打开编辑模态
// 任何已打开的模态先完全关闭，模态之间永不叠加
func (m *modalService) OpenForEdit(existing *domain.Entry, kind domain.Kind) {
	m.model = entry.Load(existing, kind)
	m.state = StateEditing
}

// Save validates and persists the model
// Save 校验并保存模型
// 校验失败不触发任何存储调用；新条目保存失败时保留模型供重试
func (m *modalService) Save(ctx context.Context) error {
	if m.state != StateEditing {
		return code.ErrorInvalidState.WithDetails("save requires the edit modal")
	}

	if err := m.model.Validate(); err != nil {
		m.notifier.Error("entry is not valid", err)
		return err
	}

	if m.model.IsNew() {
		return m.saveNew(ctx)
	}
	return m.saveExisting(ctx)
}

// saveNew 新条目入库，成功后关闭模态
func (m *modalService) saveNew(ctx context.Context) error {
	m.model.Entry.OwnerUID = m.session.UID
	fields, err := entry.ToFields(&m.model.Entry)
	if err != nil {
		m.notifier.Error("save failed", err)
		return err
	}

	collection := m.config.PrivateCollection(m.session.UID, m.model.EffectiveKind())
	id, err := m.store.Add(ctx, collection, fields)
	if err != nil {
		// 模型保留在编辑态供重试，不丢弃用户输入
		saveErr := code.ErrorSaveFailed.WithDetails(err.Error())
		m.notifier.Error("save failed", saveErr)
		return saveErr
	}

	m.model.Entry.ID = id
	m.notifier.Success("entry created")
	m.logger.Info("entry created", zap.String(logger.FieldEntryID, id), zap.String(logger.FieldCollection, collection))
	m.state = StateClosed
	return nil
}

// saveExisting 既有条目整体写回，成功后停留在编辑态并刷新模型
func (m *modalService) saveExisting(ctx context.Context) error {
	fields, err := entry.ToFields(&m.model.Entry)
	if err != nil {
		m.notifier.Error("save failed", err)
		return err
	}

	collection := m.config.EffectiveCollection(m.session.UID, &m.model.Entry)
	if err := m.store.Update(ctx, collection, m.model.Entry.ID, fields); err != nil {
		saveErr := code.ErrorSaveFailed.WithDetails(err.Error())
		m.notifier.Error("save failed", saveErr)
		return saveErr
	}

	m.refreshModel(ctx, collection, m.model.Entry.ID)
	m.notifier.Success("entry saved")
	return nil
}

// refreshModel 从存储回读条目并就地更新模型
// 回读失败只记录日志，本地模型已与写入内容一致
func (m *modalService) refreshModel(ctx context.Context, collection string, id string) {
	doc, err := m.store.Get(ctx, collection, id)
	if err != nil {
		m.logger.Warn("model refresh failed", zap.String(logger.FieldEntryID, id), zap.Error(err))
		return
	}
	refreshed, err := entry.FromDocument(doc)
	if err != nil {
		m.logger.Warn("model refresh failed", zap.String(logger.FieldEntryID, id), zap.Error(err))
		return
	}
	m.model.Entry = *refreshed
}

// RequestShare closes the edit view and opens the share modal
// RequestShare 关闭编辑视图并打开分享模态
// 不可分享的类型在任何状态变化前拒绝
func (m *modalService) RequestShare() error {
	if m.state != StateEditing {
		return code.ErrorInvalidState.WithDetails("share requires the edit modal")
	}
	if !m.config.IsShareable(m.model.EffectiveKind()) {
		err := code.ErrorKindNotShareable.WithDetails(string(m.model.EffectiveKind()))
		m.notifier.Error("entry cannot be shared", err)
		return err
	}
	if m.model.IsNew() {
		err := code.ErrorInvalidState.WithDetails("save the entry before sharing")
		m.notifier.Error("entry cannot be shared", err)
		return err
	}

	m.state = StateSharing
	return nil
}

// ShareSubmit shares the entry with the nickname's owner
// ShareSubmit 把条目分享给昵称对应的用户
// 失败时分享模态保持打开，参与文档不变
func (m *modalService) ShareSubmit(ctx context.Context, targetNickname string) error {
	if m.state != StateSharing {
		return code.ErrorInvalidState.WithDetails("share modal is not open")
	}

	shared, err := m.share.Share(ctx, m.session.UID, &m.model.Entry, targetNickname)
	if err != nil {
		m.notifier.Error("share failed", err)
		return err
	}

	// 物理 ID 已重新分配，就地更新模型后回到编辑视图
	m.model.Entry = *shared
	m.state = StateEditing
	m.notifier.Success("entry shared")
	return nil
}

// RequestUnshare asks for confirmation before unsharing
// RequestUnshare 进入取消分享确认态
func (m *modalService) RequestUnshare() error {
	if m.state != StateEditing {
		return code.ErrorInvalidState.WithDetails("unshare requires the edit modal")
	}
	if !m.model.Entry.IsShared {
		err := code.ErrorShareNotShared.WithDetails(m.model.Entry.ID)
		m.notifier.Error("entry is not shared", err)
		return err
	}

	m.state = StateConfirmingUnshare
	return nil
}

// ConfirmUnshare executes the unshare transaction
// ConfirmUnshare 执行取消分享事务
// 非所有者收到权限错误且零写入，状态保持确认态
func (m *modalService) ConfirmUnshare(ctx context.Context) error {
	if m.state != StateConfirmingUnshare {
		return code.ErrorInvalidState.WithDetails("unshare is not pending confirmation")
	}

	private, err := m.share.Unshare(ctx, m.session.UID, &m.model.Entry)
	if err != nil {
		m.notifier.Error("unshare failed", err)
		return err
	}

	m.model.Entry = *private
	m.state = StateEditing
	m.notifier.Success("entry unshared")
	return nil
}

// RequestAddLink opens the add-link modal
// RequestAddLink 打开加链接模态，编辑模型作为返回目标保留
func (m *modalService) RequestAddLink() error {
	if m.state != StateEditing {
		return code.ErrorInvalidState.WithDetails("add link requires the edit modal")
	}
	m.state = StateAddingLink
	return nil
}

// LinkSubmit validates and appends a link, persisting the whole array
// LinkSubmit 校验并追加链接
// 存储没有数组级追加原语，整组链接读改写；写入失败回到编辑态且链接不变
func (m *modalService) LinkSubmit(ctx context.Context, title string, url string) error {
	if m.state != StateAddingLink {
		return code.ErrorInvalidState.WithDetails("add-link modal is not open")
	}

	link, err := entry.BuildLink(title, url)
	if err != nil {
		m.notifier.Error("link is not valid", err)
		return err
	}

	links := append(append([]domain.Link{}, m.model.Entry.Links...), link)
	if err := m.persistLinks(ctx, links); err != nil {
		m.state = StateEditing
		return err
	}

	m.model.Entry.Links = links
	m.state = StateEditing
	m.notifier.Success("link added")
	return nil
}

// DeleteLink removes the link at the requested index after confirmation
// DeleteLink 确认后移除指定索引的链接
// 索引按请求时刻的视图解析；并发修改下为后写覆盖，不做合并
func (m *modalService) DeleteLink(ctx context.Context, index int) error {
	if m.state != StateEditing {
		return code.ErrorInvalidState.WithDetails("delete link requires the edit modal")
	}
	if !m.confirmer.Confirm("delete this link?") {
		return nil
	}

	links, ok := util.RemoveAt(append([]domain.Link{}, m.model.Entry.Links...), index)
	if !ok {
		m.notifier.Error("link delete failed", code.ErrorLinkIndexOutOfRange)
		return code.ErrorLinkIndexOutOfRange
	}

	if err := m.persistLinks(ctx, links); err != nil {
		return err
	}

	m.model.Entry.Links = links
	m.notifier.Success("link removed")
	return nil
}

// persistLinks 整组链接写回存储
func (m *modalService) persistLinks(ctx context.Context, links []domain.Link) error {
	collection := m.config.EffectiveCollection(m.session.UID, &m.model.Entry)
	err := m.store.Update(ctx, collection, m.model.Entry.ID, map[string]any{"links": links})
	if err != nil {
		saveErr := code.ErrorSaveFailed.WithDetails(err.Error())
		m.notifier.Error("link save failed", saveErr)
		return saveErr
	}
	return nil
}

// RequestDelete asks for confirmation before deleting the entry
// RequestDelete 进入删除确认态
func (m *modalService) RequestDelete() error {
	if m.state != StateEditing {
		return code.ErrorInvalidState.WithDetails("delete requires the edit modal")
	}
	if m.model.IsNew() {
		return code.ErrorInvalidState.WithDetails("entry is not saved yet")
	}
	m.state = StateConfirmingDelete
	return nil
}

// ConfirmDelete deletes the backing file (if any) then the document
// ConfirmDelete 先删除关联文件再删除文档
// 文件已不存在视为成功；其他文件删除错误会阻止文档删除，避免文档指向仍存在的文件
func (m *modalService) ConfirmDelete(ctx context.Context) error {
	if m.state != StateConfirmingDelete {
		return code.ErrorInvalidState.WithDetails("delete is not pending confirmation")
	}

	if ref := m.model.Entry.FileRef; ref != nil {
		err := m.blob.Delete(ctx, ref.StoragePath)
		if err != nil && !errors.Is(err, domain.ErrBlobNotFound) {
			delErr := code.ErrorFileDeleteFailed.WithDetails(err.Error())
			m.notifier.Error("file delete failed", delErr)
			return delErr
		}
	}

	collection := m.config.EffectiveCollection(m.session.UID, &m.model.Entry)
	if err := m.store.Delete(ctx, collection, m.model.Entry.ID); err != nil {
		saveErr := code.ErrorSaveFailed.WithDetails(err.Error())
		m.notifier.Error("entry delete failed", saveErr)
		return saveErr
	}

	m.logger.Info("entry deleted", zap.String(logger.FieldEntryID, m.model.Entry.ID), zap.String(logger.FieldCollection, collection))
	m.model = nil
	m.state = StateClosed
	m.notifier.Success("entry deleted")
	return nil
}

// Cancel returns from a confirmation state to editing
// Cancel 从确认态返回编辑态
func (m *modalService) Cancel() {
	if m.state == StateConfirmingDelete || m.state == StateConfirmingUnshare || m.state == StateSharing || m.state == StateAddingLink {
		m.state = StateEditing
	}
}

// Close discards unsaved edits and closes the workflow
// Close 丢弃未保存的修改并关闭流程，任何状态均可调用
func (m *modalService) Close() {
	m.model = nil
	m.state = StateClosed
}
