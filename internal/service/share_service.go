package service

import (
	"context"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/internal/entry"
	"github.com/haierkeys/entry-board-service/pkg/code"
	"github.com/haierkeys/entry-board-service/pkg/logger"

	"go.uber.org/zap"
)

// ShareService defines the share business service interface
// ShareService 定义分享业务服务接口
// 分享把条目从私有集合迁移到共享集合，取消分享反向迁移；两个方向都是原子事务
type ShareService interface {
	// Share shares an entry with the user behind a nickname
	// Share 把条目分享给昵称对应的用户，返回迁移后的条目
	Share(ctx context.Context, ownerUID int64, e *domain.Entry, targetNickname string) (*domain.Entry, error)

	// Unshare reverts a shared entry back to the owner's private collection
	// Unshare 把共享条目迁回所有者的私有集合，返回迁移后的条目
	Unshare(ctx context.Context, callerUID int64, e *domain.Entry) (*domain.Entry, error)
}

// shareService implementation of ShareService interface
// shareService 实现 ShareService 接口
type shareService struct {
	store    domain.RemoteStore
	nickname NicknameService
	logger   *zap.Logger
	config   *ServiceConfig
}

// NewShareService creates ShareService instance
// NewShareService 创建 ShareService 实例
func NewShareService(store domain.RemoteStore, nickname NicknameService, logger *zap.Logger, config *ServiceConfig) ShareService {
	return &shareService{
		store:    store,
		nickname: nickname,
		logger:   logger,
		config:   config,
	}
}

// Share shares an entry with the user behind a nickname
// Share 把条目分享给昵称对应的用户
// 已分享条目做幂等成员追加；私有条目通过一个事务完成共享文档创建与私有文档删除，
// 任一步失败时私有文档保持不变且不存在共享文档
func (s *shareService) Share(ctx context.Context, ownerUID int64, e *domain.Entry, targetNickname string) (*domain.Entry, error) {
	if !s.config.IsShareable(e.EffectiveKind()) {
		return nil, code.ErrorKindNotShareable.WithDetails(string(e.EffectiveKind()))
	}
	if e.ID == "" {
		return nil, code.ErrorEntryNotFound.WithDetails("entry is not saved yet")
	}

	targetUID, err := s.nickname.Resolve(ctx, targetNickname)
	if err != nil {
		return nil, err
	}

	if e.IsShared {
		return s.addMember(ctx, e, targetUID)
	}
	return s.migrateToShared(ctx, ownerUID, e, targetUID)
}

// addMember 向已分享条目追加成员，成员已存在时不产生写入
func (s *shareService) addMember(ctx context.Context, e *domain.Entry, targetUID int64) (*domain.Entry, error) {
	if e.HasMember(targetUID) {
		return e, nil
	}

	members := append(append([]int64{}, e.Members...), targetUID)
	err := s.store.Update(ctx, s.config.SharedCollection, e.ID, map[string]any{"members": members})
	if err != nil {
		return nil, err
	}

	updated := *e
	updated.Members = members
	s.logger.Info("share member added",
		zap.String(logger.FieldEntryID, e.ID), zap.Int64(logger.FieldMember, targetUID))
	return &updated, nil
}

// migrateToShared 私有条目迁入共享集合，物理 ID 重新分配
func (s *shareService) migrateToShared(ctx context.Context, ownerUID int64, e *domain.Entry, targetUID int64) (*domain.Entry, error) {
	privateCollection := s.config.PrivateCollection(ownerUID, e.EffectiveKind())
	newID := s.store.NewID()

	err := s.store.RunTransaction(ctx, func(tx domain.Tx) error {
		doc, err := tx.Get(privateCollection, e.ID)
		if err != nil {
			return err
		}

		fields := doc.Fields
		fields["ownerUid"] = ownerUID
		fields["isShared"] = true
		fields["originalKind"] = string(e.EffectiveKind())
		members := []int64{ownerUID}
		if targetUID != ownerUID {
			members = append(members, targetUID)
		}
		fields["members"] = members

		if err := tx.Create(s.config.SharedCollection, newID, fields); err != nil {
			return err
		}
		return tx.Delete(privateCollection, e.ID)
	})
	if err != nil {
		return nil, err
	}

	doc, err := s.store.Get(ctx, s.config.SharedCollection, newID)
	if err != nil {
		return nil, err
	}
	shared, err := entry.FromDocument(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info("entry shared",
		zap.String("oldId", e.ID), zap.String("newId", newID),
		zap.Int64(logger.FieldUID, ownerUID), zap.Int64(logger.FieldMember, targetUID))
	return shared, nil
}

// Unshare reverts a shared entry back to the owner's private collection
// Unshare 把共享条目迁回所有者的私有集合
// 仅所有者可执行，其余调用者收到权限错误且零写入
func (s *shareService) Unshare(ctx context.Context, callerUID int64, e *domain.Entry) (*domain.Entry, error) {
	if !e.IsShared {
		return nil, code.ErrorShareNotShared.WithDetails(e.ID)
	}
	if !e.IsOwner(callerUID) {
		return nil, code.ErrorPermissionDenied.WithDetails("only the owner can unshare")
	}

	privateCollection := s.config.PrivateCollection(callerUID, e.EffectiveKind())
	newID := s.store.NewID()

	err := s.store.RunTransaction(ctx, func(tx domain.Tx) error {
		doc, err := tx.Get(s.config.SharedCollection, e.ID)
		if err != nil {
			return err
		}

		fields := doc.Fields
		if v, ok := fields["originalKind"].(string); ok && v != "" {
			fields["kind"] = v
		}
		delete(fields, "ownerUid")
		delete(fields, "members")
		delete(fields, "originalKind")
		delete(fields, "isShared")

		if err := tx.Create(privateCollection, newID, fields); err != nil {
			return err
		}
		return tx.Delete(s.config.SharedCollection, e.ID)
	})
	if err != nil {
		return nil, err
	}

	doc, err := s.store.Get(ctx, privateCollection, newID)
	if err != nil {
		return nil, err
	}
	private, err := entry.FromDocument(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info("entry unshared",
		zap.String("oldId", e.ID), zap.String("newId", newID), zap.Int64(logger.FieldUID, callerUID))
	return private, nil
}
