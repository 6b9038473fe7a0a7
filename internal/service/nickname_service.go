package service

import (
	"context"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/pkg/code"
	"github.com/haierkeys/entry-board-service/pkg/convert"
	"github.com/haierkeys/entry-board-service/pkg/logger"
	"github.com/haierkeys/entry-board-service/pkg/util"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// NicknameService defines the nickname index business service interface
// NicknameService 定义昵称索引业务服务接口
// 昵称全局唯一，索引集合以昵称为文档键、所有者 UID 为字段
type NicknameService interface {
	// Resolve looks up the owner uid of a nickname
	// Resolve 查询昵称对应的用户 UID
	Resolve(ctx context.Context, nickname string) (int64, error)

	// Claim claims or renames the caller's nickname atomically
	// Claim 原子地占用或改名
	Claim(ctx context.Context, uid int64, nickname string) error

	// Profile returns the user's profile view
	// Profile 返回用户的偏好视图，未设置昵称时昵称为空
	Profile(ctx context.Context, uid int64) (*domain.User, error)
}

// nicknameService implementation of NicknameService interface
// nicknameService 实现 NicknameService 接口
type nicknameService struct {
	store  domain.RemoteStore
	logger *zap.Logger
	config *ServiceConfig
	sf     *singleflight.Group
}

// NewNicknameService creates NicknameService instance
// NewNicknameService 创建 NicknameService 实例
func NewNicknameService(store domain.RemoteStore, logger *zap.Logger, config *ServiceConfig) NicknameService {
	return &nicknameService{
		store:  store,
		logger: logger,
		config: config,
		sf:     &singleflight.Group{},
	}
}

// Resolve looks up the owner uid of a nickname
// Resolve 查询昵称对应的用户 UID
// 并发的同名查询通过 singleflight 合并为一次远端读取
func (s *nicknameService) Resolve(ctx context.Context, nickname string) (int64, error) {
	v, err, _ := s.sf.Do(nickname, func() (any, error) {
		doc, err := s.store.Get(ctx, s.config.NicknameCollection, nickname)
		if err != nil {
			if errors.Is(err, code.ErrorNotFound) {
				return int64(0), code.ErrorNicknameNotFound.WithDetails(nickname)
			}
			return int64(0), err
		}
		var rec domain.NicknameRecord
		if err := convert.MapToStruct(doc.Fields, &rec); err != nil || rec.UID == 0 {
			return int64(0), code.ErrorNicknameNotFound.WithDetails(nickname)
		}
		return rec.UID, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Claim claims or renames the caller's nickname atomically
// Claim 原子地占用或改名
// 重名失败时旧索引条目保持不变；改名在一个事务内删除旧条目、写入新条目与偏好记录
func (s *nicknameService) Claim(ctx context.Context, uid int64, nickname string) error {
	if !util.IsValidNickname(nickname) {
		return code.ErrorValidation.WithDetails("nickname must be 3-20 word characters")
	}

	indexFields, err := convert.StructToMap(&domain.NicknameRecord{Nickname: nickname, UID: uid})
	if err != nil {
		return err
	}
	profileFields, err := convert.StructToMap(&domain.ProfileRecord{Nickname: nickname})
	if err != nil {
		return err
	}

	err = s.store.RunTransaction(ctx, func(tx domain.Tx) error {
		// 读取阶段：目标昵称占用情况与调用者当前昵称
		if existing, err := tx.Get(s.config.NicknameCollection, nickname); err == nil {
			var rec domain.NicknameRecord
			if err := convert.MapToStruct(existing.Fields, &rec); err != nil {
				return err
			}
			if rec.UID != uid {
				return code.ErrorNameTaken.WithDetails(nickname)
			}
			// 已是本人昵称，无需改动
			return nil
		} else if !errors.Is(err, code.ErrorNotFound) {
			return err
		}

		var oldNickname string
		if profile, err := tx.Get(s.config.ProfileCollection, profileID(uid)); err == nil {
			var rec domain.ProfileRecord
			if err := convert.MapToStruct(profile.Fields, &rec); err != nil {
				return err
			}
			oldNickname = rec.Nickname
		} else if !errors.Is(err, code.ErrorNotFound) {
			return err
		}

		// 写入阶段
		if oldNickname != "" && oldNickname != nickname {
			if err := tx.Delete(s.config.NicknameCollection, oldNickname); err != nil {
				return err
			}
		}
		if err := tx.Set(s.config.NicknameCollection, nickname, indexFields); err != nil {
			return err
		}
		return tx.Set(s.config.ProfileCollection, profileID(uid), profileFields)
	})
	if err != nil {
		return err
	}

	s.logger.Info("nickname claimed", zap.Int64(logger.FieldUID, uid), zap.String(logger.FieldNickname, nickname))
	return nil
}

// Profile returns the user's profile view
// Profile 返回用户的偏好视图
// 尚无偏好记录时返回空昵称而非错误
func (s *nicknameService) Profile(ctx context.Context, uid int64) (*domain.User, error) {
	doc, err := s.store.Get(ctx, s.config.ProfileCollection, profileID(uid))
	if err != nil {
		if errors.Is(err, code.ErrorNotFound) {
			return &domain.User{UID: uid}, nil
		}
		return nil, err
	}

	var rec domain.ProfileRecord
	if err := convert.MapToStruct(doc.Fields, &rec); err != nil {
		return nil, err
	}
	return &domain.User{UID: uid, Nickname: rec.Nickname}, nil
}
