// Package service implements the entry board business logic layer
// Package service 实现条目看板业务逻辑层
package service

import (
	"fmt"

	"github.com/haierkeys/entry-board-service/internal/domain"

	"github.com/creasty/defaults"
)

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	// SharedCollection shared documents collection name
	// SharedCollection 共享文档集合名
	SharedCollection string `yaml:"shared-collection" default:"shared_docs"`
	// NicknameCollection nickname index collection name
	// NicknameCollection 昵称索引集合名
	NicknameCollection string `yaml:"nickname-collection" default:"nicknames"`
	// ProfileCollection user preference collection name
	// ProfileCollection 用户偏好集合名
	ProfileCollection string `yaml:"profile-collection" default:"profiles"`
	// PrivatePrefix private collection name prefix
	// PrivatePrefix 私有集合名前缀
	PrivatePrefix string `yaml:"private-prefix" default:"user"`
	// ShareableKinds kinds allowed to enter the share workflow
	// ShareableKinds 允许进入分享流程的条目类型
	ShareableKinds []string `yaml:"shareable-kinds" default:"[\"note\",\"todo\",\"checklist\"]"`
}

// NewServiceConfig creates a ServiceConfig populated with defaults
// NewServiceConfig 创建带默认值的 ServiceConfig
func NewServiceConfig() (*ServiceConfig, error) {
	c := &ServiceConfig{}
	if err := defaults.Set(c); err != nil {
		return nil, err
	}
	return c, nil
}

// PrivateCollection returns the private collection for a user and kind
// PrivateCollection 返回某用户某类型的私有集合名
func (c *ServiceConfig) PrivateCollection(uid int64, kind domain.Kind) string {
	return fmt.Sprintf("%s_%d_%s", c.PrivatePrefix, uid, kind)
}

// EffectiveCollection returns the collection an entry currently lives in
// EffectiveCollection 返回条目当前所在的集合
// 分享中的条目在共享集合，其余在类型私有集合
func (c *ServiceConfig) EffectiveCollection(uid int64, e *domain.Entry) string {
	if e.IsShared {
		return c.SharedCollection
	}
	return c.PrivateCollection(uid, e.EffectiveKind())
}

// IsShareable reports whether a kind is in the configured shareable set
// IsShareable 判断类型是否在可分享集合内
func (c *ServiceConfig) IsShareable(kind domain.Kind) bool {
	for _, k := range c.ShareableKinds {
		if domain.Kind(k) == kind {
			return true
		}
	}
	return false
}
