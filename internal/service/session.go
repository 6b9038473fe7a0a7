package service

import (
	"sync"

	"github.com/haierkeys/entry-board-service/internal/cache"
	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/pkg/code"
	"github.com/haierkeys/entry-board-service/pkg/logger"

	"go.uber.org/zap"
)

// Session owns all per-user runtime state for one sign-in
// Session 持有一次登录期间的全部运行时状态
// 替代全局可变状态：会话由构造方显式传入各服务，登出时 Close 释放全部订阅
type Session struct {
	// UID signed-in user identifier
	// UID 当前登录用户标识
	UID int64

	logger *zap.Logger

	mu     sync.Mutex
	subs   []domain.Subscription
	caches map[string]boundCache
	closed bool
}

// boundCache 命名缓存与喂养它的订阅，换绑与关闭时一并释放
type boundCache struct {
	cache *cache.EntryCache
	sub   domain.Subscription
}

// SessionOption 配置选项函数类型
type SessionOption func(*Session)

// WithSessionLogger 设置日志器
func WithSessionLogger(l *zap.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession creates a session for a signed-in user
// NewSession 为登录用户创建会话
func NewSession(uid int64, opts ...SessionOption) *Session {
	s := &Session{
		UID:    uid,
		logger: zap.NewNop(),
		caches: make(map[string]boundCache),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Track registers a subscription for release at session close
// Track 登记订阅，会话关闭时统一释放
func (s *Session) Track(sub domain.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		sub.Unsubscribe()
		return
	}
	s.subs = append(s.subs, sub)
}

// BindCache creates a named entry cache fed by a store query
// BindCache 创建命名条目缓存并绑定查询订阅
// 同名缓存重复绑定时先释放旧订阅再建立新订阅（监听重建场景）
func (s *Session) BindCache(name string, store domain.RemoteStore, query domain.Query, opts ...cache.Option) (*cache.EntryCache, error) {
	c := cache.New(opts...)
	sub, err := c.Bind(store, query)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.Unsubscribe()
		return nil, code.ErrorInvalidState.WithDetails("session already closed")
	}
	old, replaced := s.caches[name]
	s.caches[name] = boundCache{cache: c, sub: sub}
	s.mu.Unlock()

	// 旧订阅必须随换绑释放，否则快照会继续投递到已被替换的缓存
	if replaced {
		old.sub.Unsubscribe()
		old.cache.Stop()
	}
	return c, nil
}

// Cache returns a previously bound cache by name
// Cache 按名称返回已绑定的缓存
func (s *Session) Cache(name string) (*cache.EntryCache, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.caches[name]
	return b.cache, ok
}

// Close releases every tracked subscription and cache
// Close 释放全部已登记的订阅与缓存
// 未释放的订阅会把回调泄漏到已失效的会话上下文
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := s.subs
	caches := s.caches
	s.subs = nil
	s.caches = make(map[string]boundCache)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
	for _, b := range caches {
		b.sub.Unsubscribe()
		b.cache.Stop()
	}
	s.logger.Info("session closed", zap.Int64(logger.FieldUID, s.UID), zap.Int("released", len(subs)+len(caches)))
}
