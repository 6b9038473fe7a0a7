// Package cache 提供按集合订阅的本地条目快照缓存
// 缓存只由订阅回调写入，同步读取返回最近一次回调写入的内容
package cache

import (
	"sync"
	"time"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/internal/entry"
	"github.com/haierkeys/entry-board-service/pkg/util"

	"go.uber.org/zap"
)

// EntryCache 单个查询的条目快照缓存
type EntryCache struct {
	logger    *zap.Logger
	debouncer *util.Debouncer

	mu      sync.RWMutex
	entries []domain.Entry
	byID    map[string]int

	changeMu sync.Mutex
	onChange func()
}

// Option 配置选项函数类型
type Option func(*EntryCache)

// WithLogger 设置日志器
func WithLogger(l *zap.Logger) Option {
	return func(c *EntryCache) {
		c.logger = l
	}
}

// WithDebounce 设置变更通知的去抖间隔
// 快照可能密集到达，UI 刷新回调按间隔合并
func WithDebounce(interval time.Duration) Option {
	return func(c *EntryCache) {
		c.debouncer = util.NewDebouncer(interval)
	}
}

// New 创建空缓存
func New(opts ...Option) *EntryCache {
	c := &EntryCache{
		logger: zap.NewNop(),
		byID:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind subscribes the cache to a store query
// Bind 订阅查询并以快照回调驱动缓存
// 返回的订阅句柄归会话持有，会话结束时必须取消
func (c *EntryCache) Bind(store domain.RemoteStore, query domain.Query) (domain.Subscription, error) {
	return store.Subscribe(query, c.apply)
}

// apply 用一次全量快照替换缓存内容
func (c *EntryCache) apply(snapshot domain.Snapshot) {
	entries := make([]domain.Entry, 0, len(snapshot.Docs))
	byID := make(map[string]int, len(snapshot.Docs))
	for _, doc := range snapshot.Docs {
		e, err := entry.FromDocument(&doc)
		if err != nil {
			// 单个坏文档不拖垮整份快照
			c.logger.Warn("cache skipped undecodable document",
				zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		byID[e.ID] = len(entries)
		entries = append(entries, *e)
	}

	c.mu.Lock()
	c.entries = entries
	c.byID = byID
	c.mu.Unlock()

	c.fireChange()
}

func (c *EntryCache) fireChange() {
	c.changeMu.Lock()
	fn := c.onChange
	c.changeMu.Unlock()
	if fn == nil {
		return
	}
	if c.debouncer != nil {
		c.debouncer.Do(fn)
		return
	}
	fn()
}

// OnChange 注册缓存内容变化时的回调
func (c *EntryCache) OnChange(fn func()) {
	c.changeMu.Lock()
	c.onChange = fn
	c.changeMu.Unlock()
}

// Entries 返回最近一次快照的全部条目，存储序
func (c *EntryCache) Entries() []domain.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]domain.Entry, len(c.entries))
	copy(result, c.entries)
	return result
}

// Get 按 ID 读取条目
func (c *EntryCache) Get(id string) (*domain.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	e := c.entries[i]
	return &e, true
}

// Len 返回缓存条目数
func (c *EntryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stop 取消未触发的去抖回调
func (c *EntryCache) Stop() {
	if c.debouncer != nil {
		c.debouncer.Stop()
	}
}
