// Package memstore 提供 RemoteStore 契约的进程内实现
// 用于测试与本地运行，语义对齐契约：全量快照按到达顺序投递，
// 事务先读后写且整体原子
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/internal/store/docmatch"
	"github.com/haierkeys/entry-board-service/pkg/code"
	"github.com/haierkeys/entry-board-service/pkg/convert"

	"github.com/google/uuid"
)

// MemStore 进程内文档存储
type MemStore struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]any
	subs        map[int64]*subscription
	nextSubID   int64
	nowFn       func() int64
}

type subscription struct {
	id    int64
	store *MemStore
	query domain.Query
	fn    domain.SnapshotHandler
}

// Option 配置选项函数类型
type Option func(*MemStore)

// WithClock 替换时间戳来源（毫秒），用于测试
func WithClock(nowFn func() int64) Option {
	return func(s *MemStore) {
		s.nowFn = nowFn
	}
}

// New 创建 MemStore 实例
func New(opts ...Option) *MemStore {
	s := &MemStore{
		collections: make(map[string]map[string]map[string]any),
		subs:        make(map[int64]*subscription),
		nowFn:       func() int64 { return time.Now().UnixMilli() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemStore) collection(name string) map[string]map[string]any {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]map[string]any)
		s.collections[name] = c
	}
	return c
}

// Get 读取单个文档
func (s *MemStore) Get(ctx context.Context, collection string, id string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.collection(collection)[id]
	if !ok {
		return nil, code.ErrorNotFound.WithDetails(collection + "/" + id)
	}
	return &domain.Document{ID: id, Fields: convert.DeepCopyMap(fields)}, nil
}

// SetMerge 合并写入字段，文档不存在时创建
func (s *MemStore) SetMerge(ctx context.Context, collection string, id string, fields map[string]any) error {
	s.mu.Lock()
	c := s.collection(collection)
	existing, ok := c[id]
	if !ok {
		existing = make(map[string]any)
		c[id] = existing
	}
	for k, v := range convert.DeepCopyMap(fields) {
		existing[k] = v
	}
	notifications := s.snapshotsLocked(collection)
	s.mu.Unlock()

	deliver(notifications)
	return nil
}

// Update 部分更新已存在的文档
func (s *MemStore) Update(ctx context.Context, collection string, id string, fields map[string]any) error {
	s.mu.Lock()
	c := s.collection(collection)
	existing, ok := c[id]
	if !ok {
		s.mu.Unlock()
		return code.ErrorNotFound.WithDetails(collection + "/" + id)
	}
	for k, v := range convert.DeepCopyMap(fields) {
		existing[k] = v
	}
	notifications := s.snapshotsLocked(collection)
	s.mu.Unlock()

	deliver(notifications)
	return nil
}

// Delete 删除文档，不存在时报错
func (s *MemStore) Delete(ctx context.Context, collection string, id string) error {
	s.mu.Lock()
	c := s.collection(collection)
	if _, ok := c[id]; !ok {
		s.mu.Unlock()
		return code.ErrorNotFound.WithDetails(collection + "/" + id)
	}
	delete(c, id)
	notifications := s.snapshotsLocked(collection)
	s.mu.Unlock()

	deliver(notifications)
	return nil
}

// DeleteIfExists 删除文档，容忍不存在
func (s *MemStore) DeleteIfExists(ctx context.Context, collection string, id string) error {
	s.mu.Lock()
	c := s.collection(collection)
	if _, ok := c[id]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(c, id)
	notifications := s.snapshotsLocked(collection)
	s.mu.Unlock()

	deliver(notifications)
	return nil
}

// Add 创建文档并生成 ID
// createdAt 缺失时由存储端写入当前毫秒时间戳
func (s *MemStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := s.NewID()

	s.mu.Lock()
	stored := convert.DeepCopyMap(fields)
	if stored == nil {
		stored = make(map[string]any)
	}
	if _, ok := stored["createdAt"]; !ok {
		stored["createdAt"] = s.nowFn()
	}
	s.collection(collection)[id] = stored
	notifications := s.snapshotsLocked(collection)
	s.mu.Unlock()

	deliver(notifications)
	return id, nil
}

// NewID 预生成文档 ID
func (s *MemStore) NewID() string {
	return uuid.NewString()
}

// Subscribe 订阅查询
// 注册后立即投递一次当前快照
func (s *MemStore) Subscribe(query domain.Query, fn domain.SnapshotHandler) (domain.Subscription, error) {
	s.mu.Lock()
	s.nextSubID++
	sub := &subscription{id: s.nextSubID, store: s, query: query, fn: fn}
	s.subs[sub.id] = sub
	initial := s.queryLocked(query)
	s.mu.Unlock()

	fn(domain.Snapshot{Docs: initial})
	return sub, nil
}

// Unsubscribe 取消订阅
func (sub *subscription) Unsubscribe() {
	sub.store.mu.Lock()
	delete(sub.store.subs, sub.id)
	sub.store.mu.Unlock()
}

type pendingNotification struct {
	fn       domain.SnapshotHandler
	snapshot domain.Snapshot
}

// snapshotsLocked 计算某集合所有订阅的新快照，持锁调用
// 回调在释放锁之后执行，避免回调内再次访问存储时死锁
func (s *MemStore) snapshotsLocked(collection string) []pendingNotification {
	var result []pendingNotification
	ids := make([]int64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	// 固定订阅遍历顺序，保证同一订阅内快照按到达顺序投递
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		sub := s.subs[id]
		if sub.query.Collection != collection {
			continue
		}
		result = append(result, pendingNotification{fn: sub.fn, snapshot: domain.Snapshot{Docs: s.queryLocked(sub.query)}})
	}
	return result
}

func deliver(notifications []pendingNotification) {
	for _, n := range notifications {
		n.fn(n.snapshot)
	}
}

// queryLocked 计算查询结果，按 createdAt 升序排序，持锁调用
func (s *MemStore) queryLocked(query domain.Query) []domain.Document {
	c := s.collection(query.Collection)
	docs := make([]domain.Document, 0, len(c))
	for id, fields := range c {
		if !docmatch.Matches(fields, query.Where) {
			continue
		}
		docs = append(docs, domain.Document{ID: id, Fields: convert.DeepCopyMap(fields)})
	}
	sort.Slice(docs, func(i, j int) bool {
		ci, cj := docmatch.NumericField(docs[i].Fields, "createdAt"), docmatch.NumericField(docs[j].Fields, "createdAt")
		if ci != cj {
			return ci < cj
		}
		return docs[i].ID < docs[j].ID
	})
	return docs
}
