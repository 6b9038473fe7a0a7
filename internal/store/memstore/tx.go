package memstore

import (
	"context"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/pkg/code"
	"github.com/haierkeys/entry-board-service/pkg/convert"
)

// tx 事务句柄
// 写入先缓存在 staged 中，提交时一次性生效
type tx struct {
	store  *MemStore
	staged []domain.WriteOp
	// deleted 记录事务内已删除的文档，读取与校验时需要排除
	deleted map[string]bool
	wrote   bool
}

func stageKey(collection string, id string) string {
	return collection + "\x00" + id
}

// Get 事务内读取，所有读取必须先于任何写入
func (t *tx) Get(collection string, id string) (*domain.Document, error) {
	if t.wrote {
		return nil, code.ErrorTransactionFailed.WithDetails("reads must precede writes")
	}
	fields, ok := t.store.collection(collection)[id]
	if !ok {
		return nil, code.ErrorNotFound.WithDetails(collection + "/" + id)
	}
	return &domain.Document{ID: id, Fields: convert.DeepCopyMap(fields)}, nil
}

// existsLocked 结合已缓存的写入判断文档是否存在
func (t *tx) existsLocked(collection string, id string) bool {
	if t.deleted[stageKey(collection, id)] {
		return false
	}
	for _, op := range t.staged {
		if op.Collection == collection && op.ID == id && op.Kind != domain.WriteKindDelete {
			return true
		}
	}
	_, ok := t.store.collection(collection)[id]
	return ok
}

// Create 事务内创建文档，目标已存在时报错
func (t *tx) Create(collection string, id string, fields map[string]any) error {
	if t.existsLocked(collection, id) {
		return code.ErrorTransactionFailed.WithDetails("document already exists: " + collection + "/" + id)
	}
	t.wrote = true
	delete(t.deleted, stageKey(collection, id))
	t.staged = append(t.staged, domain.WriteOp{Kind: domain.WriteKindSet, Collection: collection, ID: id, Fields: convert.DeepCopyMap(fields)})
	return nil
}

// Set 事务内整体覆盖文档
func (t *tx) Set(collection string, id string, fields map[string]any) error {
	t.wrote = true
	delete(t.deleted, stageKey(collection, id))
	t.staged = append(t.staged, domain.WriteOp{Kind: domain.WriteKindSet, Collection: collection, ID: id, Fields: convert.DeepCopyMap(fields)})
	return nil
}

// Update 事务内部分更新，目标不存在时报错
func (t *tx) Update(collection string, id string, fields map[string]any) error {
	if !t.existsLocked(collection, id) {
		return code.ErrorNotFound.WithDetails(collection + "/" + id)
	}
	t.wrote = true
	t.staged = append(t.staged, domain.WriteOp{Kind: domain.WriteKindUpdate, Collection: collection, ID: id, Fields: convert.DeepCopyMap(fields)})
	return nil
}

// Delete 事务内删除文档
func (t *tx) Delete(collection string, id string) error {
	t.wrote = true
	t.deleted[stageKey(collection, id)] = true
	t.staged = append(t.staged, domain.WriteOp{Kind: domain.WriteKindDelete, Collection: collection, ID: id})
	return nil
}

// RunTransaction 原子执行事务函数
// 单锁实现不会出现冲突重试，但契约仍要求 fn 幂等
func (s *MemStore) RunTransaction(ctx context.Context, fn func(tx domain.Tx) error) error {
	s.mu.Lock()

	t := &tx{store: s, deleted: make(map[string]bool)}
	if err := fn(t); err != nil {
		s.mu.Unlock()
		return err
	}

	touched := s.applyLocked(t.staged)
	var notifications []pendingNotification
	for collection := range touched {
		notifications = append(notifications, s.snapshotsLocked(collection)...)
	}
	s.mu.Unlock()

	deliver(notifications)
	return nil
}

// BatchCommit 原子多文档写，中途不可读取
func (s *MemStore) BatchCommit(ctx context.Context, ops []domain.WriteOp) error {
	s.mu.Lock()

	// 先整体校验，保证全有或全无
	for _, op := range ops {
		if op.Kind == domain.WriteKindUpdate {
			if _, ok := s.collection(op.Collection)[op.ID]; !ok {
				s.mu.Unlock()
				return code.ErrorNotFound.WithDetails(op.Collection + "/" + op.ID)
			}
		}
	}

	touched := s.applyLocked(ops)
	var notifications []pendingNotification
	for collection := range touched {
		notifications = append(notifications, s.snapshotsLocked(collection)...)
	}
	s.mu.Unlock()

	deliver(notifications)
	return nil
}

// applyLocked 依次应用写操作，返回受影响的集合，持锁调用
func (s *MemStore) applyLocked(ops []domain.WriteOp) map[string]bool {
	touched := make(map[string]bool)
	for _, op := range ops {
		c := s.collection(op.Collection)
		switch op.Kind {
		case domain.WriteKindSet:
			fields := convert.DeepCopyMap(op.Fields)
			if fields == nil {
				fields = make(map[string]any)
			}
			if _, ok := fields["createdAt"]; !ok {
				fields["createdAt"] = s.nowFn()
			}
			c[op.ID] = fields
		case domain.WriteKindUpdate:
			existing, ok := c[op.ID]
			if !ok {
				continue
			}
			for k, v := range convert.DeepCopyMap(op.Fields) {
				existing[k] = v
			}
		case domain.WriteKindDelete:
			delete(c, op.ID)
		}
		touched[op.Collection] = true
	}
	return touched
}
