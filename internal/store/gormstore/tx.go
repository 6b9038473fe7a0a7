package gormstore

import (
	"context"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/pkg/code"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// tx 事务句柄，直接作用于 gorm 事务连接
// 回滚由 db.Transaction 负责
type tx struct {
	db      *gorm.DB
	store   *GormStore
	touched map[string]bool
	wrote   bool
}

// Get 事务内读取，所有读取必须先于任何写入
func (t *tx) Get(collection string, id string) (*domain.Document, error) {
	if t.wrote {
		return nil, code.ErrorTransactionFailed.WithDetails("reads must precede writes")
	}
	var row Document
	err := t.db.Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorNotFound.WithDetails(collection + "/" + id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "gormstore")
	}
	fields, err := decodeFields(row.Fields)
	if err != nil {
		return nil, err
	}
	return &domain.Document{ID: id, Fields: fields}, nil
}

// Create 事务内创建文档，目标已存在时报错
func (t *tx) Create(collection string, id string, fields map[string]any) error {
	t.wrote = true
	var count int64
	err := t.db.Model(&Document{}).
		Where("collection = ? AND doc_id = ?", collection, id).
		Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gormstore")
	}
	if count > 0 {
		return code.ErrorTransactionFailed.WithDetails("document already exists: " + collection + "/" + id)
	}
	return t.Set(collection, id, fields)
}

// Set 事务内整体覆盖文档
func (t *tx) Set(collection string, id string, fields map[string]any) error {
	t.wrote = true
	stored := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		stored[k] = v
	}
	if _, ok := stored["createdAt"]; !ok {
		stored["createdAt"] = t.store.nowFn()
	}
	raw, err := encodeFields(stored)
	if err != nil {
		return err
	}

	var row Document
	err = t.db.Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t.touched[collection] = true
		return errors.Wrap(t.db.Create(&Document{Collection: collection, DocID: id, Fields: raw}).Error, "gormstore")
	}
	if err != nil {
		return errors.Wrap(err, "gormstore")
	}
	t.touched[collection] = true
	return errors.Wrap(t.db.Model(&Document{}).Where("id = ?", row.ID).Update("fields", raw).Error, "gormstore")
}

// Update 事务内部分更新，目标不存在时报错
func (t *tx) Update(collection string, id string, fields map[string]any) error {
	t.wrote = true
	t.touched[collection] = true
	return mergeRow(t.db, collection, id, fields, false)
}

// Delete 事务内删除文档
func (t *tx) Delete(collection string, id string) error {
	t.wrote = true
	t.touched[collection] = true
	return errors.Wrap(t.db.Where("collection = ? AND doc_id = ?", collection, id).Delete(&Document{}).Error, "gormstore")
}

// RunTransaction 原子执行事务函数
// fn 返回错误时整个事务回滚，参与文档保持不变
func (s *GormStore) RunTransaction(ctx context.Context, fn func(tx domain.Tx) error) error {
	t := &tx{store: s, touched: make(map[string]bool)}
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		t.db = db
		t.touched = make(map[string]bool)
		t.wrote = false
		return fn(t)
	})
	if err != nil {
		return err
	}
	for collection := range t.touched {
		s.notify(ctx, collection)
	}
	return nil
}

// BatchCommit 原子多文档写，中途不可读取
func (s *GormStore) BatchCommit(ctx context.Context, ops []domain.WriteOp) error {
	touched := make(map[string]bool)
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		for _, op := range ops {
			switch op.Kind {
			case domain.WriteKindSet:
				t := &tx{db: db, store: s, touched: touched}
				if err := t.Set(op.Collection, op.ID, op.Fields); err != nil {
					return err
				}
			case domain.WriteKindUpdate:
				if err := mergeRow(db, op.Collection, op.ID, op.Fields, false); err != nil {
					return err
				}
				touched[op.Collection] = true
			case domain.WriteKindDelete:
				if err := db.Where("collection = ? AND doc_id = ?", op.Collection, op.ID).Delete(&Document{}).Error; err != nil {
					return errors.Wrap(err, "gormstore")
				}
				touched[op.Collection] = true
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for collection := range touched {
		s.notify(ctx, collection)
	}
	return nil
}
