// Package gormstore 基于 gorm + sqlite 的 RemoteStore 适配器
// 文档以 (collection, doc_id) 为键、字段映射以 JSON 文本存储
// 事务依赖 db.Transaction 保证原子性，变更提交后向订阅方投递全量快照
package gormstore

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/internal/store/docmatch"
	"github.com/haierkeys/entry-board-service/pkg/code"
	"github.com/haierkeys/entry-board-service/pkg/fileurl"
	"github.com/haierkeys/entry-board-service/pkg/timex"

	"github.com/bytedance/sonic"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Config 数据库配置
type Config struct {
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/entry-board.sqlite3"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix" default:"eb_"`
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
}

// GormStore 基于 gorm 的文档存储
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger

	mu        sync.Mutex
	subs      map[int64]*subscription
	nextSubID int64
	nowFn     func() int64
}

type subscription struct {
	id    int64
	store *GormStore
	query domain.Query
	fn    domain.SnapshotHandler
}

// Option 配置选项函数类型
type Option func(*GormStore)

// WithLogger 设置日志器
func WithLogger(l *zap.Logger) Option {
	return func(s *GormStore) {
		s.logger = l
	}
}

// WithClock 替换时间戳来源（毫秒），用于测试
func WithClock(nowFn func() int64) Option {
	return func(s *GormStore) {
		s.nowFn = nowFn
	}
}

// NewDBEngine 创建 gorm 数据库引擎
func NewDBEngine(c *Config) (*gorm.DB, error) {
	if !fileurl.IsExist(c.Path) {
		if err := fileurl.CreatePath(c.Path, os.ModePerm); err != nil {
			return nil, errors.Wrap(err, "gormstore")
		}
	}

	db, err := gorm.Open(sqlite.Open(c.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "gormstore")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "gormstore")
	}
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Minute * 10)

	return db, nil
}

// New 创建 GormStore 并迁移文档表
func New(db *gorm.DB, opts ...Option) (*GormStore, error) {
	s := &GormStore{
		db:     db,
		logger: zap.NewNop(),
		subs:   make(map[int64]*subscription),
		nowFn:  func() int64 { return timex.Now().UnixMilli() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, errors.Wrap(err, "gormstore")
	}
	return s, nil
}

func encodeFields(fields map[string]any) (string, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	b, err := sonic.Marshal(fields)
	if err != nil {
		return "", errors.Wrap(err, "gormstore")
	}
	return string(b), nil
}

func decodeFields(raw string) (map[string]any, error) {
	fields := make(map[string]any)
	if raw == "" {
		return fields, nil
	}
	if err := sonic.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, errors.Wrap(err, "gormstore")
	}
	return fields, nil
}

// Get 读取单个文档
func (s *GormStore) Get(ctx context.Context, collection string, id string) (*domain.Document, error) {
	var row Document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&row).Error
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

// SetMerge 合并写入字段，文档不存在时创建
func (s *GormStore) SetMerge(ctx context.Context, collection string, id string, fields map[string]any) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return mergeRow(tx, collection, id, fields, true)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, collection)
	return nil
}

// Update 部分更新已存在的文档
func (s *GormStore) Update(ctx context.Context, collection string, id string, fields map[string]any) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return mergeRow(tx, collection, id, fields, false)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, collection)
	return nil
}

// mergeRow 读取-合并-写回单行，createMissing 控制缺失时是否创建
func mergeRow(tx *gorm.DB, collection string, id string, fields map[string]any, createMissing bool) error {
	var row Document
	err := tx.Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if !createMissing {
			return code.ErrorNotFound.WithDetails(collection + "/" + id)
		}
		raw, err := encodeFields(fields)
		if err != nil {
			return err
		}
		return errors.Wrap(tx.Create(&Document{Collection: collection, DocID: id, Fields: raw}).Error, "gormstore")
	}
	if err != nil {
		return errors.Wrap(err, "gormstore")
	}

	existing, err := decodeFields(row.Fields)
	if err != nil {
		return err
	}
	for k, v := range fields {
		existing[k] = v
	}
	raw, err := encodeFields(existing)
	if err != nil {
		return err
	}
	return errors.Wrap(tx.Model(&Document{}).Where("id = ?", row.ID).Update("fields", raw).Error, "gormstore")
}

// Delete 删除文档，不存在时报错
func (s *GormStore) Delete(ctx context.Context, collection string, id string) error {
	result := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&Document{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "gormstore")
	}
	if result.RowsAffected == 0 {
		return code.ErrorNotFound.WithDetails(collection + "/" + id)
	}
	s.notify(ctx, collection)
	return nil
}

// DeleteIfExists 删除文档，容忍不存在
func (s *GormStore) DeleteIfExists(ctx context.Context, collection string, id string) error {
	result := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&Document{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "gormstore")
	}
	if result.RowsAffected > 0 {
		s.notify(ctx, collection)
	}
	return nil
}

// Add 创建文档并生成 ID
// createdAt 缺失时由存储端写入当前毫秒时间戳
func (s *GormStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := s.NewID()

	stored := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		stored[k] = v
	}
	if _, ok := stored["createdAt"]; !ok {
		stored["createdAt"] = s.nowFn()
	}
	raw, err := encodeFields(stored)
	if err != nil {
		return "", err
	}

	err = s.db.WithContext(ctx).Create(&Document{Collection: collection, DocID: id, Fields: raw}).Error
	if err != nil {
		return "", errors.Wrap(err, "gormstore")
	}
	s.notify(ctx, collection)
	return id, nil
}

// NewID 预生成文档 ID
func (s *GormStore) NewID() string {
	return uuid.NewString()
}

// Subscribe 订阅查询，注册后立即投递一次当前快照
func (s *GormStore) Subscribe(query domain.Query, fn domain.SnapshotHandler) (domain.Subscription, error) {
	s.mu.Lock()
	s.nextSubID++
	sub := &subscription{id: s.nextSubID, store: s, query: query, fn: fn}
	s.subs[sub.id] = sub
	s.mu.Unlock()

	docs, err := s.runQuery(context.Background(), query)
	if err != nil {
		sub.Unsubscribe()
		return nil, err
	}
	fn(domain.Snapshot{Docs: docs})
	return sub, nil
}

// Unsubscribe 取消订阅
func (sub *subscription) Unsubscribe() {
	sub.store.mu.Lock()
	delete(sub.store.subs, sub.id)
	sub.store.mu.Unlock()
}

// notify 向集合的所有订阅投递最新快照
// 查询失败只记录日志，不影响已提交的写入
func (s *GormStore) notify(ctx context.Context, collection string) {
	s.mu.Lock()
	ids := make([]int64, 0, len(s.subs))
	for id, sub := range s.subs {
		if sub.query.Collection == collection {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	targets := make([]*subscription, 0, len(ids))
	for _, id := range ids {
		targets = append(targets, s.subs[id])
	}
	s.mu.Unlock()

	for _, sub := range targets {
		docs, err := s.runQuery(ctx, sub.query)
		if err != nil {
			s.logger.Error("gormstore snapshot query failed",
				zap.String("collection", collection), zap.Error(err))
			continue
		}
		sub.fn(domain.Snapshot{Docs: docs})
	}
}

// runQuery 计算查询结果，按 createdAt 升序排序
func (s *GormStore) runQuery(ctx context.Context, query domain.Query) ([]domain.Document, error) {
	var rows []Document
	err := s.db.WithContext(ctx).
		Where("collection = ?", query.Collection).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "gormstore")
	}

	docs := make([]domain.Document, 0, len(rows))
	for _, row := range rows {
		fields, err := decodeFields(row.Fields)
		if err != nil {
			return nil, err
		}
		if !docmatch.Matches(fields, query.Where) {
			continue
		}
		docs = append(docs, domain.Document{ID: row.DocID, Fields: fields})
	}
	sort.Slice(docs, func(i, j int) bool {
		ci, cj := docmatch.NumericField(docs[i].Fields, "createdAt"), docmatch.NumericField(docs[j].Fields, "createdAt")
		if ci != cj {
			return ci < cj
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}
