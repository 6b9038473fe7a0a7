// Package domain 定义领域模型和接口
package domain

import (
	"context"
	"errors"
)

// ErrBlobNotFound 文件存储中对象不存在
// 删除操作遇到该错误按成功处理（幂等删除）
var ErrBlobNotFound = errors.New("blob not found")

// Document 远端文档
// 字段映射不包含 ID，ID 由集合内唯一的文档键承载
type Document struct {
	ID     string
	Fields map[string]any
}

// WhereOp 查询条件操作符
type WhereOp string

const (
	// OpEqual 字段等值匹配
	OpEqual WhereOp = "=="
	// OpArrayContains 数组字段包含指定值
	OpArrayContains WhereOp = "array-contains"
)

// Where 单个查询条件
type Where struct {
	Field string
	Op    WhereOp
	Value any
}

// Query 订阅查询
type Query struct {
	Collection string
	Where      []Where
}

// Snapshot 查询结果的全量快照
// 同一订阅按到达顺序投递，不同订阅之间没有顺序保证
type Snapshot struct {
	Docs []Document
}

// SnapshotHandler 快照回调
type SnapshotHandler func(snapshot Snapshot)

// Subscription 可取消的订阅句柄
// 会话结束或重建监听时必须调用 Unsubscribe，否则回调会泄漏到失效上下文
type Subscription interface {
	Unsubscribe()
}

// Tx 事务读写句柄
// 所有读取必须先于任何写入；写入在事务提交前不可见
// 存储端可能在冲突时重试事务函数，函数必须对其输入保持幂等
type Tx interface {
	// Get 事务内读取文档，文档不存在返回 code.ErrorNotFound
	Get(collection string, id string) (*Document, error)

	// Create 事务内创建文档，ID 由调用方通过 NewID 预先生成
	Create(collection string, id string, fields map[string]any) error

	// Set 事务内整体覆盖文档
	Set(collection string, id string, fields map[string]any) error

	// Update 事务内部分更新文档
	Update(collection string, id string, fields map[string]any) error

	// Delete 事务内删除文档
	Delete(collection string, id string) error
}

// WriteKind 批量写操作类型
type WriteKind string

const (
	WriteKindSet    WriteKind = "set"
	WriteKindUpdate WriteKind = "update"
	WriteKindDelete WriteKind = "delete"
)

// WriteOp 批量写中的单个操作
type WriteOp struct {
	Kind       WriteKind
	Collection string
	ID         string
	Fields     map[string]any
}

// RemoteStore 远端文档存储契约
// 本仓库不实现同步协议与持久化引擎，只消费该窄接口
type RemoteStore interface {
	// Get 读取单个文档，不存在返回 code.ErrorNotFound
	Get(ctx context.Context, collection string, id string) (*Document, error)

	// SetMerge 合并写入字段
	SetMerge(ctx context.Context, collection string, id string, fields map[string]any) error

	// Update 部分更新已存在的文档
	Update(ctx context.Context, collection string, id string, fields map[string]any) error

	// Delete 删除文档，不存在返回 code.ErrorNotFound
	Delete(ctx context.Context, collection string, id string) error

	// DeleteIfExists 删除文档，容忍不存在
	DeleteIfExists(ctx context.Context, collection string, id string) error

	// Add 创建文档并生成 ID，存储端写入 createdAt 时间戳
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)

	// NewID 预生成一个文档 ID，供事务内 Create 使用
	NewID() string

	// Subscribe 订阅查询，返回可取消句柄
	Subscribe(query Query, fn SnapshotHandler) (Subscription, error)

	// RunTransaction 原子执行事务函数，失败时所有参与文档保持不变
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error

	// BatchCommit 原子多文档写，中途不可读取
	BatchCommit(ctx context.Context, ops []WriteOp) error
}

// BlobStore 外部文件存储契约
type BlobStore interface {
	// Put 上传内容，通过回调报告进度，返回最终访问 URL
	Put(ctx context.Context, pathKey string, content []byte, onProgress func(written int64, total int64)) (string, error)

	// Delete 删除对象，对象不存在返回 ErrBlobNotFound
	Delete(ctx context.Context, pathKey string) error
}
