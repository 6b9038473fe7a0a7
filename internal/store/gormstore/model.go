package gormstore

import (
	"time"
)

// Document 文档表模型
// 字段映射以 JSON 文本存储，(collection, doc_id) 唯一
type Document struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Collection string    `gorm:"column:collection;size:190;not null;uniqueIndex:idx_collection_doc,priority:1"`
	DocID      string    `gorm:"column:doc_id;size:64;not null;uniqueIndex:idx_collection_doc,priority:2"`
	Fields     string    `gorm:"column:fields;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// TableName 指定表名
func (Document) TableName() string {
	return "document"
}
