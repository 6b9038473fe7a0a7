package entry

import (
	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/pkg/code"
	"github.com/haierkeys/entry-board-service/pkg/convert"
)

// ToFields 把条目编码为文档字段映射
// ID 不进入字段映射，由文档键承载
func ToFields(e *domain.Entry) (map[string]any, error) {
	fields, err := convert.StructToMap(e)
	if err != nil {
		return nil, code.ErrorSaveFailed.WithDetails(err.Error())
	}
	return fields, nil
}

// FromDocument 把远端文档解码为条目
// 缺失的 links 字段补为空切片，保证旧数据可编辑
func FromDocument(doc *domain.Document) (*domain.Entry, error) {
	e := &domain.Entry{}
	if err := convert.MapToStruct(doc.Fields, e); err != nil {
		return nil, code.ErrorValidation.WithDetails(err.Error())
	}
	e.ID = doc.ID
	if e.Links == nil {
		e.Links = []domain.Link{}
	}
	return e, nil
}
