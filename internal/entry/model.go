// Package entry 提供条目编辑模型
// 模型是表单与远端文档之间的工作副本，保存前在本地完成校验与归一化
package entry

import (
	"strings"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/pkg/code"
	"github.com/haierkeys/entry-board-service/pkg/convert"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Model 条目编辑模型
// Entry 为可直接修改的工作副本，ID 为空表示尚未保存的新条目
type Model struct {
	Entry domain.Entry
}

// Load creates an edit model from an existing entry or a fresh one
// Load 从既有条目创建编辑模型，existing 为 nil 时按 kind 创建空模型
// 旧数据可能缺失 links 字段，载入时统一补为空切片
func Load(existing *domain.Entry, kind domain.Kind) *Model {
	m := &Model{}
	if existing == nil {
		m.Entry = domain.Entry{Kind: kind, Links: []domain.Link{}}
		return m
	}
	convert.StructAssign(existing, &m.Entry)
	m.Entry.ID = existing.ID
	if m.Entry.Links == nil {
		m.Entry.Links = []domain.Link{}
	}
	return m
}

// IsNew 判断模型是否为未保存的新条目
func (m *Model) IsNew() bool {
	return m.Entry.ID == ""
}

// EffectiveKind 返回表单与校验应使用的类型
func (m *Model) EffectiveKind() domain.Kind {
	return m.Entry.EffectiveKind()
}

// Validate checks and normalizes the model before any store write
// Validate 保存前校验并归一化模型，校验失败时不得触发任何存储调用
// 目标权重越界时收敛到 [0, 100] 而不是报错
func (m *Model) Validate() error {
	if strings.TrimSpace(m.Entry.Title) == "" {
		return code.ErrorEntryTitleRequired
	}
	if !m.Entry.Kind.IsValid() {
		return code.ErrorValidation.WithDetails("unknown kind: " + string(m.Entry.Kind))
	}
	if m.Entry.Objective != nil {
		if m.Entry.Objective.Weight < 0 {
			m.Entry.Objective.Weight = 0
		}
		if m.Entry.Objective.Weight > 100 {
			m.Entry.Objective.Weight = 100
		}
	}
	return nil
}

// linkSubmission 外链表单输入
type linkSubmission struct {
	Title string `validate:"required"`
	URL   string `validate:"required"`
}

// BuildLink validates link form input and defaults the URL scheme
// BuildLink 校验外链输入并补全协议前缀
// 两个字段都必填，URL 无协议时补 https://
func BuildLink(title string, url string) (domain.Link, error) {
	s := linkSubmission{Title: strings.TrimSpace(title), URL: strings.TrimSpace(url)}
	if err := validate.Struct(&s); err != nil {
		return domain.Link{}, code.ErrorLinkInvalid.WithDetails("title and url are both required")
	}
	if !strings.Contains(s.URL, "://") {
		s.URL = "https://" + s.URL
	}
	return domain.Link{Title: s.Title, URL: s.URL}, nil
}
