package service

import (
	"context"
	"sort"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/internal/entry"
	"github.com/haierkeys/entry-board-service/pkg/code"
	"github.com/haierkeys/entry-board-service/pkg/util"

	"go.uber.org/zap"
)

// OtherCategory 未分类清单项的展示分组
const OtherCategory = "Other"

// ChecklistGroup 按分类聚合的清单项视图
type ChecklistGroup struct {
	Category string
	Items    []domain.ChecklistItem
}

// ChecklistService defines the checklist subresource service interface
// ChecklistService 定义清单子资源服务接口
// 清单项内嵌在条目文档中，每次修改整组读改写；
// 并发编辑下索引可能过期，后写覆盖，不做合并
type ChecklistService interface {
	// Add appends an item to the entry's checklist
	// Add 向条目清单追加一项
	Add(ctx context.Context, collection string, id string, text string, category string) error

	// Toggle sets the completed flag of the item at index
	// Toggle 设置指定索引项的完成标记，重复同值调用幂等
	Toggle(ctx context.Context, collection string, id string, index int, completed bool) error

	// Delete removes the item at index
	// Delete 移除指定索引的清单项
	Delete(ctx context.Context, collection string, id string, index int) error

	// Group partitions items by category for display
	// Group 按分类聚合清单项用于展示，不改变存储顺序
	Group(items []domain.ChecklistItem) []ChecklistGroup
}

// checklistService implementation of ChecklistService interface
// checklistService 实现 ChecklistService 接口
type checklistService struct {
	store  domain.RemoteStore
	logger *zap.Logger
}

// NewChecklistService creates ChecklistService instance
// NewChecklistService 创建 ChecklistService 实例
func NewChecklistService(store domain.RemoteStore, logger *zap.Logger) ChecklistService {
	return &checklistService{store: store, logger: logger}
}

// Add appends an item to the entry's checklist
// Add 向条目清单追加一项
func (s *checklistService) Add(ctx context.Context, collection string, id string, text string, category string) error {
	return s.rewrite(ctx, collection, id, func(items []domain.ChecklistItem) ([]domain.ChecklistItem, error) {
		return append(items, domain.ChecklistItem{Text: text, Completed: false, Category: category}), nil
	})
}

// Toggle sets the completed flag of the item at index
// Toggle 设置指定索引项的完成标记
func (s *checklistService) Toggle(ctx context.Context, collection string, id string, index int, completed bool) error {
	return s.rewrite(ctx, collection, id, func(items []domain.ChecklistItem) ([]domain.ChecklistItem, error) {
		if index < 0 || index >= len(items) {
			return nil, code.ErrorChecklistIndexOutOfRange
		}
		items[index].Completed = completed
		return items, nil
	})
}

// Delete removes the item at index
// Delete 移除指定索引的清单项
func (s *checklistService) Delete(ctx context.Context, collection string, id string, index int) error {
	return s.rewrite(ctx, collection, id, func(items []domain.ChecklistItem) ([]domain.ChecklistItem, error) {
		result, ok := util.RemoveAt(items, index)
		if !ok {
			return nil, code.ErrorChecklistIndexOutOfRange
		}
		return result, nil
	})
}

// rewrite 读取条目、修改清单、整组写回
func (s *checklistService) rewrite(ctx context.Context, collection string, id string, fn func(items []domain.ChecklistItem) ([]domain.ChecklistItem, error)) error {
	doc, err := s.store.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	e, err := entry.FromDocument(doc)
	if err != nil {
		return err
	}

	items := append([]domain.ChecklistItem{}, e.ChecklistItems...)
	items, err = fn(items)
	if err != nil {
		return err
	}

	err = s.store.Update(ctx, collection, id, map[string]any{"checklistItems": items})
	if err != nil {
		return code.ErrorSaveFailed.WithDetails(err.Error())
	}
	return nil
}

// Group partitions items by category for display
// Group 按分类聚合清单项
// 无分类项归入 Other 分组，分类名按字典序排序保证渲染稳定
func (s *checklistService) Group(items []domain.ChecklistItem) []ChecklistGroup {
	buckets := make(map[string][]domain.ChecklistItem)
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = OtherCategory
		}
		buckets[category] = append(buckets[category], item)
	}

	categories := make([]string, 0, len(buckets))
	for category := range buckets {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	groups := make([]ChecklistGroup, 0, len(categories))
	for _, category := range categories {
		groups = append(groups, ChecklistGroup{Category: category, Items: buckets[category]})
	}
	return groups
}
