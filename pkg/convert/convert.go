// Package convert 提供结构体与字段映射之间的转换
package convert

import (
	"github.com/bytedance/sonic"
	"github.com/jinzhu/copier"
)

// StructAssign copies same-named fields from src into dst
// StructAssign 把 src 与 dst 的相同字段名的值复制到 dst 中
// dst 目标结构体指针，src 源结构体
func StructAssign(src any, dst any) any {
	copier.Copy(dst, src)
	return dst
}

// StructToMap converts a struct into a field map via its JSON tags
// StructToMap 按 JSON 标签把结构体转为字段映射
func StructToMap(param any) (map[string]any, error) {
	b, err := sonic.Marshal(param)
	if err != nil {
		return nil, err
	}
	data := make(map[string]any)
	if err := sonic.Unmarshal(b, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// MapToStruct fills a struct from a field map via its JSON tags
// MapToStruct 按 JSON 标签把字段映射填充到结构体
// target 需要传入指针
func MapToStruct(fields map[string]any, target any) error {
	b, err := sonic.Marshal(fields)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(b, target)
}

// DeepCopyMap returns an independent copy of a field map
// DeepCopyMap 返回字段映射的独立副本
// 嵌套的切片和映射也会被复制
func DeepCopyMap(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	b, err := sonic.Marshal(fields)
	if err != nil {
		return map[string]any{}
	}
	result := make(map[string]any, len(fields))
	if err := sonic.Unmarshal(b, &result); err != nil {
		return map[string]any{}
	}
	return result
}
