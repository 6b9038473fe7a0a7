// Package docmatch 提供文档字段对查询条件的匹配判断
// memstore 与 gormstore 的订阅过滤共用该实现
package docmatch

import (
	"github.com/haierkeys/entry-board-service/internal/domain"
)

// Matches 判断字段映射是否满足全部查询条件
func Matches(fields map[string]any, where []domain.Where) bool {
	for _, w := range where {
		val, ok := fields[w.Field]
		if !ok {
			return false
		}
		switch w.Op {
		case domain.OpEqual:
			if !LooseEqual(val, w.Value) {
				return false
			}
		case domain.OpArrayContains:
			arr, ok := val.([]any)
			if !ok {
				return false
			}
			found := false
			for _, item := range arr {
				if LooseEqual(item, w.Value) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// LooseEqual 比较两个字段值
// 字段映射经过 JSON 往返后数值统一为 float64，这里对数值做归一化比较
func LooseEqual(a any, b any) bool {
	af, aok := AsFloat(a)
	bf, bok := AsFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

// AsFloat 尝试把字段值归一化为 float64
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	}
	return 0, false
}

// NumericField 读取数值字段，缺失或非数值返回 0
func NumericField(fields map[string]any, name string) float64 {
	if v, ok := fields[name]; ok {
		if f, ok := AsFloat(v); ok {
			return f
		}
	}
	return 0
}
