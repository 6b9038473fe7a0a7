package util

// GetIndexSlice gets the index of a slice element
// GetIndexSlice 获取切片元素的索引
// slice: slice to search // 待查找的切片
// val: value to search for // 要查找的值
// return: index of the element, or -1 if not found // 返回值: 元素的索引，如果不存在返回-1
func GetIndexSlice[T comparable](slice []T, val T) int {
	for i, v := range slice {
		if v == val {
			return i
		}
	}
	return -1
}

// InSlice determines whether an element is in a slice (generic version)
// InSlice 判断元素是否在切片中（泛型版本）
// slice: the slice // 切片
// item: the element to find // 要查找的元素
// return: bool - true if exists, false otherwise // 返回值: bool - 存在返回true，否则返回false
func InSlice[T comparable](slice []T, item T) bool {
	return GetIndexSlice(slice, item) >= 0
}

// RemoveAt removes the element at index from a slice
// RemoveAt 移除切片中指定索引的元素
// slice: original slice // 原始切片
// index: position to remove // 要移除的位置
// return: new slice and whether the index was valid // 返回值: 新切片以及索引是否有效
func RemoveAt[T any](slice []T, index int) ([]T, bool) {
	if index < 0 || index >= len(slice) {
		return slice, false
	}
	result := make([]T, 0, len(slice)-1)
	result = append(result, slice[:index]...)
	result = append(result, slice[index+1:]...)
	return result, true
}

// ArrayUnique removes duplicate elements from a slice
// ArrayUnique 移除切片中的重复元素
// slice: original slice // 原始切片
// return: new slice without duplicates // 返回值: 去重后的新切片
func ArrayUnique[T comparable](slice []T) []T {
	result := make([]T, 0, len(slice))
	m := make(map[T]bool)
	for _, v := range slice {
		if !m[v] {
			m[v] = true
			result = append(result, v)
		}
	}
	return result
}
