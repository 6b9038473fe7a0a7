// Package fileurl 提供存储路径键的辅助函数
package fileurl

import (
	"os"
	"path/filepath"
	"strings"
)

// PathSuffixCheckAdd ensures a non-empty path ends with the suffix
// PathSuffixCheckAdd 确保非空路径以指定后缀结尾
func PathSuffixCheckAdd(path string, suffix string) string {
	if path == "" {
		return ""
	}
	if !strings.HasSuffix(path, suffix) {
		return path + suffix
	}
	return path
}

// IsExist checks whether a path exists
// IsExist 检查路径是否存在
func IsExist(path string) bool {
	_, err := os.Stat(path)
	return err == nil || os.IsExist(err)
}

// CreatePath creates the parent directory of a path
// CreatePath 创建路径的父目录
func CreatePath(path string, perm os.FileMode) error {
	return os.MkdirAll(filepath.Dir(path), perm)
}
