package service

import (
	"strconv"
)

// profileID 用户偏好文档键
func profileID(uid int64) string {
	return strconv.FormatInt(uid, 10)
}
