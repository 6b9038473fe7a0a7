package util

import (
	"regexp"
)

var nicknamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// IsValidNickname verifies if the nickname format is correct
// IsValidNickname 验证昵称格式是否正确
// nickname: nickname to be verified // 待验证的昵称
// return: true if nickname format is correct, false otherwise
// 返回值: 如果昵称格式正确返回true，否则返回false
func IsValidNickname(nickname string) bool {
	// Nickname format: letters, numbers, underscores, length 3-20
	// 昵称格式：字母、数字、下划线，长度3-20
	return nicknamePattern.MatchString(nickname)
}
