package domain

// User 用户领域模型
// 认证由后端负责，这里只持有不透明的 UID 与展示昵称
type User struct {
	UID      int64  `json:"uid"`
	Nickname string `json:"nickname,omitempty"`
}

// NicknameRecord 昵称索引文档
// 以昵称为文档 ID，保证全局唯一
type NicknameRecord struct {
	Nickname string `json:"nickname"`
	UID      int64  `json:"uid"`
}

// ProfileRecord 用户偏好文档
type ProfileRecord struct {
	Nickname string `json:"nickname"`
}
