package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldUID 用户 ID 字段
	FieldUID = "uid"

	// FieldEntryID 条目 ID 字段
	FieldEntryID = "entryId"

	// FieldCollection 集合名称字段
	FieldCollection = "collection"

	// FieldKind 条目类型字段
	FieldKind = "kind"

	// FieldNickname 昵称字段
	FieldNickname = "nickname"

	// FieldMember 共享成员字段
	FieldMember = "member"

	// FieldState 弹窗状态字段
	FieldState = "state"

	// FieldPathKey 文件键字段
	FieldPathKey = "pathKey"

	// FieldError 错误信息字段
	FieldError = "error"
)
