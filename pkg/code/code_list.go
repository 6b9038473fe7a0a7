package code

// 成功码
var (
	Success = NewSuss(0, lang{en: "Success", zh_cn: "成功"})
)

// 通用错误码 10000xx
var (
	ErrorInternal = NewError(1000000, lang{en: "Internal Error", zh_cn: "内部错误"})

	ErrorValidation = NewError(1000001, lang{en: "Validation Failed", zh_cn: "校验失败"})

	ErrorNotFound = NewError(1000002, lang{en: "Document Not Found", zh_cn: "文档不存在"})

	ErrorPermissionDenied = NewError(1000003, lang{en: "Permission Denied", zh_cn: "没有操作权限"})

	ErrorSaveFailed = NewError(1000004, lang{en: "Save Failed", zh_cn: "保存失败"})

	ErrorTransactionFailed = NewError(1000005, lang{en: "Transaction Failed", zh_cn: "事务执行失败"})

	ErrorInvalidState = NewError(1000006, lang{en: "Operation Not Allowed In Current State", zh_cn: "当前状态下不允许此操作"})
)

// 条目错误码 10001xx
var (
	ErrorEntryTitleRequired = NewError(1000101, lang{en: "Entry Title Is Required", zh_cn: "条目标题不能为空"})

	ErrorEntryNotFound = NewError(1000102, lang{en: "Entry Not Found", zh_cn: "条目不存在"})

	ErrorLinkInvalid = NewError(1000103, lang{en: "Link Title And URL Are Required", zh_cn: "链接标题和地址不能为空"})

	ErrorLinkIndexOutOfRange = NewError(1000104, lang{en: "Link Index Out Of Range", zh_cn: "链接索引越界"})

	ErrorChecklistIndexOutOfRange = NewError(1000105, lang{en: "Checklist Item Index Out Of Range", zh_cn: "清单项索引越界"})
)

// 分享错误码 10002xx
var (
	ErrorKindNotShareable = NewError(1000201, lang{en: "Entry Kind Is Not Shareable", zh_cn: "该类型条目不支持分享"})

	ErrorNicknameNotFound = NewError(1000202, lang{en: "Nickname Not Found", zh_cn: "昵称不存在"})

	ErrorNameTaken = NewError(1000203, lang{en: "Nickname Already Taken", zh_cn: "昵称已被占用"})

	ErrorShareNotShared = NewError(1000204, lang{en: "Entry Is Not Shared", zh_cn: "条目未处于分享状态"})
)

// 文件错误码 10003xx
var (
	ErrorUploadFailed = NewError(1000301, lang{en: "File Upload Failed", zh_cn: "文件上传失败"})

	ErrorFileDeleteFailed = NewError(1000302, lang{en: "File Delete Failed", zh_cn: "文件删除失败"})

	ErrorInvalidStorageType = NewError(1000303, lang{en: "Invalid Storage Type", zh_cn: "存储类型不合法"})
)
