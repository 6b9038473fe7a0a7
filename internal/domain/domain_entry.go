// Package domain 定义领域模型和接口
package domain

import (
	"github.com/gookit/goutil/arrutil"
)

// Kind 条目类型判别值
// 一个条目在生命周期内只有一个 Kind，分享迁移时通过 OriginalKind 保留原类型
type Kind string

const (
	KindNote       Kind = "note"
	KindTodo       Kind = "todo"
	KindObjective  Kind = "objective"
	KindChecklist  Kind = "checklist"
	KindWalletFile Kind = "wallet_file"
)

// IsValid 判断类型是否合法
func (k Kind) IsValid() bool {
	switch k {
	case KindNote, KindTodo, KindObjective, KindChecklist, KindWalletFile:
		return true
	}
	return false
}

// Link 条目外链，只追加或删除，不重排不就地编辑
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ChecklistItem 清单项
// Category 仅用于展示分组，不参与身份标识
type ChecklistItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Category  string `json:"category,omitempty"`
}

// TargetScale 目标刻度
type TargetScale struct {
	Min    int `json:"min"`
	Target int `json:"target"`
	Max    int `json:"max"`
}

// ObjectiveStatus 目标达成档位
type ObjectiveStatus string

const (
	ObjectiveStatusMin    ObjectiveStatus = "min"
	ObjectiveStatusTarget ObjectiveStatus = "target"
	ObjectiveStatusMax    ObjectiveStatus = "max"
)

// ObjectiveFields 目标类条目的扩展字段
type ObjectiveFields struct {
	Weight       int             `json:"weight"`
	Description  string          `json:"description,omitempty"`
	TargetScale  TargetScale     `json:"targetScale"`
	ProgressNote string          `json:"progressNote,omitempty"`
	Status       ObjectiveStatus `json:"status,omitempty"`
}

// FileRef 文件类条目引用的外部文件，创建后不可变
type FileRef struct {
	FileName    string `json:"fileName"`
	FileURL     string `json:"fileUrl"`
	StoragePath string `json:"storagePath"`
}

// Entry 条目领域模型
// ID 即文档 ID，不写入字段映射；分享迁移会重新分配物理 ID
type Entry struct {
	ID             string           `json:"-"`
	Title          string           `json:"title"`
	Kind           Kind             `json:"kind"`
	Body           string           `json:"body,omitempty"`
	Links          []Link           `json:"links,omitempty"`
	ChecklistItems []ChecklistItem  `json:"checklistItems,omitempty"`
	Objective      *ObjectiveFields `json:"objectiveFields,omitempty"`
	FileRef        *FileRef         `json:"fileRef,omitempty"`
	OwnerUID       int64            `json:"ownerUid,omitempty"`
	IsShared       bool             `json:"isShared,omitempty"`
	Members        []int64          `json:"members,omitempty"`
	OriginalKind   Kind             `json:"originalKind,omitempty"`
	IsCompleted    bool             `json:"isCompleted,omitempty"`
	// CreatedAt 创建时间戳（毫秒），由存储端在创建时写入，仅用于默认排序
	CreatedAt int64 `json:"createdAt,omitempty"`
}

// EffectiveKind 返回表单与校验应使用的类型
// 分享中的条目使用 OriginalKind，其余使用 Kind
func (e *Entry) EffectiveKind() Kind {
	if e.IsShared && e.OriginalKind != "" {
		return e.OriginalKind
	}
	return e.Kind
}

// HasMember 判断用户是否为条目成员
func (e *Entry) HasMember(uid int64) bool {
	return arrutil.Contains(e.Members, uid)
}

// IsOwner 判断用户是否为条目所有者
func (e *Entry) IsOwner(uid int64) bool {
	return e.OwnerUID == uid
}
