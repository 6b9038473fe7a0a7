package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindIsValid(t *testing.T) {
	for _, k := range []Kind{KindNote, KindTodo, KindObjective, KindChecklist, KindWalletFile} {
		assert.True(t, k.IsValid(), k)
	}
	assert.False(t, Kind("shared").IsValid())
	assert.False(t, Kind("").IsValid())
}

func TestEffectiveKind(t *testing.T) {
	e := Entry{Kind: KindNote}
	assert.Equal(t, KindNote, e.EffectiveKind())

	// 分享中的条目以原类型为准
	e = Entry{Kind: KindTodo, IsShared: true, OriginalKind: KindTodo}
	assert.Equal(t, KindTodo, e.EffectiveKind())

	// 缺失 OriginalKind 时退回 Kind
	e = Entry{Kind: KindTodo, IsShared: true}
	assert.Equal(t, KindTodo, e.EffectiveKind())
}

func TestHasMember(t *testing.T) {
	e := Entry{Members: []int64{7, 9}}
	assert.True(t, e.HasMember(7))
	assert.True(t, e.HasMember(9))
	assert.False(t, e.HasMember(11))

	empty := Entry{}
	assert.False(t, empty.HasMember(7))
}

func TestIsOwner(t *testing.T) {
	e := Entry{OwnerUID: 7}
	assert.True(t, e.IsOwner(7))
	assert.False(t, e.IsOwner(9))
}
