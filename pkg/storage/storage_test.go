package storage

import (
	"testing"

	"github.com/haierkeys/entry-board-service/pkg/code"
	"github.com/haierkeys/entry-board-service/pkg/storage/local_fs"
	"github.com/haierkeys/entry-board-service/pkg/storage/webdav"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientLocal(t *testing.T) {
	s, err := NewClient(&Config{
		Type:     LOCAL,
		SavePath: t.TempDir(),
	})
	require.NoError(t, err)
	assert.IsType(t, &local_fs.LocalFS{}, s)
}

func TestNewClientWebDAV(t *testing.T) {
	s, err := NewClient(&Config{
		Type:     WebDAV,
		Endpoint: "http://127.0.0.1:8080/dav",
		User:     "demo",
		Password: "demo",
	})
	require.NoError(t, err)
	assert.IsType(t, &webdav.WebDAV{}, s)
}

func TestNewClientInvalidType(t *testing.T) {
	_, err := NewClient(&Config{Type: "ftp"})
	assert.ErrorIs(t, err, code.ErrorInvalidStorageType)
}

func TestNewClientNilConfig(t *testing.T) {
	_, err := NewClient(nil)
	assert.ErrorIs(t, err, code.ErrorInvalidStorageType)
}

func TestStorageTypeMap(t *testing.T) {
	for _, ty := range []Type{OSS, R2, S3, LOCAL, MinIO, WebDAV} {
		assert.True(t, StorageTypeMap[ty], ty)
	}
	assert.False(t, StorageTypeMap["ftp"])
	assert.False(t, CloudStorageTypeMap[LOCAL])
	assert.False(t, CloudStorageTypeMap[WebDAV])
}
