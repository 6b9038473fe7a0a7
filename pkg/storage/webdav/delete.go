package webdav

import (
	"context"

	"github.com/haierkeys/entry-board-service/pkg/fileurl"
)

// Delete 从 WebDAV 服务器删除文件
func (w *WebDAV) Delete(ctx context.Context, fileKey string) error {
	fileKey = fileurl.PathSuffixCheckAdd(w.Config.CustomPath, "/") + fileKey
	return w.Client.Remove(fileKey)
}
