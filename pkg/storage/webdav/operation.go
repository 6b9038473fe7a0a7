package webdav

import (
	"context"
	"os"
	"path"

	"github.com/haierkeys/entry-board-service/pkg/fileurl"
	"github.com/haierkeys/entry-board-service/pkg/storage/progress"

	"github.com/pkg/errors"
)

// Put 将内容上传到 WebDAV 服务器，边传边报告进度
func (w *WebDAV) Put(ctx context.Context, fileKey string, content []byte, onProgress func(written int64, total int64)) (string, error) {
	fileKey = fileurl.PathSuffixCheckAdd(w.Config.CustomPath, "/") + fileKey

	if dir := path.Dir(fileKey); dir != "." {
		if err := w.Client.MkdirAll(dir, 0644); err != nil {
			return "", errors.Wrap(err, "webdav")
		}
	}

	err := w.Client.WriteStream(fileKey, progress.NewReader(content, onProgress), os.ModePerm)
	if err != nil {
		return "", errors.Wrap(err, "webdav")
	}
	return w.fileURL(fileKey), nil
}
