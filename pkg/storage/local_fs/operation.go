package local_fs

import (
	"context"
	"io"
	"os"

	"github.com/haierkeys/entry-board-service/pkg/fileurl"
	"github.com/haierkeys/entry-board-service/pkg/storage/progress"

	"github.com/pkg/errors"
)

// Put 写入内容到本地文件，边写边报告进度
func (p *LocalFS) Put(ctx context.Context, fileKey string, content []byte, onProgress func(written int64, total int64)) (string, error) {
	fileKey = fileurl.PathSuffixCheckAdd(p.Config.CustomPath, "/") + fileKey
	dstFileKey := p.getSavePath() + fileKey

	if err := fileurl.CreatePath(dstFileKey, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	dst, err := os.Create(dstFileKey)
	if err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, progress.NewReader(content, onProgress)); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	return p.fileURL(fileKey), nil
}
