package local_fs

import (
	"context"
	"io/fs"
	"os"

	"github.com/haierkeys/entry-board-service/pkg/fileurl"

	"github.com/pkg/errors"
)

// Delete 删除本地文件
// 文件不存在时返回 fs.ErrNotExist，由上层决定是否容忍
func (p *LocalFS) Delete(ctx context.Context, fileKey string) error {
	fileKey = fileurl.PathSuffixCheckAdd(p.Config.CustomPath, "/") + fileKey
	dstFileKey := p.getSavePath() + fileKey

	if !fileurl.IsExist(dstFileKey) {
		return errors.Wrap(fs.ErrNotExist, "local_fs")
	}
	return os.Remove(dstFileKey)
}
