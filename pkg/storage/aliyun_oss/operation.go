package aliyun_oss

import (
	"context"

	"github.com/haierkeys/entry-board-service/pkg/fileurl"
	"github.com/haierkeys/entry-board-service/pkg/storage/progress"

	"github.com/pkg/errors"
)

// Put 上传内容到 OSS，边传边报告进度
func (c *OSS) Put(ctx context.Context, fileKey string, content []byte, onProgress func(written int64, total int64)) (string, error) {
	fileKey = fileurl.PathSuffixCheckAdd(c.Config.CustomPath, "/") + fileKey

	bucket, err := c.getBucket()
	if err != nil {
		return "", err
	}
	if err := bucket.PutObject(fileKey, progress.NewReader(content, onProgress)); err != nil {
		return "", errors.Wrap(err, "aliyun_oss")
	}
	return c.fileURL(fileKey), nil
}
