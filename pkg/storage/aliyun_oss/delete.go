package aliyun_oss

import (
	"context"

	"github.com/haierkeys/entry-board-service/pkg/fileurl"

	"github.com/pkg/errors"
)

// Delete 从 OSS 删除对象
// 对象不存在时 OSS 返回成功，删除天然幂等
func (c *OSS) Delete(ctx context.Context, fileKey string) error {
	fileKey = fileurl.PathSuffixCheckAdd(c.Config.CustomPath, "/") + fileKey

	bucket, err := c.getBucket()
	if err != nil {
		return err
	}
	if err := bucket.DeleteObject(fileKey); err != nil {
		return errors.Wrap(err, "aliyun_oss")
	}
	return nil
}
