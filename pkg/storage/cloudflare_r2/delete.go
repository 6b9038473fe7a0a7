package cloudflare_r2

import (
	"context"

	"github.com/haierkeys/entry-board-service/pkg/fileurl"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// Delete 从 R2 删除对象
// 对象不存在时返回成功，删除天然幂等
func (c *R2) Delete(ctx context.Context, fileKey string) error {
	fileKey = fileurl.PathSuffixCheckAdd(c.Config.CustomPath, "/") + fileKey

	_, err := c.S3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.Config.BucketName),
		Key:    aws.String(fileKey),
	})
	if err != nil {
		return errors.Wrap(err, "cloudflare_r2")
	}
	return nil
}
