package aws_s3

import (
	"context"

	"github.com/haierkeys/entry-board-service/pkg/fileurl"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// Delete 从 S3 删除对象
// 对象不存在时 S3 返回成功，删除天然幂等
func (c *S3) Delete(ctx context.Context, fileKey string) error {
	fileKey = fileurl.PathSuffixCheckAdd(c.Config.CustomPath, "/") + fileKey

	_, err := c.S3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.Config.BucketName),
		Key:    aws.String(fileKey),
	})
	if err != nil {
		return errors.Wrap(err, "aws_s3")
	}
	return nil
}
