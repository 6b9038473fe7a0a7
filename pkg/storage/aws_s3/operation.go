package aws_s3

import (
	"bytes"
	"context"

	"github.com/haierkeys/entry-board-service/pkg/fileurl"
	"github.com/haierkeys/entry-board-service/pkg/storage/progress"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// Put 上传内容到 S3
// SDK 不提供传输回调，进度在开始与完成时各报告一次
func (c *S3) Put(ctx context.Context, fileKey string, content []byte, onProgress func(written int64, total int64)) (string, error) {
	fileKey = fileurl.PathSuffixCheckAdd(c.Config.CustomPath, "/") + fileKey

	progress.Report(onProgress, int64(len(content)), false)
	_, err := c.S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.Config.BucketName),
		Key:    aws.String(fileKey),
		Body:   bytes.NewReader(content),
	})
	if err != nil {
		return "", errors.Wrap(err, "aws_s3")
	}
	progress.Report(onProgress, int64(len(content)), true)

	return c.fileURL(fileKey), nil
}
