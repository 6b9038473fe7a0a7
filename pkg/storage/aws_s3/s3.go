package aws_s3

import (
	"context"

	"github.com/haierkeys/entry-board-service/pkg/fileurl"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// Config Amazon S3 连接信息
type Config struct {
	IsEnabled       bool   `yaml:"is-enable"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
	BaseURL         string `yaml:"base-url"`
}

// S3 客户端
type S3 struct {
	S3Client *s3.Client
	Config   *Config
}

var clients = make(map[string]*S3)

// NewClient 创建 S3 客户端实例
// 相同访问密钥复用已有客户端
func NewClient(conf *Config) (*S3, error) {
	key := conf.AccessKeyID + conf.Region + conf.BucketName
	if clients[key] != nil {
		return clients[key], nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(conf.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret, ""),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}

	clients[key] = &S3{
		S3Client: s3.NewFromConfig(cfg),
		Config:   conf,
	}
	return clients[key], nil
}

// fileURL 拼接最终访问地址
func (c *S3) fileURL(fileKey string) string {
	if c.Config.BaseURL == "" {
		return fileKey
	}
	return fileurl.PathSuffixCheckAdd(c.Config.BaseURL, "/") + fileKey
}
