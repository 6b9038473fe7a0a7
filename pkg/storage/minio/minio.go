package minio

import (
	"context"

	"github.com/haierkeys/entry-board-service/pkg/fileurl"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// Config MinIO 连接信息
type Config struct {
	IsEnabled       bool   `yaml:"is-enable"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
	BaseURL         string `yaml:"base-url"`
}

// MinIO 客户端，走 S3 兼容接口
// 自建服务要求路径风格寻址
type MinIO struct {
	S3Client *s3.Client
	Config   *Config
}

var clients = make(map[string]*MinIO)

// NewClient 创建 MinIO 客户端实例
// 相同访问密钥复用已有客户端
func NewClient(conf *Config) (*MinIO, error) {
	key := conf.AccessKeyID + conf.Endpoint + conf.BucketName
	if clients[key] != nil {
		return clients[key], nil
	}

	region := conf.Region
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret, ""),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "minio")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(conf.Endpoint)
		o.UsePathStyle = true
	})

	clients[key] = &MinIO{
		S3Client: client,
		Config:   conf,
	}
	return clients[key], nil
}

// fileURL 拼接最终访问地址
func (c *MinIO) fileURL(fileKey string) string {
	if c.Config.BaseURL == "" {
		return fileKey
	}
	return fileurl.PathSuffixCheckAdd(c.Config.BaseURL, "/") + fileKey
}
