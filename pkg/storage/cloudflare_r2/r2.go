package cloudflare_r2

import (
	"context"
	"fmt"

	"github.com/haierkeys/entry-board-service/pkg/fileurl"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// Config Cloudflare R2 连接信息
type Config struct {
	IsEnabled       bool   `yaml:"is-enable"`
	AccountID       string `yaml:"account-id"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
	BaseURL         string `yaml:"base-url"`
}

// R2 客户端，走 S3 兼容接口
type R2 struct {
	S3Client *s3.Client
	Config   *Config
}

var clients = make(map[string]*R2)

// NewClient 创建 R2 客户端实例
// 相同访问密钥复用已有客户端
func NewClient(conf *Config) (*R2, error) {
	key := conf.AccessKeyID + conf.AccountID + conf.BucketName
	if clients[key] != nil {
		return clients[key], nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret, ""),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "cloudflare_r2")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", conf.AccountID))
	})

	clients[key] = &R2{
		S3Client: client,
		Config:   conf,
	}
	return clients[key], nil
}

// fileURL 拼接最终访问地址
func (c *R2) fileURL(fileKey string) string {
	if c.Config.BaseURL == "" {
		return fileKey
	}
	return fileurl.PathSuffixCheckAdd(c.Config.BaseURL, "/") + fileKey
}
