package aliyun_oss

import (
	"github.com/haierkeys/entry-board-service/pkg/fileurl"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"
)

// Config 阿里云 OSS 连接信息
type Config struct {
	IsEnabled       bool   `yaml:"is-enable"`
	Endpoint        string `yaml:"endpoint"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
	BaseURL         string `yaml:"base-url"`
}

// OSS 客户端
type OSS struct {
	Client *oss.Client
	Config *Config

	bucket *oss.Bucket
}

var clients = make(map[string]*OSS)

// NewClient 创建 OSS 客户端实例
// 相同访问密钥复用已有客户端
func NewClient(conf *Config) (*OSS, error) {
	key := conf.AccessKeyID + conf.Endpoint + conf.BucketName
	if clients[key] != nil {
		return clients[key], nil
	}

	c, err := oss.New(conf.Endpoint, conf.AccessKeyID, conf.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}

	clients[key] = &OSS{
		Client: c,
		Config: conf,
	}
	return clients[key], nil
}

// getBucket 惰性获取存储桶句柄
func (c *OSS) getBucket() (*oss.Bucket, error) {
	if c.bucket != nil {
		return c.bucket, nil
	}
	b, err := c.Client.Bucket(c.Config.BucketName)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	c.bucket = b
	return b, nil
}

// fileURL 拼接最终访问地址
func (c *OSS) fileURL(fileKey string) string {
	if c.Config.BaseURL == "" {
		return fileKey
	}
	return fileurl.PathSuffixCheckAdd(c.Config.BaseURL, "/") + fileKey
}
