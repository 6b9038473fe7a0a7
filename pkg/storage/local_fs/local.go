package local_fs

import (
	"github.com/haierkeys/entry-board-service/pkg/fileurl"

	"github.com/creasty/defaults"
)

type Config struct {
	IsEnabled  bool   `yaml:"is-enable" default:"true"`
	SavePath   string `yaml:"save-path" default:"storage/uploads"`
	CustomPath string `yaml:"custom-path"`
	BaseURL    string `yaml:"base-url"`
}

// LocalFS 本地文件系统存储
type LocalFS struct {
	Config *Config
}

// NewClient 创建本地存储实例
func NewClient(conf *Config) (*LocalFS, error) {
	if err := defaults.Set(conf); err != nil {
		return nil, err
	}
	return &LocalFS{Config: conf}, nil
}

// getSavePath 拼接落盘根目录
func (p *LocalFS) getSavePath() string {
	return fileurl.PathSuffixCheckAdd(p.Config.SavePath, "/")
}

// fileURL 拼接最终访问地址
// 未配置 BaseURL 时返回路径键本身
func (p *LocalFS) fileURL(fileKey string) string {
	if p.Config.BaseURL == "" {
		return fileKey
	}
	return fileurl.PathSuffixCheckAdd(p.Config.BaseURL, "/") + fileKey
}
