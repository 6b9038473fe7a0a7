package webdav

import (
	"github.com/haierkeys/entry-board-service/pkg/fileurl"

	"github.com/studio-b12/gowebdav"
)

// Config WebDAV 连接信息
type Config struct {
	IsEnabled  bool   `yaml:"is-enable"`
	Endpoint   string `yaml:"endpoint"`
	Path       string `yaml:"path"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	CustomPath string `yaml:"custom-path"`
	BaseURL    string `yaml:"base-url"`
}

// WebDAV 客户端
type WebDAV struct {
	Client *gowebdav.Client
	Config *Config
}

var clients = make(map[string]*WebDAV)

// NewClient 创建 WebDAV 客户端实例
// 相同连接参数复用已有客户端
func NewClient(conf *Config) (*WebDAV, error) {
	key := conf.Endpoint + conf.Path + conf.User + conf.CustomPath
	if clients[key] != nil {
		return clients[key], nil
	}

	c := gowebdav.NewClient(conf.Endpoint, conf.User, conf.Password)
	c.Connect()

	clients[key] = &WebDAV{
		Client: c,
		Config: conf,
	}
	return clients[key], nil
}

// fileURL 拼接最终访问地址
func (w *WebDAV) fileURL(fileKey string) string {
	if w.Config.BaseURL == "" {
		return fileKey
	}
	return fileurl.PathSuffixCheckAdd(w.Config.BaseURL, "/") + fileKey
}
