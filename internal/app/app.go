package app

import (
	"fmt"

	"github.com/haierkeys/entry-board-service/internal/blobstore"
	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/internal/service"
	"github.com/haierkeys/entry-board-service/internal/store/gormstore"
	"github.com/haierkeys/entry-board-service/pkg/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB

	// 存储层
	Store domain.RemoteStore
	Blob  domain.BlobStore

	// Service 层
	NicknameService  service.NicknameService
	ShareService     service.ShareService
	ChecklistService service.ChecklistService
	ExportService    service.ExportService
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	a := &App{
		config: cfg,
		logger: logger,
	}

	db, err := gormstore.NewDBEngine(&cfg.Database)
	if err != nil {
		return nil, err
	}
	a.DB = db

	store, err := gormstore.New(db, gormstore.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	a.Store = store

	backend, err := storage.NewClient(&cfg.Storage)
	if err != nil {
		return nil, err
	}
	a.Blob = blobstore.New(backend, blobstore.WithLogger(logger))

	a.NicknameService = service.NewNicknameService(a.Store, logger, &cfg.Service)
	a.ShareService = service.NewShareService(a.Store, a.NicknameService, logger, &cfg.Service)
	a.ChecklistService = service.NewChecklistService(a.Store, logger)
	a.ExportService = service.NewExportService()

	logger.Info("app container initialized",
		zap.String("database", cfg.Database.Path),
		zap.String("storage", cfg.Storage.Type))

	return a, nil
}

// NewSession 为登录用户创建会话
func (a *App) NewSession(uid int64) *service.Session {
	return service.NewSession(uid, service.WithSessionLogger(a.logger))
}

// NewModal 为会话创建模态流程服务
// notifier 为 nil 时使用日志通知器
func (a *App) NewModal(session *service.Session, notifier service.Notifier, confirmer service.Confirmer) service.ModalService {
	if notifier == nil {
		notifier = service.NewLogNotifier(a.logger)
	}
	return service.NewModalService(a.Store, a.Blob, a.ShareService, session, notifier, confirmer, a.logger, &a.config.Service)
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("database connection closed")
	}
	return nil
}
