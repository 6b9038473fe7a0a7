// Package blobstore 将对象存储后端适配为领域层的文件存储契约
package blobstore

import (
	"context"
	"io/fs"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/pkg/code"
	"github.com/haierkeys/entry-board-service/pkg/logger"
	"github.com/haierkeys/entry-board-service/pkg/storage"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type blobStore struct {
	backend storage.Storager
	logger  *zap.Logger
}

type Option func(*blobStore)

func WithLogger(l *zap.Logger) Option {
	return func(b *blobStore) {
		b.logger = l
	}
}

// New 包装存储后端，统一错误语义
// 后端缺失对象的信号各不相同，这里折算为 domain.ErrBlobNotFound
func New(backend storage.Storager, opts ...Option) domain.BlobStore {
	b := &blobStore{
		backend: backend,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *blobStore) Put(ctx context.Context, pathKey string, content []byte, onProgress func(written int64, total int64)) (string, error) {
	url, err := b.backend.Put(ctx, pathKey, content, onProgress)
	if err != nil {
		b.logger.Warn("文件上传失败", zap.String(logger.FieldPathKey, pathKey), zap.Error(err))
		return "", code.ErrorUploadFailed.WithDetails(err.Error())
	}
	return url, nil
}

func (b *blobStore) Delete(ctx context.Context, pathKey string) error {
	err := b.backend.Delete(ctx, pathKey)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ErrBlobNotFound
	}
	b.logger.Warn("文件删除失败", zap.String(logger.FieldPathKey, pathKey), zap.Error(err))
	return err
}
