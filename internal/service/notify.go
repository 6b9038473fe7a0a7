package service

import (
	"go.uber.org/zap"
)

// Notifier surfaces workflow outcomes to the user
// Notifier 把流程结果以通知形式呈现给用户
// 每个成功或失败的操作都会产生一条通知，失败不会静默消失
type Notifier interface {
	// Success reports a completed operation
	// Success 报告操作成功
	Success(message string)

	// Error reports a failed operation with its cause
	// Error 报告操作失败及其原因
	Error(message string, err error)
}

// logNotifier implementation of Notifier over a zap logger
// logNotifier 基于 zap 日志器实现 Notifier 接口
type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a Notifier backed by a zap logger
// NewLogNotifier 创建基于 zap 日志器的 Notifier 实例
func NewLogNotifier(logger *zap.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Success(message string) {
	n.logger.Info("notify", zap.String("message", message))
}

func (n *logNotifier) Error(message string, err error) {
	n.logger.Warn("notify", zap.String("message", message), zap.Error(err))
}

// nopNotifier discards all notifications
// nopNotifier 丢弃所有通知
type nopNotifier struct{}

// NewNopNotifier creates a Notifier that discards everything
// NewNopNotifier 创建丢弃所有通知的 Notifier 实例
func NewNopNotifier() Notifier {
	return &nopNotifier{}
}

func (n *nopNotifier) Success(message string)          {}
func (n *nopNotifier) Error(message string, err error) {}
