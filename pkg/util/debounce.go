package util

import (
	"sync"
	"time"
)

// Debouncer delays a callback until calls stop arriving for the interval
// Debouncer 在间隔时间内无新调用后才触发回调
// 多次 Do 只保留最后一次的回调
type Debouncer struct {
	interval time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a Debouncer with the given interval
// NewDebouncer 创建指定间隔的 Debouncer
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Do schedules fn, replacing any pending callback
// Do 调度 fn，替换任何未触发的回调
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, fn)
}

// Stop cancels any pending callback
// Stop 取消未触发的回调
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
