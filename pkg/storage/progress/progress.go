// Package progress 提供带进度回调的读取器
package progress

import (
	"bytes"
	"io"
)

// Reader reports cumulative written bytes while being consumed
// Reader 在被读取的同时报告累计字节数
type Reader struct {
	r       *bytes.Reader
	total   int64
	written int64
	fn      func(written int64, total int64)
}

// NewReader wraps content with a progress callback
// NewReader 包装内容并挂接进度回调
// fn 为 nil 时只做普通读取
func NewReader(content []byte, fn func(written int64, total int64)) *Reader {
	return &Reader{
		r:     bytes.NewReader(content),
		total: int64(len(content)),
		fn:    fn,
	}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		r.written += int64(n)
		if r.fn != nil {
			r.fn(r.written, r.total)
		}
	}
	return n, err
}

// Len 返回剩余未读取的字节数
func (r *Reader) Len() int {
	return r.r.Len()
}

var _ io.Reader = (*Reader)(nil)

// Report invokes fn around a non-streaming upload
// Report 为一次性上传补发起止进度
// SDK 不暴露传输回调时，上传前后各报告一次
func Report(fn func(written int64, total int64), total int64, done bool) {
	if fn == nil {
		return
	}
	if done {
		fn(total, total)
	} else {
		fn(0, total)
	}
}
