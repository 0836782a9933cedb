package xrotate

import (
	"fmt"
	"io"
)

var _ Stream = (*CountingStream)(nil)

// CountingStream 维护被包装流的字节长度计数。
//
// 计数在构造时取自流的真实长度（支持进程重启后续写已有文件），
// 之后只由 Write（+= 写入字节数）和 Truncate（= 新长度）更新；
// Seek 和 Read 不改变计数。每次写入的计数开销是 O(1)，无需 stat。
//
// CountingStream 不是并发安全的，由 [Writer] 的互斥锁保护。
type CountingStream struct {
	s Stream
	n int64
}

// NewCountingStream 包装 s，并以 s 的当前字节长度初始化计数。
// 长度通过 Seek 到末尾获得，随后恢复原读写位置。
func NewCountingStream(s Stream) (*CountingStream, error) {
	if s == nil {
		return nil, ErrNilStream
	}
	cur, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("xrotate: query stream position: %w", err)
	}
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("xrotate: query stream length: %w", err)
	}
	if end != cur {
		if _, err := s.Seek(cur, io.SeekStart); err != nil {
			return nil, fmt.Errorf("xrotate: restore stream position: %w", err)
		}
	}
	return &CountingStream{s: s, n: end}, nil
}

// Len 返回计数的字节长度
func (c *CountingStream) Len() int64 {
	return c.n
}

// Write 转发写入后累加计数。
// 底层写入失败时错误原样返回，本次调用不修改计数。
func (c *CountingStream) Write(p []byte) (int, error) {
	n, err := c.s.Write(p)
	if err != nil {
		return n, err
	}
	c.n += int64(n)
	return n, nil
}

// Truncate 转发长度设置，成功后计数直接置为 size
func (c *CountingStream) Truncate(size int64) error {
	if err := c.s.Truncate(size); err != nil {
		return err
	}
	c.n = size
	return nil
}

// Read 转发读取，不影响计数
func (c *CountingStream) Read(p []byte) (int, error) {
	return c.s.Read(p)
}

// Seek 转发定位，不影响计数
func (c *CountingStream) Seek(offset int64, whence int) (int64, error) {
	return c.s.Seek(offset, whence)
}

// SeekToStart 定位到 offset 0，仅供截断重写使用
func (c *CountingStream) SeekToStart() error {
	_, err := c.s.Seek(0, io.SeekStart)
	return err
}

// SetPosition 总是返回 [ErrPositionUnsupported]。
//
// 位置只能通过顺序读写和 Seek 改变；直接赋值绝对位置会绕开计数的推理前提，
// 属于调用方误用。
func (c *CountingStream) SetPosition(int64) error {
	return ErrPositionUnsupported
}

// Sync 转发
func (c *CountingStream) Sync() error {
	return c.s.Sync()
}

// Close 关闭被包装的流
func (c *CountingStream) Close() error {
	return c.s.Close()
}
