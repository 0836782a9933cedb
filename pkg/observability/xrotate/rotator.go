package xrotate

import "io"

// 编译时断言：Rotator 接口是 io.WriteCloser 的超集
var _ io.WriteCloser = (Rotator)(nil)

// Rotator 日志轮转器接口
//
// 隐式实现 [io.WriteCloser]，可直接作为 xlog 等 io.Writer 消费方的输出目标。
// 额外提供 Rotate 方法用于手动触发轮转。所有实现都必须是并发安全的。
//
// 实现约定：
//   - Write 必须是并发安全的，单次 Write 的字节不得与其他写入交错
//   - Close 后调用 Write 或 Rotate 应返回 [ErrClosed]
//   - Rotate 可以在任意时刻调用
type Rotator interface {
	// Write 写入一条日志；达到轮转条件时先轮转再写入
	Write(p []byte) (n int, err error)

	// Close 关闭轮转器，释放资源。重复调用返回 [ErrClosed]
	Close() error

	// Rotate 立即执行一次轮转。
	// [Writer] 的轮转是原地截断重写：保留文件头部若干行，追加分隔行，其余内容丢弃。
	Rotate() error
}
