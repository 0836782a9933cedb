package xrotate

import (
	"path/filepath"
	"testing"
)

// =============================================================================
// 性能测试（Benchmark）
// =============================================================================

func benchWriter(b *testing.B, opts ...Option) *Writer {
	b.Helper()
	w, err := Open(filepath.Join(b.TempDir(), "bench.log"), LineFormatter, opts...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = w.Close() })
	return w
}

// BenchmarkEmit 不缓冲、不限大小：每条事件一次 write 系统调用
func BenchmarkEmit(b *testing.B) {
	w := benchWriter(b)
	b.ReportAllocs()
	for b.Loop() {
		_, _ = w.Emit("benchmark log line with some content")
	}
}

// BenchmarkEmitBuffered 缓冲写入
func BenchmarkEmitBuffered(b *testing.B) {
	w := benchWriter(b, WithBuffered(true), WithBufferSize(64<<10))
	b.ReportAllocs()
	for b.Loop() {
		_, _ = w.Emit("benchmark log line with some content")
	}
}

// BenchmarkEmitWithRewrite 小上限下频繁截断重写
//
// 衡量重写路径（读头部、截断、写分隔行）的开销
func BenchmarkEmitWithRewrite(b *testing.B) {
	w := benchWriter(b, WithMaxSize(4<<10))
	b.ReportAllocs()
	for b.Loop() {
		_, _ = w.Emit("benchmark log line with some content")
	}
}

// BenchmarkEmitParallel 并发写入，衡量互斥锁开销
func BenchmarkEmitParallel(b *testing.B) {
	w := benchWriter(b, WithMaxSize(1<<20))
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = w.Emit("benchmark log line with some content")
		}
	})
}

// BenchmarkWriteRaw io.Writer 路径
func BenchmarkWriteRaw(b *testing.B) {
	w := benchWriter(b, WithMaxSize(1<<20))
	data := []byte("benchmark log line with some content\n")
	b.ReportAllocs()
	for b.Loop() {
		_, _ = w.Write(data)
	}
}
