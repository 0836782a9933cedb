package xrotate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// 模糊测试（Fuzz）
//
// 运行方式：go test -fuzz=FuzzXxx -fuzztime=30s
// =============================================================================

// FuzzRewriteHead 任意已有内容下截断重写的结果
//
// 测试目标：
//   - 重写后文件以 min(K, 行数) 行规范化的头部加分隔行组成
//   - 计数与文件真实大小一致
func FuzzRewriteHead(f *testing.F) {
	f.Add([]byte("a\nb\nc\nd\n"), uint8(3))
	f.Add([]byte(""), uint8(3))
	f.Add([]byte("no newline"), uint8(1))
	f.Add([]byte("a\r\nb\r\n"), uint8(5))
	f.Add([]byte("\n\n\n\n"), uint8(0))
	f.Add([]byte("\xff\xfe\n\xe4\xb8\n"), uint8(2))
	f.Add(bytes.Repeat([]byte("x"), 8192), uint8(2))

	dir := f.TempDir()

	f.Fuzz(func(t *testing.T, existing []byte, preserve uint8) {
		filename := filepath.Join(dir, "fuzz_rewrite.log")
		if err := os.WriteFile(filename, existing, 0o600); err != nil {
			t.Fatal(err)
		}

		w, err := Open(filename, LineFormatter, WithMaxSize(1<<30), WithPreserveLines(int(preserve)))
		if err != nil {
			t.Fatal(err)
		}
		defer w.Close()

		if err := w.Rotate(); err != nil {
			t.Fatal(err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatal(err)
		}
		want := expectedHead(string(existing), int(preserve)) + RewriteSeparator + "\n"
		if string(got) != want {
			t.Errorf("rewrite = %q, want %q", got, want)
		}
		if n, _ := w.Len(); n != int64(len(got)) {
			t.Errorf("Len = %d, file size = %d", n, len(got))
		}
	})
}

// expectedHead 按行拆分参考实现
func expectedHead(s string, k int) string {
	var b strings.Builder
	for i := 0; i < k && s != ""; i++ {
		line, rest, found := strings.Cut(s, "\n")
		if !found {
			rest = ""
		}
		b.WriteString(strings.TrimSuffix(line, "\r"))
		b.WriteByte('\n')
		s = rest
	}
	return b.String()
}

// FuzzEmitAccounting 任意事件序列下计数等于文件大小
func FuzzEmitAccounting(f *testing.F) {
	f.Add("hello world", uint16(64))
	f.Add("", uint16(0))
	f.Add("日志消息", uint16(16))
	f.Add("special chars: \x00\x01\x02", uint16(1))

	dir := f.TempDir()

	f.Fuzz(func(t *testing.T, event string, maxSize uint16) {
		filename := filepath.Join(dir, "fuzz_emit.log")
		_ = os.Remove(filename)

		w, err := Open(filename, LineFormatter, WithMaxSize(int64(maxSize)))
		if err != nil {
			t.Fatal(err)
		}
		defer w.Close()

		for range 8 {
			if _, err := w.Emit(event); err != nil {
				t.Fatal(err)
			}
		}
		info, err := os.Stat(filename)
		if err != nil {
			t.Fatal(err)
		}
		if n, _ := w.Len(); n != info.Size() {
			t.Errorf("Len = %d, file size = %d", n, info.Size())
		}
	})
}
