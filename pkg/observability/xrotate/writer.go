package xrotate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/omeyang/xlogfile/pkg/observability/xmetrics"
	"github.com/omeyang/xlogfile/pkg/util/xfile"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var _ Rotator = (*Writer)(nil)

// Writer 是大小受限、只追加的文本日志写入器。
//
// 每条事件经 [Formatter] 序列化后追加到文件末尾。配置了字节上限（[WithMaxSize]）时，
// Writer 用 [CountingStream] 跟踪文件长度；计数达到上限后，下一条事件写入前先执行
// 原地截断重写：保留文件头部若干行，追加 [RewriteSeparator] 分隔行，丢弃其余内容。
//
// 所有操作由同一把互斥锁串行化，截断重写期间其他写入方阻塞等待。
// 互斥锁只作用于本实例，不同 Writer 之间没有共享状态；同一文件不应被多个 Writer 打开。
type Writer struct {
	path      string
	formatter Formatter
	maxSize   int64
	buffered  bool
	preserve  int
	enc       encoding.Encoding
	observer  xmetrics.Observer

	mu      sync.Mutex
	counter *CountingStream // 仅在配置了字节上限时非 nil
	stream  Stream          // 最外层流（可能是 StreamHook 的返回值）
	encoder *transform.Writer // UTF-8 时为 nil
	text    *bufio.Writer
	reader  *bufio.Reader
	closed  bool
}

// Open 打开（不存在则创建）日志文件并返回 Writer。
//
// 文件以读写方式打开，读写位置在文件末尾（追加语义），外部进程可同时读取。
// 配置了字节上限时，计数以打开时文件的真实长度初始化。
//
// 参数:
//   - filename: 日志文件路径（必需），经 [xfile.SanitizePath] 规范化，父目录不存在时自动创建
//   - formatter: 事件格式化器（必需）
//   - opts: 可选配置项
func Open(filename string, formatter Formatter, opts ...Option) (*Writer, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	if formatter == nil {
		return nil, ErrNilFormatter
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	safePath, err := xfile.SanitizePath(filename)
	if err != nil {
		return nil, err
	}
	if err := xfile.EnsureDir(safePath); err != nil {
		return nil, err
	}

	f, err := xfile.OpenAppend(safePath, cfg.fileMode)
	if err != nil {
		return nil, fmt.Errorf("xrotate: open %s: %w", safePath, err)
	}

	stream, counter, err := buildStream(fileStream{File: f}, &cfg)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	enc, sink, encoder := textSink(stream, cfg.encoding)
	return &Writer{
		path:      safePath,
		formatter: formatter,
		maxSize:   cfg.maxSize,
		buffered:  cfg.buffered,
		preserve:  cfg.preserveLines,
		enc:       enc,
		observer:  cfg.observer,
		counter:   counter,
		stream:    stream,
		encoder:   encoder,
		text:      bufio.NewWriterSize(sink, cfg.bufferSize),
		reader:    bufio.NewReader(enc.NewDecoder().Reader(stream)),
	}, nil
}

// textSink 返回文本写入目标。
//
// UTF-8 直接写入流，字节原样落盘（含非法序列），不经转码器缓存不完整的字符；
// 此时返回的编码为 [encoding.Nop]，encoder 为 nil。
func textSink(stream Stream, enc encoding.Encoding) (encoding.Encoding, io.Writer, *transform.Writer) {
	if enc == unicode.UTF8 {
		return encoding.Nop, stream, nil
	}
	encoder := transform.NewWriter(stream, enc.NewEncoder())
	return enc, encoder, encoder
}

// buildStream 按 文件 → 计数 → 钩子 的顺序叠加流
func buildStream(file Stream, cfg *config) (Stream, *CountingStream, error) {
	stream := file
	var counter *CountingStream
	if cfg.hasMaxSize {
		c, err := NewCountingStream(file)
		if err != nil {
			return nil, nil, err
		}
		counter = c
		stream = c
	}
	if cfg.hook == nil {
		return stream, counter, nil
	}
	hooked, err := cfg.hook(stream, cfg.encoding)
	if err != nil {
		return nil, nil, fmt.Errorf("xrotate: stream hook: %w", err)
	}
	if hooked == nil {
		return nil, nil, fmt.Errorf("%w: returned by stream hook", ErrNilStream)
	}
	return hooked, counter, nil
}

// Path 返回规范化后的日志文件路径
func (w *Writer) Path() string {
	return w.path
}

// Len 返回计数的文件字节长度。未配置字节上限时不计数，ok 为 false。
func (w *Writer) Len() (n int64, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.counter == nil {
		return 0, false
	}
	return w.counter.Len(), true
}

// Emit 格式化并追加一条事件。
//
// 配置了字节上限且计数已达到上限时，先截断重写，再把本条事件写入截断后的文件。
// 超限从不导致丢弃事件：成功时 ok 恒为 true。
// nil 事件（含 nil 指针）在任何 I/O 之前返回 [ErrNilEvent]；I/O 错误原样包装返回，不重试。
func (w *Writer) Emit(event any) (ok bool, err error) {
	if isNilEvent(event) {
		return false, ErrNilEvent
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.emitLocked(event, w.formatter); err != nil {
		return false, err
	}
	return true, nil
}

// isNilEvent 报告 event 是否为 nil，包括装在接口里的 nil 指针
func isNilEvent(event any) bool {
	if event == nil {
		return true
	}
	v := reflect.ValueOf(event)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Write 把 p 原样作为一条事件追加，实现 [io.Writer]。
//
// 适合作为 slog Handler 等按行输出的写入目标：一次 Write 对应一条完整日志。
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.emitLocked(p, rawFormatter); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *Writer) emitLocked(event any, f Formatter) error {
	if w.closed {
		return ErrClosed
	}
	if w.counter != nil && w.counter.Len() >= w.maxSize {
		if err := w.rewriteLocked("overflow"); err != nil {
			return err
		}
	}
	if err := f.Format(w.text, event); err != nil {
		return fmt.Errorf("xrotate: format event: %w", err)
	}
	if !w.buffered {
		if err := w.text.Flush(); err != nil {
			return fmt.Errorf("xrotate: flush: %w", err)
		}
	}
	return nil
}

// Rotate 立即执行一次截断重写，不检查字节上限
func (w *Writer) Rotate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	return w.rewriteLocked("manual")
}

// FlushToDisk 刷出写缓冲区，并要求文件层把数据同步到持久化存储。
//
// 比每条事件后的缓冲区刷出更强：后者只把数据交给操作系统。
func (w *Writer) FlushToDisk() (err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	_, span := xmetrics.Start(context.Background(), w.observer, xmetrics.SpanOptions{
		Component: "xrotate",
		Operation: "flush_to_disk",
	})
	defer func() { span.End(xmetrics.Result{Err: err}) }()

	if err := w.text.Flush(); err != nil {
		return fmt.Errorf("xrotate: flush: %w", err)
	}
	if err := w.stream.Sync(); err != nil {
		return fmt.Errorf("xrotate: sync %s: %w", w.path, err)
	}
	return nil
}

// Close 刷出缓冲内容并关闭整条流链，只执行一次。
//
// 关闭后调用任何写入方法返回 [ErrClosed]，重复调用 Close 也返回 [ErrClosed]。
// 刷出失败时仍会关闭文件，错误合并返回。
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	w.closed = true

	var errs []error
	if err := w.text.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("xrotate: flush: %w", err))
	}
	if w.encoder != nil {
		if err := w.encoder.Close(); err != nil {
			errs = append(errs, fmt.Errorf("xrotate: flush encoder: %w", err))
		}
	}
	if err := w.stream.Close(); err != nil {
		errs = append(errs, fmt.Errorf("xrotate: close %s: %w", w.path, err))
	}
	return errors.Join(errs...)
}
