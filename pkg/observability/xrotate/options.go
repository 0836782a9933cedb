package xrotate

import (
	"fmt"
	"os"

	"github.com/omeyang/xlogfile/pkg/observability/xmetrics"
	"github.com/omeyang/xlogfile/pkg/util/xfile"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// 默认配置值
const (
	// DefaultPreserveLines 截断重写时保留的文件头部行数
	DefaultPreserveLines = 3

	// DefaultFileMode 新建日志文件的权限
	DefaultFileMode = xfile.DefaultFilePerm

	// DefaultBufferSize 文本写缓冲区大小（字节）
	DefaultBufferSize = 4096

	// RewriteSeparator 截断重写后紧跟在保留行之后的分隔行（不含换行符）
	RewriteSeparator = "===== Rewrite ===="
)

// config Writer 配置
type config struct {
	// maxSize 字节上限；hasMaxSize 为 false 时不限制增长
	maxSize    int64
	hasMaxSize bool

	// buffered 为 false 时每条事件写入后立即刷出写缓冲区
	buffered   bool
	bufferSize int

	// preserveLines 截断重写时保留的头部行数
	preserveLines int

	// encoding 文件文本编码，默认 UTF-8（无 BOM）
	encoding encoding.Encoding

	fileMode os.FileMode
	hook     StreamHook
	observer xmetrics.Observer

	err error
}

// Option Writer 配置选项函数
type Option func(*config)

func defaultConfig() config {
	return config{
		bufferSize:    DefaultBufferSize,
		preserveLines: DefaultPreserveLines,
		encoding:      unicode.UTF8,
		fileMode:      DefaultFileMode,
	}
}

// WithMaxSize 设置文件字节上限。
//
// 上限是建议值而非硬上限：计数达到或超过上限后，下一条事件在写入前触发截断重写，
// 单条事件可以让文件暂时超过上限。不设置时文件无限增长。
// 0 表示每条事件之前都重写。
func WithMaxSize(bytes int64) Option {
	return func(c *config) {
		c.maxSize = bytes
		c.hasMaxSize = true
	}
}

// WithBuffered 设置是否缓冲写入。
//
// 默认不缓冲：每条事件后刷出写缓冲区，外部读者立即可见。
// 缓冲模式下内容在 [Writer.FlushToDisk]、缓冲区满或截断重写时才写入文件，
// 计数也只在写入文件时更新。
func WithBuffered(buffered bool) Option {
	return func(c *config) {
		c.buffered = buffered
	}
}

// WithBufferSize 设置文本写缓冲区大小
func WithBufferSize(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// WithPreserveLines 设置截断重写时保留的头部行数，默认 [DefaultPreserveLines]
func WithPreserveLines(n int) Option {
	return func(c *config) {
		c.preserveLines = n
	}
}

// WithEncoding 设置文件文本编码，默认 UTF-8（无 BOM）。
// UTF-8 不做转码，写入的字节原样落盘。
// 计数统计的是编码后落到文件的字节数。
func WithEncoding(enc encoding.Encoding) Option {
	return func(c *config) {
		if enc == nil {
			c.err = ErrNilEncoding
			return
		}
		c.encoding = enc
	}
}

// WithFileMode 设置新建日志文件的权限，默认 [DefaultFileMode]。
// 仅允许权限位（0000~0777）；已存在的文件不修改权限。
func WithFileMode(mode os.FileMode) Option {
	return func(c *config) {
		c.fileMode = mode
	}
}

// WithStreamHook 设置打开时的流包装钩子，见 [StreamHook]
func WithStreamHook(hook StreamHook) Option {
	return func(c *config) {
		c.hook = hook
	}
}

// WithObserver 设置观测器，记录截断重写（rewrite）和落盘同步（flush_to_disk）。
//
// 观测在持锁期间同步执行，Observer 实现不得向同一 Writer 写入。
func WithObserver(obs xmetrics.Observer) Option {
	return func(c *config) {
		c.observer = obs
	}
}

// validate 校验配置
func (c *config) validate() error {
	if c.err != nil {
		return c.err
	}
	if c.hasMaxSize && c.maxSize < 0 {
		return fmt.Errorf("%w: got %d, want >= 0", ErrInvalidMaxSize, c.maxSize)
	}
	if c.preserveLines < 0 {
		return fmt.Errorf("%w: got %d, want >= 0", ErrInvalidPreserveLines, c.preserveLines)
	}
	if c.bufferSize <= 0 {
		return fmt.Errorf("%w: got %d, want > 0", ErrInvalidBufferSize, c.bufferSize)
	}
	if c.fileMode&^os.FileMode(0o777) != 0 {
		return fmt.Errorf("%w: got %04o, only permission bits (0000~0777) allowed",
			ErrInvalidFileMode, c.fileMode)
	}
	return nil
}
