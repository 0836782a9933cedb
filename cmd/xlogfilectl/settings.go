package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/omeyang/xlogfile/pkg/config/xconf"
	"github.com/omeyang/xlogfile/pkg/observability/xlog"
	"github.com/omeyang/xlogfile/pkg/observability/xrotate"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// flag 名称
const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
	flagFile     = "file"
	flagMaxSize  = "max-size"
	flagPreserve = "preserve"
	flagBuffered = "buffered"
	flagEncoding = "encoding"
	flagSync     = "sync"

	flagFlushInterval = "flush-interval"
)

// fileConfig 配置文件结构
type fileConfig struct {
	LogLevel xlog.Level `koanf:"log_level"`
	Logfile  settings   `koanf:"logfile"`
}

// settings 日志文件相关设置，来源于配置文件和命令行参数
type settings struct {
	File     string `koanf:"file"`
	MaxSize  string `koanf:"max_size"`
	Preserve int    `koanf:"preserve"`
	Buffered bool   `koanf:"buffered"`
	Encoding string `koanf:"encoding"`
	Sync     bool   `koanf:"sync"`

	FlushInterval time.Duration `koanf:"flush_interval"`
}

// loadSettings 依次应用默认值、配置文件、显式设置的命令行参数。
func loadSettings(cmd *cli.Command) (settings, xlog.Level, error) {
	fc := fileConfig{
		LogLevel: xlog.LevelInfo,
		Logfile:  settings{Preserve: xrotate.DefaultPreserveLines},
	}

	if path := cmd.String(flagConfig); path != "" {
		cfg, err := xconf.New(path)
		if err != nil {
			return settings{}, 0, &usageError{err: err}
		}
		if err := cfg.Unmarshal("", &fc); err != nil {
			return settings{}, 0, &usageError{err: err}
		}
	}

	if cmd.IsSet(flagLogLevel) {
		level, err := xlog.ParseLevel(cmd.String(flagLogLevel))
		if err != nil {
			return settings{}, 0, &usageError{err: err}
		}
		fc.LogLevel = level
	}

	s := fc.Logfile
	if cmd.IsSet(flagFile) {
		s.File = cmd.String(flagFile)
	}
	if cmd.IsSet(flagMaxSize) {
		s.MaxSize = cmd.String(flagMaxSize)
	}
	if cmd.IsSet(flagPreserve) {
		s.Preserve = int(cmd.Int(flagPreserve))
	}
	if cmd.IsSet(flagBuffered) {
		s.Buffered = cmd.Bool(flagBuffered)
	}
	if cmd.IsSet(flagEncoding) {
		s.Encoding = cmd.String(flagEncoding)
	}
	if cmd.IsSet(flagSync) {
		s.Sync = cmd.Bool(flagSync)
	}

	if cmd.IsSet(flagFlushInterval) {
		s.FlushInterval = cmd.Duration(flagFlushInterval)
	}

	if s.File == "" {
		return settings{}, 0, newUsageError("--%s is required", flagFile)
	}
	if s.Preserve < 0 {
		return settings{}, 0, newUsageError("--%s must be >= 0, got %d", flagPreserve, s.Preserve)
	}
	if s.FlushInterval < 0 {
		return settings{}, 0, newUsageError("--%s must be >= 0, got %s", flagFlushInterval, s.FlushInterval)
	}
	return s, fc.LogLevel, nil
}

// maxSize 解析字节上限，如 "10MiB"、"512k"。空字符串表示不限制。
func (s settings) maxSize() (int64, bool, error) {
	if strings.TrimSpace(s.MaxSize) == "" {
		return 0, false, nil
	}
	n, err := humanize.ParseBytes(s.MaxSize)
	if err != nil {
		return 0, false, newUsageError("invalid --%s %q: %v", flagMaxSize, s.MaxSize, err)
	}
	if n > math.MaxInt64 {
		return 0, false, newUsageError("--%s %q is too large", flagMaxSize, s.MaxSize)
	}
	return int64(n), true, nil
}

// encoding 按 WHATWG 编码标签查找编码，如 "utf-8"、"utf-16le"、"gbk"。
// 空字符串返回 nil，表示使用默认 UTF-8。
func (s settings) encoding() (encoding.Encoding, error) {
	if strings.TrimSpace(s.Encoding) == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(s.Encoding)
	if err != nil {
		return nil, newUsageError("unknown --%s %q", flagEncoding, s.Encoding)
	}
	return enc, nil
}

// writerOptions 把设置转换为 xrotate 选项。
func (s settings) writerOptions(withCeiling bool) ([]xrotate.Option, error) {
	opts := []xrotate.Option{
		xrotate.WithPreserveLines(s.Preserve),
		xrotate.WithBuffered(s.Buffered),
	}
	if withCeiling {
		limit, ok, err := s.maxSize()
		if err != nil {
			return nil, err
		}
		if ok {
			opts = append(opts, xrotate.WithMaxSize(limit))
		}
	}
	enc, err := s.encoding()
	if err != nil {
		return nil, err
	}
	if enc != nil {
		opts = append(opts, xrotate.WithEncoding(enc))
	}
	return opts, nil
}

// newLogger 创建工具自身的日志器，输出到 stderr。
func newLogger(cmd *cli.Command, level xlog.Level) (xlog.LoggerWithLevel, error) {
	logger, _, err := xlog.New().
		SetOutput(cmd.Root().ErrWriter).
		SetLevel(level).
		SetEnrich(false).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
