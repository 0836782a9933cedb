package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/omeyang/xlogfile/pkg/lifecycle/xrun"
	"github.com/omeyang/xlogfile/pkg/observability/xlog"
	"github.com/omeyang/xlogfile/pkg/observability/xmetrics"
	"github.com/omeyang/xlogfile/pkg/observability/xrotate"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// maxLineSize stdin 单行上限
const maxLineSize = 1 << 20

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createAppendCommand(),
		createRewriteCommand(),
		createStatCommand(),
	}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagFile,
		Aliases: []string{"f"},
		Usage:   "日志文件路径",
	}
}

func maxSizeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  flagMaxSize,
		Usage: "字节上限，如 10MiB、512KB；不设置时不限制",
	}
}

func preserveFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  flagPreserve,
		Usage: "截断重写时保留的头部行数",
		Value: xrotate.DefaultPreserveLines,
	}
}

func encodingFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  flagEncoding,
		Usage: "文件文本编码（WHATWG 标签，如 utf-8、utf-16le、gbk）",
	}
}

// createAppendCommand 创建 append 子命令。
func createAppendCommand() *cli.Command {
	return &cli.Command{
		Name:    "append",
		Aliases: []string{"a"},
		Usage:   "从 stdin 逐行读取并追加到日志文件",
		Flags: []cli.Flag{
			fileFlag(),
			maxSizeFlag(),
			preserveFlag(),
			encodingFlag(),
			&cli.BoolFlag{Name: flagBuffered, Usage: "缓冲写入，结束时统一刷出"},
			&cli.BoolFlag{Name: flagSync, Usage: "结束前把数据同步到持久化存储"},
			&cli.DurationFlag{Name: flagFlushInterval, Usage: "读取期间周期性刷出并同步到持久化存储，如 1s；0 表示不刷"},
		},
		OnUsageError: onUsageError,
		Action:       cmdAppend,
	}
}

// createRewriteCommand 创建 rewrite 子命令。
func createRewriteCommand() *cli.Command {
	return &cli.Command{
		Name:         "rewrite",
		Aliases:      []string{"r"},
		Usage:        "立即对日志文件执行一次截断重写",
		Flags:        []cli.Flag{fileFlag(), preserveFlag(), encodingFlag()},
		OnUsageError: onUsageError,
		Action:       cmdRewrite,
	}
}

// createStatCommand 创建 stat 子命令。
func createStatCommand() *cli.Command {
	return &cli.Command{
		Name:         "stat",
		Aliases:      []string{"s"},
		Usage:        "查看日志文件大小以及是否超过上限",
		Flags:        []cli.Flag{fileFlag(), maxSizeFlag()},
		OnUsageError: onUsageError,
		Action:       cmdStat,
	}
}

// rewriteCounter 统计截断重写次数，其余观测交给 next。
type rewriteCounter struct {
	next     xmetrics.Observer
	rewrites atomic.Int64
}

func (c *rewriteCounter) Start(ctx context.Context, opts xmetrics.SpanOptions) (context.Context, xmetrics.Span) {
	ctx, span := xmetrics.Start(ctx, c.next, opts)
	if opts.Operation != "rewrite" {
		return ctx, span
	}
	return ctx, countingSpan{next: span, c: c}
}

type countingSpan struct {
	next xmetrics.Span
	c    *rewriteCounter
}

func (s countingSpan) End(r xmetrics.Result) {
	if r.Err == nil {
		s.c.rewrites.Add(1)
	}
	s.next.End(r)
}

func newRewriteCounter() *rewriteCounter {
	// 使用全局 OTel provider，未配置时为 noop
	obs, err := xmetrics.NewOTelObserver(xmetrics.WithInstrumentationName("xlogfilectl"))
	if err != nil {
		obs = xmetrics.NoopObserver{}
	}
	return &rewriteCounter{next: obs}
}

func cmdAppend(ctx context.Context, cmd *cli.Command) (err error) {
	s, level, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, level)
	if err != nil {
		return err
	}
	opts, err := s.writerOptions(true)
	if err != nil {
		return err
	}
	counter := newRewriteCounter()
	opts = append(opts, xrotate.WithObserver(counter))

	w, err := xrotate.Open(s.File, xrotate.LineFormatter, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	start := time.Now()
	var lines int
	g, _ := xrun.NewGroup(ctx, xrun.WithName("append"), xrun.WithLogger(logger))
	g.Go(func(ctx context.Context) error {
		n, err := pump(ctx, w, cmd.Root().Reader)
		lines = n
		if err != nil {
			return err
		}
		// 输入结束，停止周期刷盘
		g.Cancel(nil)
		return nil
	})
	if s.FlushInterval > 0 {
		g.Go(xrun.Ticker(s.FlushInterval, func(context.Context) error {
			return w.FlushToDisk()
		}))
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if s.Sync {
		if err := w.FlushToDisk(); err != nil {
			return err
		}
	}

	attrs := []slog.Attr{
		xlog.Path(w.Path()),
		slog.Int("lines", lines),
		slog.Int64("rewrites", counter.rewrites.Load()),
		xlog.Duration(time.Since(start)),
	}
	if n, ok := w.Len(); ok {
		attrs = append(attrs, xlog.Bytes(n))
	}
	logger.Info(ctx, "append finished", attrs...)
	return nil
}

// pump 逐行读取 r 并写入 w，返回成功写入的行数。
func pump(ctx context.Context, w *xrotate.Writer, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var lines int
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return lines, err
		}
		if _, err := w.Emit(scanner.Text()); err != nil {
			return lines, fmt.Errorf("append line %d: %w", lines+1, err)
		}
		lines++
	}
	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("read stdin: %w", err)
	}
	return lines, nil
}

func cmdRewrite(ctx context.Context, cmd *cli.Command) error {
	s, level, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, level)
	if err != nil {
		return err
	}
	opts, err := s.writerOptions(false)
	if err != nil {
		return err
	}

	if _, err := os.Stat(s.File); err != nil {
		return fmt.Errorf("rewrite: %w", err)
	}
	w, err := xrotate.Open(s.File, xrotate.LineFormatter, opts...)
	if err != nil {
		return err
	}
	if err := w.Rotate(); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	info, err := os.Stat(w.Path())
	if err != nil {
		return err
	}
	logger.Debug(ctx, "rewrite finished", xlog.Path(w.Path()), slog.Int("preserve", s.Preserve))
	fmt.Fprintf(cmd.Root().Writer, "%s: %s\n", w.Path(), humanize.IBytes(uint64(info.Size())))
	return nil
}

func cmdStat(_ context.Context, cmd *cli.Command) error {
	s, _, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	limit, bounded, err := s.maxSize()
	if err != nil {
		return err
	}

	info, err := os.Stat(s.File)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("stat: %s is a directory", s.File)
	}

	out := cmd.Root().Writer
	size := info.Size()
	fmt.Fprintf(out, "path:     %s\n", s.File)
	fmt.Fprintf(out, "size:     %d (%s)\n", size, humanize.IBytes(uint64(size)))
	if !bounded {
		fmt.Fprintln(out, "max_size: unbounded")
		fmt.Fprintln(out, "exceeded: false")
		return nil
	}
	fmt.Fprintf(out, "max_size: %d (%s)\n", limit, humanize.IBytes(uint64(limit)))
	fmt.Fprintf(out, "exceeded: %t\n", size >= limit)
	return nil
}
