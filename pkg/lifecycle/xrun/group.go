package xrun

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/omeyang/xlogfile/pkg/observability/xlog"

	"golang.org/x/sync/errgroup"
)

// Group 管理一组并发任务的运行和协调关闭。
//
// Go、Cancel 可并发调用；Wait 只应调用一次。
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	name     string
	logger   xlog.Logger
}

// Option 配置 Group。
type Option func(*Group)

// WithName 设置 Group 名称，出现在日志的 group 字段中。
func WithName(name string) Option {
	return func(g *Group) {
		if name != "" {
			g.name = name
		}
	}
}

// WithLogger 设置记录任务异常退出的日志器，默认不记录。
func WithLogger(logger xlog.Logger) Option {
	return func(g *Group) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGroup 创建 Group，返回的 context 在任一任务失败或 Cancel 时取消。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)

	g := &Group{
		eg:       eg,
		ctx:      egCtx,
		causeCtx: causeCtx,
		cancel:   cancel,
		name:     "xrun",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, egCtx
}

// Go 在新的 goroutine 中运行 fn。fn 应监听 ctx.Done()。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		err := fn(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) && g.logger != nil {
			g.logger.Warn(g.ctx, "task exited with error",
				slog.String("group", g.name), xlog.Err(err))
		}
		return err
	})
}

// Cancel 取消所有任务。cause 非 nil 时由 Wait 返回。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Wait 等待所有任务结束，返回第一个失败原因。
//
// 由 Cancel 或父 context 引起的 context.Canceled 被过滤：
// 有显式 cause 时返回 cause，否则返回 nil。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()
	if g.causeCtx.Err() != nil && (err == nil || errors.Is(err, context.Canceled)) {
		if cause := context.Cause(g.causeCtx); cause != nil && !errors.Is(cause, context.Canceled) {
			return cause
		}
		return nil
	}
	return err
}

// Ticker 返回周期性执行 fn 的任务函数，ctx 取消时返回 ctx.Err()。
func Ticker(interval time.Duration, fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if interval <= 0 {
			return ErrInvalidInterval
		}
		if fn == nil {
			return ErrNilFunc
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := fn(ctx); err != nil {
					return err
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
