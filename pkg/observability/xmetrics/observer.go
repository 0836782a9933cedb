package xmetrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// Attr 观测属性，直接使用 OTel 的键值类型，如 attribute.Int64("length", n)
type Attr = attribute.KeyValue

// SpanOptions 描述一次被观测的操作。
type SpanOptions struct {
	Component string // 如 "xrotate"
	Operation string // 如 "rewrite"、"flush_to_disk"
	Attrs     []Attr
}

// Result 操作结束时的结果，Err 非 nil 即视为失败。
type Result struct {
	Err   error
	Attrs []Attr // 如重写后的文件长度
}

// Span 一次观测跨度
type Span interface {
	End(result Result)
}

// Observer 观测接口。xrotate 只依赖它，不直接依赖 OTel SDK。
type Observer interface {
	Start(ctx context.Context, opts SpanOptions) (context.Context, Span)
}

// NoopObserver 什么都不记录
type NoopObserver struct{}

func (NoopObserver) Start(ctx context.Context, _ SpanOptions) (context.Context, Span) {
	return ctx, NoopSpan{}
}

// NoopSpan 空跨度
type NoopSpan struct{}

func (NoopSpan) End(Result) {}

// Start 用 observer 开始观测，保证返回非 nil 的 context 和 Span。
// observer 为 nil 或返回 nil 值时退化为 [NoopSpan]。
func Start(ctx context.Context, observer Observer, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if observer == nil {
		return ctx, NoopSpan{}
	}
	next, span := observer.Start(ctx, opts)
	if next == nil {
		next = ctx
	}
	if span == nil {
		span = NoopSpan{}
	}
	return next, span
}
