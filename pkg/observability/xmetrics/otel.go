package xmetrics

import (
	"cmp"
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xlogfile/xmetrics"

	metricOperations = "xlogfile.operations"
	metricDuration   = "xlogfile.operation.duration"

	// 未填写 Component/Operation 时使用
	unknown = "unknown"
)

type otelConfig struct {
	name string
	tp   trace.TracerProvider
	mp   metric.MeterProvider
}

// Option OTel Observer 配置项
type Option func(*otelConfig)

// WithInstrumentationName 设置 tracer/meter 名称，空字符串忽略
func WithInstrumentationName(name string) Option {
	return func(c *otelConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithTracerProvider 替换全局 TracerProvider
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *otelConfig) {
		if tp != nil {
			c.tp = tp
		}
	}
}

// WithMeterProvider 替换全局 MeterProvider
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *otelConfig) {
		if mp != nil {
			c.mp = mp
		}
	}
}

// NewOTelObserver 创建基于 OpenTelemetry 的 Observer。
//
// 每个跨度生成一个 trace span，结束时记录：
//   - xlogfile.operations: 次数，属性 component/operation/status
//   - xlogfile.operation.duration: 耗时（秒），属性同上
//
// 默认使用全局 provider，未配置时为 noop。
func NewOTelObserver(opts ...Option) (Observer, error) {
	cfg := otelConfig{
		name: defaultInstrumentationName,
		tp:   otel.GetTracerProvider(),
		mp:   otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt == nil {
			return nil, ErrNilOption
		}
		opt(&cfg)
	}

	meter := cfg.mp.Meter(cfg.name)
	ops, err := meter.Int64Counter(metricOperations,
		metric.WithDescription("log file operations by outcome"),
		metric.WithUnit("{operation}"))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCreateInstrument, metricOperations, err)
	}
	dur, err := meter.Float64Histogram(metricDuration,
		metric.WithDescription("time spent per log file operation"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCreateInstrument, metricDuration, err)
	}
	return &otelObserver{tracer: cfg.tp.Tracer(cfg.name), ops: ops, dur: dur}, nil
}

type otelObserver struct {
	tracer trace.Tracer
	ops    metric.Int64Counter
	dur    metric.Float64Histogram
}

func (o *otelObserver) Start(ctx context.Context, opts SpanOptions) (context.Context, Span) {
	component := attribute.String("component", cmp.Or(opts.Component, unknown))
	operation := attribute.String("operation", cmp.Or(opts.Operation, unknown))

	ctx, span := o.tracer.Start(ctx, operation.Value.AsString(),
		trace.WithAttributes(component, operation),
		trace.WithAttributes(opts.Attrs...))
	return ctx, &otelSpan{
		o:         o,
		span:      span,
		component: component,
		operation: operation,
		start:     time.Now(),
	}
}

type otelSpan struct {
	o         *otelObserver
	span      trace.Span
	component attribute.KeyValue
	operation attribute.KeyValue
	start     time.Time
	once      sync.Once
}

// End 只生效一次
func (s *otelSpan) End(r Result) {
	s.once.Do(func() {
		status := "ok"
		if r.Err != nil {
			status = "error"
			s.span.RecordError(r.Err)
			s.span.SetStatus(codes.Error, r.Err.Error())
		} else {
			s.span.SetStatus(codes.Ok, "")
		}
		s.span.SetAttributes(r.Attrs...)
		s.span.End()

		set := metric.WithAttributes(s.component, s.operation, attribute.String("status", status))
		// 记录发生在持锁路径上，与调用方 context 无关
		ctx := context.Background()
		s.o.ops.Add(ctx, 1, set)
		s.o.dur.Record(ctx, time.Since(s.start).Seconds(), set)
	})
}
