// Package xmetrics 提供统一的可观测性接口（metrics + tracing）。
//
// xmetrics 仅定义最小化接口：Observer/Span，业务代码只依赖接口；
// 默认实现基于 OpenTelemetry。xrotate 用它记录截断重写和落盘同步。
//
// # 使用示例
//
//	obs, _ := xmetrics.NewOTelObserver()
//	ctx, span := xmetrics.Start(ctx, obs, xmetrics.SpanOptions{
//		Component: "xrotate",
//		Operation: "rewrite",
//	})
//	defer span.End(xmetrics.Result{Err: err})
//
// # 指标命名
//
//   - xlogfile.operations
//   - xlogfile.operation.duration
//
// 统一属性：component / operation / status。
package xmetrics
