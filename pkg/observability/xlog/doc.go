// Package xlog 基于 log/slog 的结构化日志库。
//
// # 创建 Logger
//
// 使用 Builder 模式（first-error-wins）：
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetBoundedFile("/var/log/app.log",
//			xrotate.WithMaxSize(10<<20),
//			xrotate.WithPreserveLines(5)).
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// [Builder.SetBoundedFile] 把输出接到 [xrotate.Writer]：文件大小达到上限后原地截断，
// 保留头部若干行并追加分隔行，单个日志文件的磁盘占用因此有界。
//
// # 追踪字段
//
// 默认启用 [EnrichHandler]：context 中存在有效的 OpenTelemetry span 时，
// 自动注入 trace_id 和 span_id。
//
// # 日志级别
//
// LevelDebug(-4)、LevelInfo(0)、LevelWarn(4)、LevelError(8)，
// 可通过 [ParseLevel] 从字符串解析，Level 实现 encoding.TextUnmarshaler，
// 可以直接出现在配置结构体中。
package xlog
