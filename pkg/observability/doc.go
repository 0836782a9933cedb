// Package observability 提供日志输出与可观测性相关的子包。
//
// 子包列表：
//   - xrotate: 大小受限的单文件日志写入器，超限时原地截断重写
//   - xlog: 结构化日志，基于 log/slog 扩展，可直接输出到 xrotate
//   - xmetrics: 统一可观测性接口（指标、追踪），默认 OpenTelemetry 实现
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 自动从 context 中提取追踪信息注入日志
//   - 库代码不自行打印日志，异常通过返回值和 Observer 暴露
package observability
