// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfile: 文件操作工具，路径清理、目录创建、打开追加文件、数据同步
//
// 设计原则：
//   - 安全处理路径遍历
//   - 跨平台兼容，平台相关实现按构建标签拆分
package util
