// Package xfile 提供日志文件落盘所需的文件系统工具。
//
// # 功能概览
//
//   - [SanitizePath]: 路径格式净化（空路径、空字节、目录路径、相对路径穿越）
//   - [EnsureDir] / [EnsureDirWithPerm]: 确保文件的父目录存在
//   - [OpenAppend]: 以读写方式打开（不存在则创建）文件，并定位到文件末尾
//   - [Datasync]: 将文件数据刷到持久化存储（Linux 上使用 fdatasync）
//
// # 路径穿越检测
//
// 只有 ".." 作为独立路径段时才视为穿越。以 ".." 开头的合法文件名
// （如 "..config"、"app..2024.log"）不会被误判。
//
// # 空字节防护
//
// SanitizePath 和 EnsureDir 均拒绝包含空字节（\x00）的路径。Linux 内核在 VFS 层
// 会在空字节处截断路径，导致 Go 代码与操作系统实际操作的路径不一致。
//
// # 错误处理
//
// 预定义错误变量支持 [errors.Is] 判断：
//
//	_, err := xfile.SanitizePath("../etc/passwd")
//	if errors.Is(err, xfile.ErrPathTraversal) {
//	    // 处理路径穿越
//	}
package xfile
