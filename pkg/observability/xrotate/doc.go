// Package xrotate 提供大小受限、只追加的文本日志文件写入。
//
// [Writer] 把离散事件经外部 [Formatter] 序列化后追加到文件，并把文件大小
// 控制在配置的字节上限附近。Rotator 接口定义了轮转器的核心行为
// （Write/Close/Rotate），所有实现并发安全。
//
// # 长度计数
//
// [CountingStream] 包装文件流，打开时以文件真实长度初始化计数，之后只由
// Write 和 Truncate 更新，避免每次写入都执行 stat。流的叠加顺序为：
//
//	文件 → CountingStream（仅配置了上限时）→ StreamHook 返回的流（可选）
//
// # 截断重写
//
// 计数达到上限后，下一条事件写入前执行原地截断重写：
//
//  1. 回到文件开头，读取前 K 行（默认 3 行，[WithPreserveLines]）
//  2. 截断为 0 字节（计数随之归零）
//  3. 写入这 K 行和分隔行 "===== Rewrite ===="
//  4. 追加触发重写的事件
//
// 第 K 行之后的历史内容全部丢弃。这是有意的有损空间约束，不是带归档的轮转；
// 上限是建议值，单条事件可以让文件暂时超过上限。
//
// # 并发
//
// 每个 Writer 持有一把互斥锁，Emit/Write/Rotate/FlushToDisk/Close 全部串行执行，
// 单条事件的字节不会与其他事件交错。截断重写期间锁一直持有，其他写入方阻塞等待。
// 没有超时和取消。不支持多进程同时写同一文件。
//
// # 错误
//
// 配置错误在 [Open] 时同步返回；I/O 错误包装后返回给调用方，内部不记录日志、不重试。
// 所有预定义错误支持 [errors.Is] 判断。
//
// # 扩展新实现
//
//  1. 创建新文件实现 Rotator 接口
//  2. 定义独立的配置和 Option
//  3. 提供独立的构造函数
//  4. 不修改 Rotator 接口
package xrotate
