package xrotate

import "errors"

// 配置校验错误，均在 [Open] 时同步返回
var (
	// ErrEmptyFilename 文件名为空
	ErrEmptyFilename = errors.New("xrotate: filename is required")

	// ErrNilFormatter 未提供事件格式化器
	ErrNilFormatter = errors.New("xrotate: formatter is required")

	// ErrInvalidMaxSize 字节上限为负数
	ErrInvalidMaxSize = errors.New("xrotate: invalid max size")

	// ErrInvalidPreserveLines 保留行数为负数
	ErrInvalidPreserveLines = errors.New("xrotate: invalid preserve lines")

	// ErrInvalidFileMode FileMode 包含非权限位（仅允许低 9 位 0000~0777）
	ErrInvalidFileMode = errors.New("xrotate: invalid FileMode")

	// ErrInvalidBufferSize 文本写缓冲区大小不是正数
	ErrInvalidBufferSize = errors.New("xrotate: invalid buffer size")

	// ErrNilEncoding 显式传入了 nil 编码
	ErrNilEncoding = errors.New("xrotate: encoding is nil")

	// ErrNilStream 流为空（包括 StreamHook 返回 nil）
	ErrNilStream = errors.New("xrotate: stream is nil")
)

// 运行期错误
var (
	// ErrNilEvent Emit 收到 nil 事件，在任何 I/O 之前拒绝
	ErrNilEvent = errors.New("xrotate: event is nil")

	// ErrUnsupportedEvent 格式化器不支持该事件类型
	ErrUnsupportedEvent = errors.New("xrotate: unsupported event type")

	// ErrPositionUnsupported 不支持直接设置绝对读写位置，属于调用方误用
	ErrPositionUnsupported = errors.Join(errors.ErrUnsupported,
		errors.New("xrotate: direct position assignment is not supported, use Seek"))

	// ErrClosed 写入器已关闭
	ErrClosed = errors.New("xrotate: rotator is closed")
)
