package xrotate

import (
	"io"
	"os"

	"github.com/omeyang/xlogfile/pkg/util/xfile"

	"golang.org/x/text/encoding"
)

//go:generate mockgen -destination=mock_stream_test.go -package=xrotate . Stream

// Stream 是 [Writer] 读写日志文件所需的最小能力集。
//
// *os.File 直接满足该接口；[CountingStream] 和 StreamHook 返回的装饰器也满足，
// 因此各层可以任意叠加。Truncate 设置流的字节长度。
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
	Truncate(size int64) error
	Sync() error
}

// StreamHook 在打开时调用一次，用返回的流替换当前流（如加密、镜像、测试注入）。
//
// s 是已打开的文件流（配置了字节上限时已被 [CountingStream] 包装），
// enc 是本次打开使用的文本编码。返回的流负责在 Close 时关闭 s。
// 返回 nil 流是配置错误，[Open] 会返回 [ErrNilStream]。
type StreamHook func(s Stream, enc encoding.Encoding) (Stream, error)

// startSeeker 由可以直接回到开头的流实现
type startSeeker interface {
	SeekToStart() error
}

// seekToStart 把流定位到 offset 0
func seekToStart(s Stream) error {
	if ss, ok := s.(startSeeker); ok {
		return ss.SeekToStart()
	}
	_, err := s.Seek(0, io.SeekStart)
	return err
}

// fileStream 是文件层：Sync 使用 [xfile.Datasync]
type fileStream struct {
	*os.File
}

// Sync 将已写入内核的数据刷到持久化存储
func (f fileStream) Sync() error {
	return xfile.Datasync(f.File)
}
