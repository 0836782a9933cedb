//go:build linux

package xfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// Datasync 将文件数据同步到持久化存储。
//
// Linux 上使用 fdatasync：只保证数据块和读回数据所需的元数据（如文件长度）落盘，
// 不强制刷新 atime/mtime，开销小于 fsync。
func Datasync(f *os.File) error {
	if f == nil {
		return ErrNilFile
	}
	for {
		err := unix.Fdatasync(int(f.Fd()))
		if err != unix.EINTR {
			return err
		}
	}
}
