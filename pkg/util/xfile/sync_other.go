//go:build !linux

package xfile

import "os"

// Datasync 将文件数据同步到持久化存储。非 Linux 平台退化为 [os.File.Sync]。
func Datasync(f *os.File) error {
	if f == nil {
		return ErrNilFile
	}
	return f.Sync()
}
