package xfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// 默认权限
const (
	// DefaultDirPerm 日志目录默认权限：所有者 rwx，组 r-x，其他无权限（gosec G301）。
	DefaultDirPerm os.FileMode = 0o750

	// DefaultFilePerm 日志文件默认权限：允许同组及其他用户只读（如日志采集 agent）。
	DefaultFilePerm os.FileMode = 0o644
)

// EnsureDir 使用 [DefaultDirPerm] 确保文件的父目录存在。
func EnsureDir(filename string) error {
	return EnsureDirWithPerm(filename, DefaultDirPerm)
}

// EnsureDirWithPerm 确保文件（不是目录）的父目录存在。
//
// perm 必须包含所有者执行位（0100），否则目录无法遍历。目录已存在时不修改其权限。
// 底层使用 os.MkdirAll，会跟随符号链接；不会拒绝 ".." 路径段，
// 不可信输入应先经 [SanitizePath] 校验。
func EnsureDirWithPerm(filename string, perm os.FileMode) error {
	if filename == "" {
		return fmt.Errorf("filename is required: %w", ErrEmptyPath)
	}
	if containsNullByte(filename) {
		return fmt.Errorf("filename contains null byte: %w", ErrNullByte)
	}
	if perm&0o100 == 0 {
		return fmt.Errorf("directory permission %04o missing owner execute bit: %w", perm, ErrInvalidPerm)
	}
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, perm)
}

// OpenAppend 以读写方式打开日志文件，不存在时创建，并把读写位置定位到文件末尾。
//
// 不使用 O_APPEND：截断重写时需要在 offset 0 处写入，O_APPEND 会让每次写入
// 都强制落在文件末尾，与 Seek 语义冲突。
//
// Unix 上打开的文件不持有强制锁，外部进程可以同时读取（如 tail -f）。
func OpenAppend(filename string, perm os.FileMode) (*os.File, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename is required: %w", ErrEmptyPath)
	}
	if containsNullByte(filename) {
		return nil, fmt.Errorf("filename contains null byte: %w", ErrNullByte)
	}
	if perm&^os.FileMode(0o777) != 0 {
		return nil, fmt.Errorf("file permission %04o has non-permission bits: %w", perm, ErrInvalidPerm)
	}

	//#nosec G304 -- 路径已由调用方经 SanitizePath 校验
	f, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE, perm)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("seek to end of %s: %w", filename, err)
	}
	return f, nil
}
