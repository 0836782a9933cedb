package xmetrics

import "errors"

var (
	// ErrNilOption NewOTelObserver 收到 nil 选项
	ErrNilOption = errors.New("xmetrics: nil option")

	// ErrCreateInstrument 创建计数器或直方图失败
	ErrCreateInstrument = errors.New("xmetrics: create instrument")
)
