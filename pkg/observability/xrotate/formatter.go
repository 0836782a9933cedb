package xrotate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Formatter 把事件序列化后写入 w。
//
// [Writer] 从不检查事件内容，写入的字节完全由 Formatter 决定。
// w 是 Writer 的文本写缓冲区，Format 不应保留 w 的引用。
type Formatter interface {
	Format(w io.Writer, event any) error
}

// FormatterFunc 将普通函数适配为 [Formatter]
type FormatterFunc func(w io.Writer, event any) error

// Format 调用 f(w, event)
func (f FormatterFunc) Format(w io.Writer, event any) error {
	return f(w, event)
}

// LineFormatter 把事件格式化为一行文本，缺少换行符时补 "\n"。
//
// 支持 string、[]byte、fmt.Stringer、error，其他类型使用 fmt.Sprint。
var LineFormatter Formatter = FormatterFunc(formatLine)

func formatLine(w io.Writer, event any) error {
	var line string
	switch v := event.(type) {
	case string:
		line = v
	case []byte:
		line = string(v)
	default:
		// fmt 处理 Stringer、error，并兜住 nil 接收者的 panic
		line = fmt.Sprint(v)
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	_, err := io.WriteString(w, line)
	return err
}

// rawFormatter 原样写入 []byte 事件，供 [Writer.Write] 使用
var rawFormatter Formatter = FormatterFunc(func(w io.Writer, event any) error {
	p, ok := event.([]byte)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnsupportedEvent, event)
	}
	_, err := w.Write(p)
	return err
})

// slogFormatter 使用 log/slog 的内置 Handler 渲染 slog.Record 事件
type slogFormatter struct {
	newHandler func(w io.Writer) slog.Handler
}

// NewTextFormatter 返回以 slog.TextHandler 渲染 slog.Record（或 *slog.Record）事件的格式化器。
// opts 可以为 nil。
func NewTextFormatter(opts *slog.HandlerOptions) Formatter {
	return slogFormatter{newHandler: func(w io.Writer) slog.Handler {
		return slog.NewTextHandler(w, opts)
	}}
}

// NewJSONFormatter 返回以 slog.JSONHandler 渲染 slog.Record（或 *slog.Record）事件的格式化器。
// opts 可以为 nil。
func NewJSONFormatter(opts *slog.HandlerOptions) Formatter {
	return slogFormatter{newHandler: func(w io.Writer) slog.Handler {
		return slog.NewJSONHandler(w, opts)
	}}
}

// Format 渲染一条记录。Handler 按事件创建，因为每次的 w 都可能不同。
func (f slogFormatter) Format(w io.Writer, event any) error {
	var r slog.Record
	switch v := event.(type) {
	case slog.Record:
		r = v
	case *slog.Record:
		if v == nil {
			return ErrNilEvent
		}
		r = *v
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedEvent, event)
	}
	return f.newHandler(w).Handle(context.Background(), r)
}
