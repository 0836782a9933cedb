package xrotate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/omeyang/xlogfile/pkg/observability/xmetrics"

	"go.opentelemetry.io/otel/attribute"
)

// rewriteLocked 原地截断重写，调用方必须持有 w.mu。
//
// 步骤：刷出写缓冲区 → 回到开头 → 读取前 preserve 行 → 截断为 0 → 回到开头 →
// 写入保留行和分隔行 → 刷出。完成后文件只含保留行和分隔行，计数与之相等；
// 第 preserve 行之后的内容全部丢弃。
func (w *Writer) rewriteLocked(reason string) (err error) {
	_, span := xmetrics.Start(context.Background(), w.observer, xmetrics.SpanOptions{
		Component: "xrotate",
		Operation: "rewrite",
		Attrs: []xmetrics.Attr{
			attribute.String("reason", reason),
			attribute.Int("preserve_lines", w.preserve),
		},
	})
	defer func() {
		attrs := []xmetrics.Attr{}
		if w.counter != nil {
			attrs = append(attrs, attribute.Int64("length", w.counter.Len()))
		}
		span.End(xmetrics.Result{Err: err, Attrs: attrs})
	}()

	// 缓冲区中尚未写入的字节必须先落到流上，否则会在截断后写到错误位置
	if err := w.text.Flush(); err != nil {
		return fmt.Errorf("xrotate: flush before rewrite: %w", err)
	}
	if err := seekToStart(w.stream); err != nil {
		return fmt.Errorf("xrotate: seek to start: %w", err)
	}
	head, err := w.readHead()
	if err != nil {
		return err
	}
	if err := w.stream.Truncate(0); err != nil {
		return fmt.Errorf("xrotate: truncate %s: %w", w.path, err)
	}
	if err := seekToStart(w.stream); err != nil {
		return fmt.Errorf("xrotate: seek to start: %w", err)
	}

	head.WriteString(RewriteSeparator)
	head.WriteByte('\n')
	if _, err := w.text.WriteString(head.String()); err != nil {
		return fmt.Errorf("xrotate: write rewrite header: %w", err)
	}
	if err := w.text.Flush(); err != nil {
		return fmt.Errorf("xrotate: flush rewrite header: %w", err)
	}
	return nil
}

// readHead 从当前位置（开头）读取最多 preserve 行，每行以 "\n" 结尾。
// 行尾的 "\n" 或 "\r\n" 被统一为 "\n"；末尾没有换行符的残行也算一行。
func (w *Writer) readHead() (*strings.Builder, error) {
	var head strings.Builder
	if w.preserve == 0 {
		return &head, nil
	}

	w.reader.Reset(w.enc.NewDecoder().Reader(w.stream))
	for i := 0; i < w.preserve; i++ {
		line, err := w.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("xrotate: read head of %s: %w", w.path, err)
		}
		if line == "" {
			break
		}
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		head.WriteString(line)
		head.WriteByte('\n')
		if err != nil {
			break
		}
	}
	return &head, nil
}
