// xlogfilectl 是大小受限日志文件的命令行工具。
//
// 用法:
//
//	xlogfilectl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config     配置文件（.yaml/.yml/.json），命令行参数优先于配置文件
//	    --log-level  工具自身日志级别（debug/info/warn/error，默认 info），输出到 stderr
//
// 命令:
//
//	append   从 stdin 逐行读取并追加到日志文件，超过上限时原地截断重写
//	rewrite  立即对日志文件执行一次截断重写
//	stat     查看日志文件大小以及是否超过上限
//
// 配置文件示例（YAML）:
//
//	log_level: info
//	logfile:
//	  file: /var/log/app.log
//	  max_size: 10MiB
//	  preserve: 3
//	  buffered: false
//	  encoding: utf-8
//	  sync: true
//
// 退出码:
//
//	0: 成功
//	1: 执行失败（I/O 错误等）
//	2: 参数错误（未知 flag、无效大小或编码、缺少 --file 等）
//
// 示例:
//
//	app | xlogfilectl append -f /var/log/app.log --max-size 10MiB
//	xlogfilectl rewrite -f /var/log/app.log --preserve 5
//	xlogfilectl stat -f /var/log/app.log --max-size 10MiB
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// createApp 创建 CLI 应用。
func createApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xlogfilectl",
		Usage:     "大小受限、只追加的日志文件工具",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "配置文件路径（.yaml/.yml/.json）",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "工具自身日志级别 (debug/info/warn/error)",
				Value: "info",
			},
		},
		Commands:     createCommands(),
		OnUsageError: onUsageError,
		// 禁止 urfave/cli 直接调用 os.Exit，由 run() 统一映射退出码。
		ExitErrHandler: func(_ context.Context, cmd *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(cmd.Root().ErrWriter, err)
			}
		},
	}
}

// run 执行命令并返回退出码。
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := createApp(stdin, stdout, stderr)

	err := app.Run(ctx, args)
	if err == nil {
		return 0
	}

	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
		return 2
	}
	// ExitCoder（如未知命令）已由 ExitErrHandler 输出
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		return 2
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return 1
}

// usageError 参数错误，退出码 2。
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func newUsageError(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// onUsageError 把 flag 解析错误统一标记为参数错误。
func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return &usageError{err: err}
}
