// Package xrun 基于 errgroup + context 协调一组并发任务。
//
// 任一任务返回错误或调用 [Group.Cancel] 时，其他任务收到取消信号；
// [Group.Wait] 过滤普通的取消错误，只返回真正的失败原因。
//
//	g, ctx := xrun.NewGroup(ctx, xrun.WithName("append"))
//	g.Go(pumpStdin)
//	g.Go(xrun.Ticker(time.Second, func(ctx context.Context) error {
//		return w.FlushToDisk()
//	}))
//	err := g.Wait()
package xrun
