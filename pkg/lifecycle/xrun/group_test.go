package xrun

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/omeyang/xlogfile/pkg/observability/xlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errTask = errors.New("task failed")

func TestGroupAllSucceed(t *testing.T) {
	g, _ := NewGroup(context.Background())
	var n atomic.Int32
	for range 5 {
		g.Go(func(context.Context) error {
			n.Add(1)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 5, n.Load())
}

func TestGroupErrorCancelsOthers(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := xlog.New().SetOutput(&buf).SetEnrich(false).Build()
	require.NoError(t, err)

	g, ctx := NewGroup(context.Background(), WithName("test"), WithLogger(logger), nil)
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	g.Go(func(context.Context) error { return errTask })

	assert.ErrorIs(t, g.Wait(), errTask)
	assert.Error(t, ctx.Err())
	assert.Contains(t, buf.String(), "group=test")
	assert.Contains(t, buf.String(), "error=\"task failed\"")
}

func TestGroupCancel(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	g.Cancel(nil)
	assert.NoError(t, g.Wait())

	g, _ = NewGroup(context.Background())
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	g.Cancel(errTask)
	assert.ErrorIs(t, g.Wait(), errTask)
}

func TestGroupParentCanceled(t *testing.T) {
	//nolint:staticcheck // 验证 nil ctx 兜底
	g, _ := NewGroup(nil)
	g.Go(func(context.Context) error { return nil })
	assert.NoError(t, g.Wait())

	parent, cancel := context.WithCancel(context.Background())
	g, _ = NewGroup(parent)
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	cancel()
	assert.NoError(t, g.Wait())
}

func TestGroupNilFunc(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go(nil)
	assert.ErrorIs(t, g.Wait(), ErrNilFunc)
}

func TestTicker(t *testing.T) {
	var n atomic.Int32
	g, _ := NewGroup(context.Background())
	g.Go(Ticker(time.Millisecond, func(context.Context) error {
		if n.Add(1) == 3 {
			return errTask
		}
		return nil
	}))
	assert.ErrorIs(t, g.Wait(), errTask)
	assert.EqualValues(t, 3, n.Load())
}

func TestTickerStopsOnCancel(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go(Ticker(time.Hour, func(context.Context) error { return nil }))
	g.Cancel(nil)
	assert.NoError(t, g.Wait())
}

func TestTickerInvalid(t *testing.T) {
	assert.ErrorIs(t, Ticker(0, func(context.Context) error { return nil })(context.Background()), ErrInvalidInterval)
	assert.ErrorIs(t, Ticker(time.Second, nil)(context.Background()), ErrNilFunc)
}
