package repository

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yohan201609-oss/El-ventorrillo/pkg/errors"
)

func TestSnapshotListenerDeliversUntilStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	listener := newSnapshotListener(cancel)

	delivered := 0
	listener.deliver(func() { delivered++ })
	listener.deliver(func() { delivered++ })
	assert.Equal(t, 2, delivered)

	listener.Stop()
	assert.Error(t, ctx.Err(), "Stop should cancel the snapshot context")

	listener.deliver(func() { delivered++ })
	assert.Equal(t, 2, delivered, "no delivery after Stop returns")
}

func TestSnapshotListenerStopBlocksInFlightDelivery(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	listener := newSnapshotListener(cancel)

	var delivered int64
	done := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	go func() {
		defer close(done)
		for i := 0; i < 10000; i++ {
			listener.deliver(func() {
				once.Do(func() { close(started) })
				atomic.AddInt64(&delivered, 1)
			})
		}
	}()

	<-started
	listener.Stop()
	afterStop := atomic.LoadInt64(&delivered)

	<-done
	assert.Equal(t, afterStop, atomic.LoadInt64(&delivered),
		"callback fired after Stop returned")
}

func TestSnapshotListenerStopIsIdempotent(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	listener := newSnapshotListener(cancel)

	listener.Stop()
	listener.Stop()

	delivered := 0
	listener.deliver(func() { delivered++ })
	assert.Equal(t, 0, delivered)
}

func TestMapWriteErrorTransientCodes(t *testing.T) {
	err := mapWriteError(status.Error(codes.Unavailable, "backend down"), "Failed to send message")
	assert.True(t, errors.Is(err, "UNAVAILABLE"))

	err = mapWriteError(status.Error(codes.DeadlineExceeded, "commit timed out"), "Failed to send message")
	assert.True(t, errors.Is(err, "UNAVAILABLE"))
}

func TestMapWriteErrorDefaultsToWriteFailed(t *testing.T) {
	err := mapWriteError(status.Error(codes.Aborted, "txn aborted"), "Failed to send message")
	assert.True(t, errors.Is(err, "WRITE_FAILED"))

	err = mapWriteError(stderrors.New("connection reset"), "Failed to send message")
	assert.True(t, errors.Is(err, "WRITE_FAILED"))
}

func TestSnapshotListenerStopUnblocksPump(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	listener := newSnapshotListener(cancel)

	woke := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(woke)
	}()

	listener.Stop()
	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("Stop did not cancel the pump context")
	}
}
