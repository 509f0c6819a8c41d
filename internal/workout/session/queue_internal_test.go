package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteQueue_FlushWaitsForTakenWrite(t *testing.T) {
	q := NewWriteQueue(time.Millisecond, time.Second)
	defer q.Close(context.Background())

	taken := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	q.beforeWrite = func(string) {
		once.Do(func() {
			close(taken)
			<-release
		})
	}

	var writes atomic.Int32
	flush := func(context.Context, Patch) error {
		writes.Add(1)
		return nil
	}
	require.NoError(t, q.Enqueue("k", Patch{CardioTime: Ptr("10")}, flush))

	// the debounced write left pending but has not reached the flush func yet
	<-taken
	assert.False(t, q.Pending("k"))

	flushed := make(chan int32)
	go func() {
		_ = q.Flush(context.Background(), "k")
		flushed <- writes.Load()
	}()

	select {
	case <-flushed:
		t.Fatal("flush returned before the taken write ran")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case n := <-flushed:
		assert.Equal(t, int32(1), n)
	case <-time.After(time.Second):
		t.Fatal("flush did not return")
	}
}

func TestWriteQueue_ForgetsFinishedKeys(t *testing.T) {
	q := NewWriteQueue(time.Millisecond, time.Second)
	defer q.Close(context.Background())

	flush := func(context.Context, Patch) error { return nil }
	for _, key := range []string{"ana|2026-03-01", "ana|2026-03-02", "bob|2026-03-01"} {
		require.NoError(t, q.Sync(context.Background(), key, Patch{}, flush))
		require.NoError(t, q.Enqueue(key, Patch{CardioTime: Ptr("5")}, flush))
	}

	assert.Eventually(t, func() bool {
		q.mu.Lock()
		defer q.mu.Unlock()
		return len(q.pending) == 0 && len(q.writing) == 0
	}, time.Second, 5*time.Millisecond)
}
