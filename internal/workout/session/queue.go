package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/multierr"
)

const (
	DefaultQuietPeriod   = 750 * time.Millisecond
	DefaultWriteDeadline = 30 * time.Second
)

var ErrQueueClosed = errors.New("write queue closed")

// FlushFunc persists the merged patch pending for a key.
type FlushFunc func(ctx context.Context, patch Patch) error

type pendingWrite struct {
	patch   Patch
	flush   FlushFunc
	firstAt time.Time
	timer   *time.Timer
	gen     int
}

// WriteQueue coalesces patches per session key. Pending patches are merged and
// written once no new patch arrived for the quiet period, or at the latest
// after the hard deadline counted from the first pending patch. Writes for the
// same key never run concurrently.
type WriteQueue struct {
	quiet    time.Duration
	deadline time.Duration

	mu       sync.Mutex
	pending  map[string]*pendingWrite
	writing  map[string]*keyWrites
	written  *sync.Cond
	closed   bool
	inflight sync.WaitGroup

	// beforeWrite runs after a write is taken and before it starts, tests only
	beforeWrite func(key string)
}

// keyWrites counts the writes of a key that were taken and have not finished yet.
// The entry is dropped with the last of them.
type keyWrites struct {
	lock  sync.Mutex
	count int
}

func NewWriteQueue(quiet, deadline time.Duration) *WriteQueue {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if deadline <= 0 {
		deadline = DefaultWriteDeadline
	}
	q := &WriteQueue{
		quiet:    quiet,
		deadline: deadline,
		pending:  make(map[string]*pendingWrite),
		writing:  make(map[string]*keyWrites),
	}
	q.written = sync.NewCond(&q.mu)
	return q
}

// Enqueue merges the patch into the pending one for key and (re)schedules the write.
// The most recent flush func wins.
func (q *WriteQueue) Enqueue(key string, patch Patch, flush FlushFunc) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	now := time.Now()
	pw, ok := q.pending[key]
	if !ok {
		pw = &pendingWrite{firstAt: now}
		q.pending[key] = pw
	}
	pw.patch = pw.patch.Merge(patch)
	pw.flush = flush

	fireAt := now.Add(q.quiet)
	if hardDeadline := pw.firstAt.Add(q.deadline); hardDeadline.Before(fireAt) {
		fireAt = hardDeadline
	}

	if pw.timer != nil {
		pw.timer.Stop()
	}
	pw.gen++
	gen := pw.gen
	pw.timer = time.AfterFunc(fireAt.Sub(now), func() {
		q.fire(key, pw, gen)
	})

	return nil
}

func (q *WriteQueue) fire(key string, pw *pendingWrite, gen int) {
	q.mu.Lock()
	if q.pending[key] != pw || pw.gen != gen {
		// already flushed or rescheduled
		q.mu.Unlock()
		return
	}
	delete(q.pending, key)
	kw := q.begin(key)
	q.mu.Unlock()

	// failures are reported by the flush func itself
	_ = q.write(context.Background(), key, kw, pw)
}

// Flush writes the pending patch for key right away and waits for it.
// With nothing pending it still waits for the in-flight writes of key to finish.
func (q *WriteQueue) Flush(ctx context.Context, key string) error {
	q.mu.Lock()
	pw, ok := q.take(key)
	if !ok {
		for q.writing[key] != nil {
			q.written.Wait()
		}
		q.mu.Unlock()
		return nil
	}
	kw := q.begin(key)
	q.mu.Unlock()

	return q.write(ctx, key, kw, pw)
}

// Sync merges the patch into anything pending for key and writes it immediately,
// bypassing the quiet period.
func (q *WriteQueue) Sync(ctx context.Context, key string, patch Patch, flush FlushFunc) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	pw, ok := q.take(key)
	if !ok {
		pw = &pendingWrite{firstAt: time.Now()}
	}
	pw.patch = pw.patch.Merge(patch)
	pw.flush = flush
	kw := q.begin(key)
	q.mu.Unlock()

	return q.write(ctx, key, kw, pw)
}

// Pending reports whether key has a scheduled, not yet started write.
func (q *WriteQueue) Pending(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.pending[key]
	return ok
}

// Close rejects new patches, writes everything pending and waits for in-flight writes.
func (q *WriteQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	type takenWrite struct {
		kw *keyWrites
		pw *pendingWrite
	}
	toFlush := make(map[string]takenWrite, len(q.pending))
	for key := range q.pending {
		pw, _ := q.take(key)
		toFlush[key] = takenWrite{kw: q.begin(key), pw: pw}
	}
	q.mu.Unlock()

	var err error
	for key, tw := range toFlush {
		err = multierr.Append(err, q.write(ctx, key, tw.kw, tw.pw))
	}
	q.inflight.Wait()

	return err
}

// take removes the pending write of key and stops its timer. q.mu must be held.
func (q *WriteQueue) take(key string) (*pendingWrite, bool) {
	pw, ok := q.pending[key]
	if !ok {
		return nil, false
	}
	delete(q.pending, key)
	if pw.timer != nil {
		pw.timer.Stop()
	}
	return pw, true
}

// begin counts a taken write of key as in flight. q.mu must be held.
func (q *WriteQueue) begin(key string) *keyWrites {
	kw, ok := q.writing[key]
	if !ok {
		kw = &keyWrites{}
		q.writing[key] = kw
	}
	kw.count++
	q.inflight.Add(1)
	return kw
}

func (q *WriteQueue) finish(key string, kw *keyWrites) {
	q.mu.Lock()
	kw.count--
	if kw.count == 0 {
		delete(q.writing, key)
	}
	q.written.Broadcast()
	q.mu.Unlock()
	q.inflight.Done()
}

func (q *WriteQueue) write(ctx context.Context, key string, kw *keyWrites, pw *pendingWrite) error {
	defer q.finish(key, kw)

	if q.beforeWrite != nil {
		q.beforeWrite(key)
	}

	kw.lock.Lock()
	defer kw.lock.Unlock()

	if pw.flush == nil {
		return nil
	}
	return pw.flush(ctx, pw.patch)
}
