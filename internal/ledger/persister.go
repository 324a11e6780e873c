package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"kharcha/internal/kv"
)

var (
	// ErrFlushTimeout is returned when pending writes did not drain in time.
	ErrFlushTimeout = errors.New("ledger: flush timeout")
)

// PersistStats are counters over the lifetime of a persister.
type PersistStats struct {
	QueueDepth int
	Total      int64
	Failed     int64
	Superseded int64
}

// persister applies ledger snapshots to the durable store from a single
// worker goroutine, off the mutation path. One worker keeps writes
// ordered; a newer snapshot supersedes any still-queued older one, so
// the durable state converges on the last mutation. Write failures are
// counted, logged and reported to the optional callback, never
// propagated to the mutator.
type persister struct {
	store   kv.Store
	key     string
	queue   chan writeOp
	onError func(error)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	pending    atomic.Int64
	total      atomic.Int64
	failed     atomic.Int64
	superseded atomic.Int64
}

type writeOp struct {
	remove  bool
	payload string
}

func newPersister(store kv.Store, key string, queueSize int, onError func(error)) *persister {
	if queueSize <= 0 {
		queueSize = 64
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &persister{
		store:   store,
		key:     key,
		queue:   make(chan writeOp, queueSize),
		onError: onError,
		ctx:     ctx,
		cancel:  cancel,
	}
	p.wg.Add(1)
	go p.worker()
	return p
}

func (p *persister) enqueueSave(payload string) {
	p.enqueue(writeOp{payload: payload})
}

func (p *persister) enqueueRemove() {
	p.enqueue(writeOp{remove: true})
}

// enqueue never blocks the mutator: when the queue is full, the oldest
// pending op is discarded because the newer snapshot already contains
// its effect. Producers are serialized by the store mutex, so the
// retry loop terminates.
func (p *persister) enqueue(op writeOp) {
	for {
		select {
		case p.queue <- op:
			p.pending.Add(1)
			p.total.Add(1)
			return
		default:
			select {
			case <-p.queue:
				p.pending.Add(-1)
				p.superseded.Add(1)
			default:
			}
		}
	}
}

func (p *persister) worker() {
	defer p.wg.Done()
	for {
		select {
		case op := <-p.queue:
			p.apply(op)
		case <-p.ctx.Done():
			// Drain what is left so Close loses nothing.
			for {
				select {
				case op := <-p.queue:
					p.apply(op)
				default:
					return
				}
			}
		}
	}
}

func (p *persister) apply(op writeOp) {
	defer p.pending.Add(-1)

	var err error
	if op.remove {
		err = p.store.Remove(context.Background(), p.key)
	} else {
		err = p.store.Set(context.Background(), p.key, op.payload)
	}
	if err != nil {
		p.failed.Add(1)
		slog.Warn("Ledger persist failed, in-memory state remains authoritative",
			"key", p.key, "remove", op.remove, "error", err)
		if p.onError != nil {
			p.onError(err)
		}
	}
}

// Flush waits until no write is queued or in flight.
func (p *persister) Flush(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if p.pending.Load() == 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrFlushTimeout
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Close drains pending writes and stops the worker.
func (p *persister) Close() error {
	p.cancel()
	p.wg.Wait()
	return nil
}

func (p *persister) Stats() PersistStats {
	return PersistStats{
		QueueDepth: len(p.queue),
		Total:      p.total.Load(),
		Failed:     p.failed.Load(),
		Superseded: p.superseded.Load(),
	}
}
