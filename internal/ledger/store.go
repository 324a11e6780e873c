// Package ledger owns the ordered, persisted collection of transactions
// and is the single source of truth for everything derived from it.
// Mutations update memory first and persist asynchronously; readers see
// new state before the durable write is confirmed.
package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/kv"
)

// StorageKey is the blob key the ledger reads and writes. The "@"
// prefix is kept for compatibility with blobs written by earlier
// clients of the same data.
const StorageKey = "@transactions"

type Op string

const (
	OpAdd    Op = "add"
	OpDelete Op = "delete"
	OpClear  Op = "clear"
	OpLoad   Op = "load"
)

// Change describes a completed mutation, delivered to subscribers.
type Change struct {
	Op  Op
	ID  string // transaction id for add/delete, empty otherwise
	Len int    // ledger length after the mutation
}

// Options tune a Store. The zero value is usable: production defaults
// are applied by New.
type Options struct {
	// Key overrides StorageKey.
	Key string

	// Zone is the reference time zone for stamping "today".
	Zone *time.Location

	// Now supplies the current instant; tests pin it.
	Now func() time.Time

	// NewID supplies fresh transaction identifiers; tests pin it.
	NewID func() string

	// QueueSize bounds the persister queue.
	QueueSize int

	// OnPersistError observes failed durable writes. Never blocks a
	// mutation; the in-memory state stays authoritative either way.
	OnPersistError func(error)
}

// Store is the transaction ledger. One instance is owned by the
// application root and passed by reference to consumers; all methods
// are safe for concurrent use, with mutations serialized internally.
type Store struct {
	mu       sync.Mutex
	txs      []core.Transaction
	revision uint64

	key   string
	loc   *time.Location
	now   func() time.Time
	newID func() string

	persister *persister

	subMu   sync.Mutex
	subs    map[int]chan Change
	nextSub int
}

// New builds a Store over the given durable kv store. Call Load before
// serving reads, and Close on shutdown to drain pending writes.
func New(store kv.Store, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = StorageKey
	}
	if opts.Zone == nil {
		opts.Zone = core.LoadZone("")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = NewIDGenerator()
	}

	s := &Store{
		key:   opts.Key,
		loc:   opts.Zone,
		now:   opts.Now,
		newID: opts.NewID,
		subs:  make(map[int]chan Change),
	}
	s.persister = newPersister(store, opts.Key, opts.QueueSize, opts.OnPersistError)
	return s
}

// Load reads the durable blob and replaces the in-memory sequence.
// Absent, malformed or unreadable blobs are recoverable: the ledger
// starts empty and the condition is logged, never surfaced. Legacy
// records lacking an id are repaired and the repaired sequence is
// re-persisted immediately.
func (s *Store) Load(ctx context.Context) {
	raw, ok, err := s.persister.store.Get(ctx, s.key)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read ledger blob, starting empty",
			"key", s.key, "error", err)
		s.replace(nil)
		return
	}
	if !ok {
		s.replace(nil)
		return
	}

	var txs []core.Transaction
	if err := json.Unmarshal([]byte(raw), &txs); err != nil {
		slog.WarnContext(ctx, "Failed to decode ledger blob, starting empty",
			"key", s.key, "error", err)
		s.replace(nil)
		return
	}

	repaired := EnsureIDs(txs, s.newID)
	s.mu.Lock()
	s.txs = txs
	s.revision++
	if repaired {
		s.persistSnapshot(s.snapshotCopy())
	}
	s.mu.Unlock()

	if repaired {
		slog.InfoContext(ctx, "Repaired legacy ledger records, re-persisting",
			"count", len(txs))
	}
	s.notify(Change{Op: OpLoad, Len: len(txs)})
}

// Add assigns id and date when absent, validates, appends and schedules
// persistence. Prior order is preserved; the returned record always has
// a non-empty id unique within the store. A supplied id that collides
// with an existing record is replaced, the same repair EnsureIDs
// applies to duplicates found at load time.
func (s *Store) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.Category = tx.CategoryOrDefault()
	if tx.Date == "" {
		// Stamped once at creation in the reference zone, so the
		// record never migrates between calendar buckets later.
		tx.Date = core.Today(s.now(), s.loc)
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	if tx.ID == "" || s.idTakenLocked(tx.ID) {
		tx.ID = s.uniqueIDLocked()
	}
	s.txs = append(s.txs, tx)
	s.revision++
	length := len(s.txs)
	// Enqueued under the mutex so snapshots reach the persister in
	// mutation order; the worker then writes newest-last.
	s.persistSnapshot(s.snapshotCopy())
	s.mu.Unlock()

	s.notify(Change{Op: OpAdd, ID: tx.ID, Len: length})

	slog.InfoContext(ctx, "Transaction added",
		"id", tx.ID, "type", string(tx.Type),
		"amount_cents", tx.Amount.Cents, "category", tx.Category, "date", tx.Date)
	return tx, nil
}

// DeleteByID removes the first transaction with the given id. Unknown
// ids are a no-op, reported by the return value rather than an error.
func (s *Store) DeleteByID(ctx context.Context, id string) bool {
	s.mu.Lock()
	idx := -1
	for i, t := range s.txs {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.txs = append(s.txs[:idx], s.txs[idx+1:]...)
	s.revision++
	length := len(s.txs)
	s.persistSnapshot(s.snapshotCopy())
	s.mu.Unlock()

	s.notify(Change{Op: OpDelete, ID: id, Len: length})

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return true
}

// Clear empties the ledger and removes the durable blob entirely. This
// is a distinct terminal operation, not a loop of single deletes.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.txs = nil
	s.revision++
	s.persister.enqueueRemove()
	s.mu.Unlock()

	s.notify(Change{Op: OpClear, Len: 0})

	slog.InfoContext(ctx, "Ledger cleared")
}

// Snapshot returns a defensive copy of the current sequence for
// read-only consumption.
func (s *Store) Snapshot() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotCopy()
}

// Len reports the current number of transactions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txs)
}

// Revision increments on every mutation and load. Derived-view caches
// key on it as a cheap snapshot identity.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// State returns the revision and snapshot atomically, so a view cached
// under a revision always matches the sequence it was computed from.
func (s *Store) State() (uint64, []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision, s.snapshotCopy()
}

// Zone exposes the reference time zone for derived-view computation.
func (s *Store) Zone() *time.Location {
	return s.loc
}

// Subscribe registers a change feed. Sends never block; a slow consumer
// misses intermediate changes rather than stalling mutations. The
// returned cancel func closes the channel.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Change, 16)
	s.subs[id] = ch
	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Flush waits for pending durable writes, for shutdown and tests.
func (s *Store) Flush(timeout time.Duration) error {
	return s.persister.Flush(timeout)
}

// PersistStats reports persister counters.
func (s *Store) PersistStats() PersistStats {
	return s.persister.Stats()
}

// Close drains pending writes and stops the persister.
func (s *Store) Close() error {
	return s.persister.Close()
}

func (s *Store) replace(txs []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = txs
	s.revision++
}

func (s *Store) snapshotCopy() []core.Transaction {
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

func (s *Store) idTakenLocked(id string) bool {
	for _, t := range s.txs {
		if t.ID == id {
			return true
		}
	}
	return false
}

// uniqueIDLocked generates an id and rechecks it against the current
// sequence. Collisions are vanishingly rare but cheap to rule out.
func (s *Store) uniqueIDLocked() string {
	for {
		if id := s.newID(); !s.idTakenLocked(id) {
			return id
		}
	}
}

func (s *Store) persistSnapshot(snap []core.Transaction) {
	data, err := json.Marshal(snap)
	if err != nil {
		// Only reachable with a broken custom marshaler; treated as a
		// soft persist failure like any other.
		slog.Error("Failed to encode ledger snapshot", "error", err)
		return
	}
	s.persister.enqueueSave(string(data))
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
