// Package queue provides the durable write-ahead queue for journal entries
// captured while disconnected.
//
// Items are appended on capture, persisted synchronously, and removed only
// after the server confirms the upload. Delivery is at-least-once: a crash
// between a successful upload and the post-flush persist can re-upload an
// item on the next flush, which is an accepted trade-off; items are never
// lost.
package queue

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/daybook-io/daybook/internal/journal"
	"github.com/daybook-io/daybook/internal/transport"
)

// PendingItem is one queued offline-created entry. Items are immutable once
// enqueued; they are only ever removed after a confirmed upload.
type PendingItem struct {
	LocalID   string            `json:"local_id"`
	Content   string            `json:"content"`
	Type      journal.EntryType `json:"type"`
	Title     string            `json:"title,omitempty"`
	AudioPath string            `json:"audio_path,omitempty"`
	ImagePath string            `json:"image_path,omitempty"`
	Duration  int               `json:"duration,omitempty"`
	QueuedAt  time.Time         `json:"queued_at"`
}

// Queue is an ordered, durably persisted sequence of pending items.
//
// Enqueue is synchronous local-only I/O and never touches the network, so
// it is safe to call at any time, including mid-flush. Flush is guarded by
// a non-reentrant flag: at most one flush runs at a time, and overlapping
// calls are silent no-ops.
type Queue struct {
	store  *Store
	logger *log.Logger

	mu    sync.Mutex
	items []PendingItem

	flushing atomic.Bool
}

// Initialize opens the queue backed by the store file at path, loading the
// persisted pending list in full. A corrupt store is backed up and the queue
// starts empty rather than failing.
//
// If logger is nil, a default logger writing to stderr is used.
func Initialize(path string, logger *log.Logger) (*Queue, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "[queue] ", log.LstdFlags)
	}

	store, err := NewStore(path)
	if err != nil {
		return nil, err
	}

	items, err := store.Load()
	if err != nil {
		logger.Printf("WARNING: starting with empty queue: %v", err)
	}

	return &Queue{
		store:  store,
		logger: logger,
		items:  items,
	}, nil
}

// Enqueue appends an item and persists the queue synchronously. It returns
// the stored item as a display-ready view before any server confirmation.
//
// The caller supplies a locally-unique LocalID; a duplicate ID or missing
// required field is a contract breach and returns an error.
func (q *Queue) Enqueue(item PendingItem) (PendingItem, error) {
	if item.LocalID == "" {
		return PendingItem{}, fmt.Errorf("local id is required")
	}
	if item.Type == "" {
		item.Type = journal.TypeText
	}
	if item.QueuedAt.IsZero() {
		item.QueuedAt = time.Now()
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	for _, it := range q.items {
		if it.LocalID == item.LocalID {
			return PendingItem{}, fmt.Errorf("duplicate local id %q", item.LocalID)
		}
	}

	q.items = append(q.items, item)
	if err := q.store.Save(q.items); err != nil {
		q.items = q.items[:len(q.items)-1]
		return PendingItem{}, fmt.Errorf("failed to persist queue: %w", err)
	}
	return item, nil
}

// Pending returns a copy of the queued items in insertion order.
func (q *Queue) Pending() []PendingItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]PendingItem, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Flush attempts to upload every queued item in FIFO order via the
// transport. Successful items are dropped; failures of any kind (network
// error, non-success response) retain the item in its original position for
// the next attempt. The surviving subset is persisted once, after the full
// pass. Partial flushes are expected, not errors.
//
// If a flush is already in progress, Flush returns immediately without a
// transport pass. Items enqueued mid-flush are not uploaded in this pass;
// they survive into the persisted queue and are picked up next time.
//
// The returned error reflects only a failure to persist the surviving
// queue, never individual upload failures.
func (q *Queue) Flush(ctx context.Context, tr transport.Transport) error {
	if !q.flushing.CompareAndSwap(false, true) {
		q.logger.Printf("Flush already in progress, skipping")
		return nil
	}
	defer q.flushing.Store(false)

	q.mu.Lock()
	snapshot := make([]PendingItem, len(q.items))
	copy(snapshot, q.items)
	q.mu.Unlock()

	if len(snapshot) == 0 {
		return nil
	}
	q.logger.Printf("Flushing %d pending item(s)", len(snapshot))

	// Uploads run without holding the lock so Enqueue never blocks on
	// network I/O.
	failed := make(map[string]bool, len(snapshot))
	uploaded := 0
	for _, it := range snapshot {
		if ctx.Err() != nil {
			failed[it.LocalID] = true
			continue
		}
		res, err := tr.CreateEntry(ctx, transport.CreateRequest{
			Content:   it.Content,
			Type:      string(it.Type),
			Title:     it.Title,
			AudioPath: it.AudioPath,
			ImagePath: it.ImagePath,
			Duration:  it.Duration,
			CreatedAt: it.QueuedAt,
		})
		if err != nil || res == nil || res.ID == "" {
			q.logger.Printf("WARNING: upload failed for %s, will retry: %v", it.LocalID, err)
			failed[it.LocalID] = true
			continue
		}
		q.logger.Printf("Uploaded %s as server entry %s", it.LocalID, res.ID)
		uploaded++
	}

	inSnapshot := make(map[string]bool, len(snapshot))
	for _, it := range snapshot {
		inSnapshot[it.LocalID] = true
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	survivors := make([]PendingItem, 0, len(q.items))
	for _, it := range snapshot {
		if failed[it.LocalID] {
			survivors = append(survivors, it)
		}
	}
	// Items enqueued after the snapshot was taken stay queued.
	for _, it := range q.items {
		if !inSnapshot[it.LocalID] {
			survivors = append(survivors, it)
		}
	}
	q.items = survivors

	q.logger.Printf("Flush complete: uploaded=%d retained=%d", uploaded, len(survivors))
	if err := q.store.Save(q.items); err != nil {
		return fmt.Errorf("failed to persist queue after flush: %w", err)
	}
	return nil
}
