// Package daemon provides the background sync loop for daybook.
//
// The daemon:
// 1. Watches the journals directory for day-file edits
// 2. Re-merges changed dates through the syncer (debounced)
// 3. Periodically flushes the offline write queue
// 4. Handles graceful shutdown
package daemon

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/daybook-io/daybook/internal/journal"
	"github.com/daybook-io/daybook/internal/syncer"
)

// Config holds configuration for the daemon.
type Config struct {
	// FlushInterval is how often the pending queue is flushed.
	FlushInterval time.Duration

	// DebounceInterval is how long to wait before re-merging a changed
	// day file. This batches rapid edits together.
	DebounceInterval time.Duration

	// OnPushNeeded is invoked after a merge that produced local-only
	// additions or conflicts. Push scheduling policy lives with the
	// caller; nil means log-only.
	OnPushNeeded func(date string, res *syncer.PullResult)

	// Logger for daemon activity.
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		FlushInterval:    30 * time.Second,
		DebounceInterval: 500 * time.Millisecond,
		Logger:           log.New(os.Stderr, "[daemon] ", log.LstdFlags),
	}
}

// Daemon orchestrates file watching, merging, and queue flushing.
type Daemon struct {
	syncer      syncer.Syncer
	journalsDir string
	config      *Config

	watcher       *fsnotify.Watcher
	changeQueue   map[string]time.Time // date -> last event time
	changeQueueMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a daemon with default configuration.
func New(s syncer.Syncer, journalsDir string) (*Daemon, error) {
	return NewWithConfig(s, journalsDir, DefaultConfig())
}

// NewWithConfig creates a daemon with custom configuration.
func NewWithConfig(s syncer.Syncer, journalsDir string, config *Config) (*Daemon, error) {
	if s == nil {
		return nil, fmt.Errorf("syncer cannot be nil")
	}
	if journalsDir == "" {
		return nil, fmt.Errorf("journalsDir cannot be empty")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = log.New(os.Stderr, "[daemon] ", log.LstdFlags)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		syncer:      s,
		journalsDir: journalsDir,
		config:      config,
		watcher:     watcher,
		changeQueue: make(map[string]time.Time),
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

// Start begins the daemon's operation.
//
// The daemon flushes any pending items, watches the journals directory for
// changes, and runs until ctx is cancelled. This blocks.
func (d *Daemon) Start(ctx context.Context) error {
	d.config.Logger.Println("Starting daemon")

	if err := os.MkdirAll(d.journalsDir, 0o700); err != nil {
		return fmt.Errorf("failed to create journals directory: %w", err)
	}
	if err := d.watcher.Add(d.journalsDir); err != nil {
		return fmt.Errorf("failed to watch journals directory: %w", err)
	}
	d.config.Logger.Printf("Watching: %s", d.journalsDir)

	// Opportunistic flush on startup; failures are retried on the ticker.
	if err := d.syncer.FlushPending(d.ctx); err != nil {
		d.config.Logger.Printf("WARNING: startup flush failed: %v", err)
	}

	d.wg.Add(3)
	go d.watchFileEvents()
	go d.processChangeQueue()
	go d.flushLoop()

	select {
	case <-ctx.Done():
		d.config.Logger.Println("Shutdown signal received")
		return d.Stop()
	case <-d.ctx.Done():
		return nil
	}
}

// Stop gracefully shuts down the daemon.
func (d *Daemon) Stop() error {
	d.config.Logger.Println("Stopping daemon")

	d.cancel()

	if err := d.watcher.Close(); err != nil {
		d.config.Logger.Printf("Error closing watcher: %v", err)
	}

	d.wg.Wait()

	d.config.Logger.Println("Daemon stopped")
	return nil
}

// watchFileEvents monitors filesystem events and queues changed dates.
func (d *Daemon) watchFileEvents() {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return

		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}

			date, ok := dateFromPath(event.Name)
			if !ok {
				continue
			}

			d.config.Logger.Printf("File event: %s %s", event.Op, event.Name)
			d.queueChange(date)

		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.config.Logger.Printf("Watcher error: %v", err)
		}
	}
}

// queueChange records a changed date for debounced processing.
func (d *Daemon) queueChange(date string) {
	d.changeQueueMu.Lock()
	defer d.changeQueueMu.Unlock()

	d.changeQueue[date] = time.Now()
}

// processChangeQueue re-merges queued dates once they have settled.
func (d *Daemon) processChangeQueue() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.DebounceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return

		case <-ticker.C:
			d.processPendingChanges()
		}
	}
}

// processPendingChanges merges dates whose last event is old enough.
func (d *Daemon) processPendingChanges() {
	d.changeQueueMu.Lock()
	now := time.Now()
	var due []string
	for date, queuedAt := range d.changeQueue {
		if now.Sub(queuedAt) < d.config.DebounceInterval {
			continue
		}
		due = append(due, date)
		delete(d.changeQueue, date)
	}
	d.changeQueueMu.Unlock()

	for _, date := range due {
		d.config.Logger.Printf("Processing change: %s", date)
		res, err := d.syncer.MergeAndPersist(d.ctx, date)
		if err != nil {
			d.config.Logger.Printf("Error merging %s: %v", date, err)
			continue
		}
		if len(res.ConflictEntryIDs) > 0 {
			d.config.Logger.Printf("Conflicts on %s (local kept): %s",
				date, strings.Join(res.ConflictEntryIDs, ", "))
		}
		if res.NeedsPush {
			d.config.Logger.Printf("Push needed for %s (localOnly=%d, conflicts=%d)",
				date, res.LocalOnly, len(res.ConflictEntryIDs))
			if d.config.OnPushNeeded != nil {
				d.config.OnPushNeeded(date, res)
			}
		}
	}
}

// flushLoop periodically flushes the pending queue.
func (d *Daemon) flushLoop() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return

		case <-ticker.C:
			if err := d.syncer.FlushPending(d.ctx); err != nil {
				d.config.Logger.Printf("Error flushing queue: %v", err)
			}
		}
	}
}

// dateFromPath extracts the date from a day-file path. Temp files from
// atomic writes and anything that is not <date>.md are ignored.
func dateFromPath(path string) (string, bool) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, ".md") {
		return "", false
	}
	date := strings.TrimSuffix(name, ".md")
	if err := journal.ValidateDate(date); err != nil {
		return "", false
	}
	return date, true
}
