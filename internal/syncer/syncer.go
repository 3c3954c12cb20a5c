package syncer

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/daybook-io/daybook/internal/journal"
	"github.com/daybook-io/daybook/internal/merge"
	"github.com/daybook-io/daybook/internal/queue"
	"github.com/daybook-io/daybook/internal/transport"
)

// syncer implements the Syncer interface.
type syncer struct {
	transport   transport.Transport
	queue       *queue.Queue
	journalsDir string
	logger      *log.Logger
}

// New creates a Syncer over the given transport, pending queue, and local
// journals directory.
//
// If logger is nil, a default logger writing to stderr is used.
func New(tr transport.Transport, q *queue.Queue, journalsDir string, logger *log.Logger) Syncer {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &syncer{
		transport:   tr,
		queue:       q,
		journalsDir: journalsDir,
		logger:      logger,
	}
}

// MergeAndPersist implements Syncer.MergeAndPersist.
func (s *syncer) MergeAndPersist(ctx context.Context, date string) (*PullResult, error) {
	if err := journal.ValidateDate(date); err != nil {
		return nil, err
	}

	records, err := s.transport.FetchEntries(ctx, date)
	if err != nil {
		// Contract: proceed with local-only data rather than failing.
		s.logger.Printf("WARNING: fetch failed for %s, merging with empty server side: %v", date, err)
		records = nil
	}
	serverText := journal.Serialize(dayFromRecords(date, records))

	path := journal.DayPath(s.journalsDir, date)
	localText := ""
	if data, err := os.ReadFile(path); err == nil {
		localText = string(data)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read local day file %s: %w", path, err)
	}

	res, err := merge.Merge(localText, serverText, date)
	if err != nil {
		return nil, err
	}

	// Skip the write when nothing changed so file watchers don't loop on
	// their own merges.
	if res.MergedText != localText {
		if err := writeFileAtomic(path, []byte(res.MergedText)); err != nil {
			return nil, err
		}
	}

	pull := &PullResult{
		ConflictEntryIDs: res.ConflictEntryIDs,
		LocalOnly:        res.LocalOnly,
		ServerOnly:       res.ServerOnly,
		NeedsPush:        res.LocalOnly > 0 || len(res.ConflictEntryIDs) > 0,
	}
	s.logger.Printf("Merged %s: conflicts=%d localOnly=%d serverOnly=%d",
		date, len(pull.ConflictEntryIDs), pull.LocalOnly, pull.ServerOnly)
	return pull, nil
}

// FlushPending implements Syncer.FlushPending.
func (s *syncer) FlushPending(ctx context.Context) error {
	return s.queue.Flush(ctx, s.transport)
}

// dayFromRecords assembles a server-side Day from fetched entry records.
// Records are ordered by title so the serialized form is canonical.
func dayFromRecords(date string, records []transport.EntryRecord) *journal.Day {
	day := &journal.Day{Date: date, Meta: map[string]journal.EntryMetadata{}}
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		title := r.Title
		if title == "" && !r.CreatedAt.IsZero() {
			title = r.CreatedAt.Format("15:04")
		}
		typ := journal.EntryType(r.Type)
		switch typ {
		case journal.TypeText, journal.TypeVoice, journal.TypePhoto, journal.TypeHandwriting:
		default:
			typ = journal.TypeText
		}
		day.Entries = append(day.Entries, &journal.Entry{
			ID:        r.ID,
			Title:     title,
			Content:   r.Content,
			Type:      typ,
			CreatedAt: r.CreatedAt,
			AudioPath: r.AudioPath,
			ImagePath: r.ImagePath,
			Duration:  r.Duration,
		})
		day.Meta[r.ID] = journal.EntryMetadata{
			Type:      typ,
			CreatedAt: r.CreatedAt,
			AudioPath: r.AudioPath,
			ImagePath: r.ImagePath,
			Duration:  r.Duration,
		}
	}
	sort.SliceStable(day.Entries, func(i, j int) bool {
		return day.Entries[i].Title < day.Entries[j].Title
	})
	return day
}

// writeFileAtomic writes data via a temp file and rename so a crash never
// leaves a truncated day file.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create journals directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write day file temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename day file temp: %w", err)
	}
	return nil
}
