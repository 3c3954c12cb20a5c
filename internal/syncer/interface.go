// Package syncer exposes the journal core's two entry points to the
// external orchestrator: merge-and-persist on pull, and flush of the
// offline write queue on push opportunities.
package syncer

import "context"

// PullResult summarizes one merge-and-persist pass for a date.
type PullResult struct {
	// ConflictEntryIDs lists entries where local content overwrote a
	// differing server version. Surface these as an advisory; they are
	// a first-class result, not an error.
	ConflictEntryIDs []string

	// LocalOnly counts entries that existed only locally.
	LocalOnly int

	// ServerOnly counts server entries never seen locally.
	ServerOnly int

	// NeedsPush signals the caller to schedule a push: the merged day
	// contains local additions or conflict resolutions the server does
	// not have yet.
	NeedsPush bool
}

// Syncer reconciles the device-local journal with the server-held copy.
//
// Scheduling policy (pull cadence, push debounce, coalescing) belongs to
// the caller; the syncer only performs the work when invoked.
type Syncer interface {
	// MergeAndPersist fetches the server entries for a date, merges them
	// with the local day file, and writes the merged text back locally.
	//
	// Transport failures never abort a pull: the merge proceeds with
	// local-only data. A missing or malformed date is a caller contract
	// breach and returns an error.
	MergeAndPersist(ctx context.Context, date string) (*PullResult, error)

	// FlushPending drives the offline write queue: every queued item is
	// attempted in FIFO order, failures are retained for the next flush.
	// Overlapping calls are silent no-ops.
	FlushPending(ctx context.Context) error
}
