// Package syncer is the orchestration-facing boundary of the journal core.
//
// # Overview
//
// The syncer wires the three leaf components together: the entry
// parser/serializer (internal/journal), the merge engine (internal/merge),
// and the offline write queue (internal/queue). External callers only ever
// invoke the two entry points:
//
//	MergeAndPersist(ctx, date)  on pull
//	FlushPending(ctx)           opportunistically (foreground, timer, manual)
//
// # Architecture
//
//	Server (HTTP)                         Device
//	     │  FetchEntries(date)               │
//	     ▼                                   ▼
//	 entry records ──► serialize ──►  merge ◄── journals/<date>.md
//	                                    │
//	                                    ▼
//	                       merged text written locally,
//	                       NeedsPush signalled to caller
//
//	 CreateEntry ◄── queue.Flush ◄── pending store (offline captures)
//
// # Usage
//
//	q, err := queue.Initialize(queuePath, nil)
//	if err != nil {
//	    return err
//	}
//	tr := transport.NewHTTPClient(serverURL, token)
//	s := syncer.New(tr, q, journalsDir, nil)
//
//	res, err := s.MergeAndPersist(ctx, "2026-08-29")
//	if err != nil {
//	    return err
//	}
//	if res.NeedsPush {
//	    // schedule a push; policy belongs to the caller
//	}
//
//	if err := s.FlushPending(ctx); err != nil {
//	    return err
//	}
//
// Conflicts are not errors. A PullResult carries the conflicting entry IDs
// so the caller can surface an advisory; the local version has already won
// and the superseded server entry is deliberately not retained.
package syncer
