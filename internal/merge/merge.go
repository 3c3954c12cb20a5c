// Package merge reconciles two snapshots of the same journal day.
//
// Entries are immutable content blocks keyed by a creation-time-derived ID,
// so reconciliation is an entry-level union with last-writer-wins conflict
// resolution: the device performing the merge is assumed to be actively
// editing its own unsynced content, so the local side always wins. Conflict
// IDs are surfaced so the caller can notify the user instead of silently
// discarding data.
package merge

import (
	"sort"
	"strings"

	"github.com/daybook-io/daybook/internal/journal"
)

// Result is the outcome of merging a local and a server snapshot.
type Result struct {
	// MergedText is the serialized merged day, ready to persist locally
	// and propagate to the server.
	MergedText string

	// ConflictEntryIDs lists entries present on both sides with differing
	// content. The local version has overwritten the server one; the
	// superseded server entry is not retained.
	ConflictEntryIDs []string

	// LocalOnly is the number of entries present only locally.
	LocalOnly int

	// ServerOnly is the number of server entries never seen locally.
	ServerOnly int
}

// Merge computes the union of the local and server texts for one date.
//
// The server snapshot seeds the merged table as the base replica; local
// entries are then inserted or, on a content conflict, overwrite the server
// entry and its metadata. The merged list is ordered preamble first, then by
// title (titles are time-of-day strings, so lexicographic order is
// chronological within one day).
//
// Merge is pure and never panics on garbled or empty input: parse leniency
// guarantees a result. The only error is a missing or malformed date.
func Merge(localText, serverText, date string) (*Result, error) {
	server, err := journal.Parse(serverText, date)
	if err != nil {
		return nil, err
	}
	local, _ := journal.Parse(localText, date)

	// Lenient parsing can surface the same tagged ID twice in garbled
	// input; the first occurrence wins so the union stays one-per-ID.
	entries := make(map[string]*journal.Entry, len(server.Entries))
	order := make([]string, 0, len(server.Entries)+len(local.Entries))
	for _, se := range server.Entries {
		if _, ok := entries[se.ID]; ok {
			continue
		}
		entries[se.ID] = se
		order = append(order, se.ID)
	}
	serverIDs := append([]string(nil), order...)

	meta := make(map[string]journal.EntryMetadata, len(server.Meta))
	for id, m := range server.Meta {
		meta[id] = m
	}

	res := &Result{ConflictEntryIDs: []string{}}
	localSeen := make(map[string]bool, len(local.Entries))
	for _, le := range local.Entries {
		if localSeen[le.ID] {
			continue
		}
		localSeen[le.ID] = true
		se, ok := entries[le.ID]
		if !ok {
			entries[le.ID] = le
			order = append(order, le.ID)
			res.LocalOnly++
			overwriteMeta(meta, local, le.ID)
			continue
		}
		if normalize(se.Content) == normalize(le.Content) {
			continue
		}
		// Local always wins: entry and metadata both replaced.
		res.ConflictEntryIDs = append(res.ConflictEntryIDs, le.ID)
		entries[le.ID] = le
		overwriteMeta(meta, local, le.ID)
	}

	for _, id := range serverIDs {
		if !localSeen[id] {
			res.ServerOnly++
		}
	}

	merged := &journal.Day{Date: date, Meta: meta}
	for _, id := range order {
		merged.Entries = append(merged.Entries, entries[id])
	}
	sort.SliceStable(merged.Entries, func(i, j int) bool {
		a, b := merged.Entries[i], merged.Entries[j]
		if (a.ID == journal.PreambleID) != (b.ID == journal.PreambleID) {
			return a.ID == journal.PreambleID
		}
		return a.Title < b.Title
	})

	res.MergedText = journal.Serialize(merged)
	return res, nil
}

// overwriteMeta installs the local metadata for id, removing any server
// metadata when the local side has none (absence means default text
// metadata, and the local version wins wholesale).
func overwriteMeta(meta map[string]journal.EntryMetadata, local *journal.Day, id string) {
	if m, ok := local.Meta[id]; ok {
		meta[id] = m
	} else {
		delete(meta, id)
	}
}

// normalize collapses all whitespace runs so that formatting-only
// differences do not register as conflicts.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
