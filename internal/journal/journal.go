// Package journal provides the day-file representation for daybook journals.
//
// Each calendar date is stored as one UTF-8 text file under journals/
// (journals/2026-08-29.md). A file holds an optional frontmatter block with
// per-entry metadata, followed by the entries themselves, each introduced by
// a heading line and separated by horizontal rules.
package journal

import (
	"fmt"
	"path/filepath"
	"time"
)

// EntryType classifies how an entry was captured.
type EntryType string

const (
	TypeText        EntryType = "text"
	TypeVoice       EntryType = "voice"
	TypePhoto       EntryType = "photo"
	TypeHandwriting EntryType = "handwriting"
)

// PreambleID is the sentinel ID for untagged content that appears before
// the first entry heading in a day file.
const PreambleID = "preamble"

// DateLayout is the canonical date format for day files and APIs.
const DateLayout = "2006-01-02"

// Entry is one atomic captured note within a day.
type Entry struct {
	// ID is stable across parses for tagged entries. The preamble uses
	// PreambleID; bare headings receive sequential plain_N IDs that are
	// scoped to a single parse and never persisted.
	ID string

	// Title is the heading text. Titles are time-of-day strings
	// ("08:12"), so lexicographic order is chronological within one day.
	Title string

	// Content is the free-text body of the entry.
	Content string

	Type      EntryType
	CreatedAt time.Time

	// AudioPath and Duration are set for voice entries; ImagePath for
	// photo and handwriting entries.
	AudioPath string
	ImagePath string
	Duration  int

	// Plain marks entries whose heading carried no stable ID.
	Plain bool
}

// EntryMetadata is the type-tagged metadata record persisted in the
// frontmatter block for one entry.
type EntryMetadata struct {
	Type      EntryType
	CreatedAt time.Time
	AudioPath string
	ImagePath string
	Duration  int
}

// Day is the in-memory representation of one day file.
type Day struct {
	// Date in DateLayout form (YYYY-MM-DD).
	Date string

	// Entries in file order. IDs are unique within the list.
	Entries []*Entry

	// Meta maps entry ID to its frontmatter metadata. Absence of a key
	// means default text metadata; use MetadataFor.
	Meta map[string]EntryMetadata

	// Path is the canonical file path for this date, if known.
	Path string
}

// Entry returns the entry with the given ID, or nil.
func (d *Day) Entry(id string) *Entry {
	for _, e := range d.Entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// MetadataFor returns the metadata for an entry ID. Entries without a
// frontmatter block get default text metadata.
func (d *Day) MetadataFor(id string) EntryMetadata {
	if m, ok := d.Meta[id]; ok {
		if m.Type == "" {
			m.Type = TypeText
		}
		return m
	}
	return EntryMetadata{Type: TypeText}
}

// DayPath returns the canonical file path for a date under the journals
// directory: <dir>/YYYY-MM-DD.md.
func DayPath(dir, date string) string {
	return filepath.Join(dir, date+".md")
}

// ValidateDate checks that date is a well-formed YYYY-MM-DD string.
// A missing or malformed date is a caller contract breach, not a
// recoverable parse condition.
func ValidateDate(date string) error {
	if date == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	return nil
}
