// Package transport defines the sync transport contract between the journal
// core and the server, plus the HTTP implementation of it.
//
// The contract is deliberately small: fetch the entry records for one date,
// and create one entry. Callers treat a fetch error as an empty list and
// proceed with local-only data; a create failure is strictly "retry later",
// never fatal.
package transport

import (
	"context"
	"time"
)

// EntryRecord is one server-held journal entry.
type EntryRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	AudioPath string    `json:"audio_path,omitempty"`
	ImagePath string    `json:"image_path,omitempty"`
	Duration  int       `json:"duration,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRequest carries a new entry's content and metadata to the server.
type CreateRequest struct {
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Title     string    `json:"title,omitempty"`
	AudioPath string    `json:"audio_path,omitempty"`
	ImagePath string    `json:"image_path,omitempty"`
	Duration  int       `json:"duration,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateResult is the server's confirmation of a created entry.
type CreateResult struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Transport is the collaborator the queue and syncer upload through.
type Transport interface {
	// FetchEntries returns the entry records for a date (YYYY-MM-DD).
	// Errors mean the caller should proceed as if the server had no
	// entries; they must never abort a pull.
	FetchEntries(ctx context.Context, date string) ([]EntryRecord, error)

	// CreateEntry uploads one entry. A nil result or an error is treated
	// by the queue strictly as "retry later".
	CreateEntry(ctx context.Context, req CreateRequest) (*CreateResult, error)
}
