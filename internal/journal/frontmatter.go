package journal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Marker delimits the frontmatter block: it must be the very first line of
// the file and is repeated once to close the block. The same line doubles as
// the horizontal rule between entries in the body.
const Marker = "---"

// FrontmatterStatus reports how the frontmatter block was handled.
type FrontmatterStatus int

const (
	// FrontmatterAbsent means the file has no frontmatter block.
	FrontmatterAbsent FrontmatterStatus = iota
	// FrontmatterOK means the block parsed cleanly.
	FrontmatterOK
	// FrontmatterSuppressed means the block was malformed and ignored.
	// Parsing continues with no metadata; Err records the suppressed cause.
	FrontmatterSuppressed
)

// FrontmatterResult distinguishes "no metadata because none was written"
// from "no metadata because a parse error was suppressed". Runtime behavior
// is identical in both cases; the distinction exists for diagnostics.
type FrontmatterResult struct {
	Status FrontmatterStatus
	Err    error
	Meta   map[string]EntryMetadata
}

// parseFrontmatter decodes the text between the two marker lines. It is
// total: any malformed input degrades to empty metadata, never an error
// return. Unrecognized keys and malformed blocks are skipped.
func parseFrontmatter(text string) FrontmatterResult {
	res := FrontmatterResult{Status: FrontmatterOK, Meta: map[string]EntryMetadata{}}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return FrontmatterResult{
			Status: FrontmatterSuppressed,
			Err:    fmt.Errorf("malformed frontmatter: %w", err),
			Meta:   map[string]EntryMetadata{},
		}
	}

	for key, val := range raw {
		if key == "date" {
			continue
		}
		block, ok := val.(map[string]any)
		if !ok {
			// Not an indented field block; ignore.
			continue
		}
		res.Meta[key] = metadataFromBlock(block)
	}
	return res
}

// metadataFromBlock coerces one per-entry field block. Unknown fields and
// values of the wrong shape are ignored.
func metadataFromBlock(block map[string]any) EntryMetadata {
	var m EntryMetadata
	for field, val := range block {
		switch field {
		case "type":
			if s, ok := val.(string); ok {
				switch EntryType(s) {
				case TypeText, TypeVoice, TypePhoto, TypeHandwriting:
					m.Type = EntryType(s)
				}
			}
		case "created":
			switch v := val.(type) {
			case string:
				if t, err := time.Parse(time.RFC3339, v); err == nil {
					m.CreatedAt = t
				}
			case time.Time:
				m.CreatedAt = v
			}
		case "audio":
			if s, ok := val.(string); ok {
				m.AudioPath = s
			}
		case "image":
			if s, ok := val.(string); ok {
				m.ImagePath = s
			}
		case "duration":
			switch v := val.(type) {
			case int:
				m.Duration = v
			case int64:
				m.Duration = int(v)
			case string:
				if n, err := strconv.Atoi(v); err == nil {
					m.Duration = n
				}
			}
		}
	}
	if m.Type == "" {
		m.Type = TypeText
	}
	return m
}

// writeFrontmatter serializes the frontmatter block for a day. Metadata
// blocks are emitted in entry order with a fixed field order so that
// serialization is deterministic. Preamble and plain entries never carry
// frontmatter: their IDs are not stable across parses.
func writeFrontmatter(b *strings.Builder, d *Day) {
	b.WriteString(Marker + "\n")
	b.WriteString("date: " + d.Date + "\n")
	for _, e := range d.Entries {
		if e.ID == PreambleID || e.Plain {
			continue
		}
		m, ok := d.Meta[e.ID]
		if !ok {
			continue
		}
		if m.Type == "" {
			m.Type = TypeText
		}
		b.WriteString(e.ID + ":\n")
		b.WriteString("  type: " + string(m.Type) + "\n")
		if !m.CreatedAt.IsZero() {
			b.WriteString("  created: " + m.CreatedAt.UTC().Format(time.RFC3339) + "\n")
		}
		if m.AudioPath != "" {
			b.WriteString("  audio: " + m.AudioPath + "\n")
		}
		if m.ImagePath != "" {
			b.WriteString("  image: " + m.ImagePath + "\n")
		}
		if m.Duration > 0 {
			b.WriteString("  duration: " + strconv.Itoa(m.Duration) + "\n")
		}
	}
	b.WriteString(Marker + "\n")
}
