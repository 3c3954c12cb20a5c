package journal

import (
	"fmt"
	"regexp"
	"strings"
)

// headingRe matches entry heading lines. Tagged headings encode a stable ID
// in brackets ("## [entry_1724912345] 08:12"); bare headings carry only a
// title ("## 08:12").
var headingRe = regexp.MustCompile(`^## +(?:\[([^\]]+)\][ \t]*)?(.*)$`)

// Parse converts raw day-file text into a Day. It is a single linear scan
// and is total over the body: malformed frontmatter degrades to no metadata,
// ambiguous content ends up in the preamble or the current entry, and no
// input ever produces an error. The only error condition is a missing or
// malformed date, which is a caller contract breach.
//
// Untagged content before the first heading becomes a synthetic "preamble"
// entry if non-empty. Bare headings receive sequential plain_N IDs; those
// IDs are scoped to this parse call and are not stable across re-parses of
// an edited file.
func Parse(raw, date string) (*Day, error) {
	day, _, err := ParseWithFrontmatter(raw, date)
	return day, err
}

// ParseWithFrontmatter is Parse plus the frontmatter diagnostic result,
// which distinguishes absent metadata from a suppressed parse error.
func ParseWithFrontmatter(raw, date string) (*Day, FrontmatterResult, error) {
	if err := ValidateDate(date); err != nil {
		return nil, FrontmatterResult{}, err
	}

	day := &Day{
		Date: date,
		Meta: map[string]EntryMetadata{},
	}

	lines := strings.Split(raw, "\n")
	fm := FrontmatterResult{Status: FrontmatterAbsent, Meta: map[string]EntryMetadata{}}
	body := lines

	// Frontmatter is only recognized when the marker is the very first line.
	if len(lines) > 0 && strings.TrimRight(lines[0], " \t") == Marker {
		closed := -1
		for i := 1; i < len(lines); i++ {
			if strings.TrimRight(lines[i], " \t") == Marker {
				closed = i
				break
			}
		}
		if closed == -1 {
			fm = FrontmatterResult{
				Status: FrontmatterSuppressed,
				Err:    fmt.Errorf("unterminated frontmatter block"),
				Meta:   map[string]EntryMetadata{},
			}
			body = lines[1:]
		} else {
			fm = parseFrontmatter(strings.Join(lines[1:closed], "\n"))
			body = lines[closed+1:]
		}
	}
	day.Meta = fm.Meta

	var (
		cur      *Entry // nil while buffering the preamble
		buf      []string
		plainSeq int
	)

	// ruled is true when a heading follows the buffered body, meaning the
	// serializer may have written a separator rule at its end. The EOF flush
	// must not strip: a trailing "---" there is genuine entry content.
	flush := func(ruled bool) {
		trimmed := trimBlankEdges(buf)
		if ruled && cur != nil {
			trimmed = trimTrailingRule(trimmed)
		}
		content := strings.Join(trimmed, "\n")
		buf = buf[:0]
		if cur == nil {
			if content == "" {
				return
			}
			day.Entries = append(day.Entries, &Entry{
				ID:      PreambleID,
				Content: content,
				Type:    TypeText,
			})
			return
		}
		cur.Content = content
		day.Entries = append(day.Entries, cur)
	}

	for _, line := range body {
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			buf = append(buf, line)
			continue
		}
		flush(true)
		e := &Entry{Title: strings.TrimRight(m[2], " \t")}
		if m[1] != "" {
			e.ID = m[1]
		} else {
			plainSeq++
			e.ID = fmt.Sprintf("plain_%d", plainSeq)
			e.Plain = true
		}
		cur = e
	}
	flush(false)

	applyMetadata(day)
	return day, fm, nil
}

// trimTrailingRule strips one trailing horizontal-rule marker (the separator
// written before the next heading) and trims the blank edge it leaves.
func trimTrailingRule(lines []string) []string {
	if n := len(lines); n > 0 && strings.TrimRight(lines[n-1], " \t") == Marker {
		return trimBlankEdges(lines[:n-1])
	}
	return lines
}

func trimBlankEdges(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

// applyMetadata copies frontmatter attributes onto the parsed entries.
// Entries without a metadata block default to text.
func applyMetadata(day *Day) {
	for _, e := range day.Entries {
		m := day.MetadataFor(e.ID)
		if e.Type == "" {
			e.Type = m.Type
		}
		if e.ID == PreambleID || e.Plain {
			continue
		}
		e.Type = m.Type
		e.CreatedAt = m.CreatedAt
		e.AudioPath = m.AudioPath
		e.ImagePath = m.ImagePath
		e.Duration = m.Duration
	}
}
