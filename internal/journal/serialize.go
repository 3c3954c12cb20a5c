package journal

import "strings"

// Serialize writes a Day back to its textual file form: a frontmatter block
// (date plus per-entry metadata) followed by each entry. The preamble is
// written without a heading; subsequent entries are separated by a
// horizontal rule. Output is canonical: Parse(Serialize(d)) reproduces every
// entry's identity, content, and metadata.
func Serialize(d *Day) string {
	var b strings.Builder
	writeFrontmatter(&b, d)

	// The preamble is always emitted first; anywhere else it would fold
	// into the preceding entry's body on the next parse.
	for _, e := range d.Entries {
		if e.ID == PreambleID && strings.TrimSpace(e.Content) != "" {
			b.WriteString("\n" + strings.TrimRight(e.Content, "\n") + "\n")
			break
		}
	}

	prevRuled := false // previous block needs a separator rule after it
	for _, e := range d.Entries {
		if e.ID == PreambleID {
			continue
		}
		if prevRuled {
			b.WriteString("\n" + Marker + "\n")
		}
		b.WriteString("\n" + headingLine(e) + "\n")
		if content := strings.TrimRight(e.Content, "\n"); content != "" {
			b.WriteString("\n" + content + "\n")
		}
		prevRuled = true
	}
	return b.String()
}

func headingLine(e *Entry) string {
	if e.Plain {
		return "## " + e.Title
	}
	return "## [" + e.ID + "] " + e.Title
}
