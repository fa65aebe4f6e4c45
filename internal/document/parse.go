// Package document parses exported Markdown notes into sections and merges a
// freshly generated note into one that may have been edited by hand.
package document

import "strings"

// Section is one heading at the section level plus everything up to the next
// heading of that level. Heading and Body keep their line endings.
type Section struct {
	Heading string
	Key     string
	Body    string
}

// Parsed is a document split into its metadata block, the text before the
// first section, and the sections. Joining the parts reproduces the input.
type Parsed struct {
	Metadata string
	Preamble string
	Sections []Section
}

// String reassembles the document byte for byte.
func (p Parsed) String() string {
	var b strings.Builder
	b.WriteString(p.Metadata)
	b.WriteString(p.Preamble)
	for _, s := range p.Sections {
		b.WriteString(s.Heading)
		b.WriteString(s.Body)
	}
	return b.String()
}

// Parse splits doc at headings of exactly the given level. Headings of any
// other level stay inside the surrounding preamble or section body.
func Parse(doc string, level int) Parsed {
	lines := splitLines(doc)
	var p Parsed

	start := metadataEnd(lines)
	if start > 0 {
		p.Metadata = strings.Join(lines[:start], "")
	}

	var pre strings.Builder
	var cur *Section
	var body strings.Builder
	flush := func() {
		if cur != nil {
			cur.Body = body.String()
			p.Sections = append(p.Sections, *cur)
			body.Reset()
		}
	}

	for _, line := range lines[start:] {
		if HeadingLevel(line) == level {
			flush()
			cur = &Section{Heading: line, Key: NormalizeHeading(line)}
			continue
		}
		if cur == nil {
			pre.WriteString(line)
		} else {
			body.WriteString(line)
		}
	}
	flush()
	p.Preamble = pre.String()
	return p
}

// metadataEnd returns the number of lines taken by a leading `---` block,
// closing delimiter included, or 0 when there is none.
func metadataEnd(lines []string) int {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return i + 1
		}
	}
	return 0
}

// splitLines splits after every "\n"; the last line may lack one.
func splitLines(doc string) []string {
	if doc == "" {
		return nil
	}
	lines := strings.SplitAfter(doc, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
