package document

import "strings"

// DefaultSectionKeys are the normalized headings of the categories an export
// writes. They decide which heading level a document uses for its sections.
var DefaultSectionKeys = []string{
	"sleep",
	"activity",
	"heart",
	"vitals",
	"body",
	"nutrition",
	"mindfulness",
	"mobility",
	"hearing",
	"workouts",
	"mood",
}

const defaultLevel = 2

// titleKey prefixes the normalized key of the note title line.
const titleKey = "health data"

// Merger merges documents using a fixed set of known section keys.
type Merger struct {
	known map[string]bool
}

// NewMerger builds a Merger recognizing keys; they are normalized first.
func NewMerger(keys []string) *Merger {
	m := &Merger{known: make(map[string]bool, len(keys))}
	for _, k := range keys {
		m.known[NormalizeHeading(k)] = true
	}
	return m
}

var defaultMerger = NewMerger(DefaultSectionKeys)

// DetectSectionLevel uses the default section keys.
func DetectSectionLevel(doc string) int { return defaultMerger.DetectSectionLevel(doc) }

// Merge uses the default section keys.
func Merge(existing, generated string) string { return defaultMerger.Merge(existing, generated) }

// DetectSectionLevel returns the level of the first heading whose key is a
// known section key, or 2 when none is found. The metadata block is skipped.
func (m *Merger) DetectSectionLevel(doc string) int {
	level, _ := m.detect(doc)
	return level
}

func (m *Merger) detect(doc string) (int, bool) {
	lines := splitLines(doc)
	for _, line := range lines[metadataEnd(lines):] {
		if l := HeadingLevel(line); l > 0 && m.known[NormalizeHeading(line)] {
			return l, true
		}
	}
	return defaultLevel, false
}

// Merge folds a freshly generated document into an existing one.
//
// The result starts with the generated metadata block and preamble. Existing
// sections keep their order: a section whose key also appears in the generated
// document is replaced by the generated version, any other section is kept
// verbatim. Generated sections that matched nothing are appended in their
// generated order. Each generated key is placed once; later existing sections
// with an already placed key are dropped.
//
// When the two documents use different section levels, generated sections
// are shifted to the existing level so the result keeps a single level. A
// generated document without known sections is read at the existing level.
// At level 1 the leading "Health Data" title heading belongs to the preamble
// on both sides, so the generated title always replaces the existing one.
//
// Merge never fails and is idempotent: Merge(Merge(e, g), g) == Merge(e, g).
func (m *Merger) Merge(existing, generated string) string {
	oldLevel, _ := m.detect(existing)
	genLevel, ok := m.detect(generated)
	if !ok {
		genLevel = oldLevel
	}
	old := m.foldTitle(Parse(existing, oldLevel), oldLevel)
	gen := m.foldTitle(Parse(generated, genLevel), genLevel)
	if oldLevel != genLevel && len(old.Sections) > 0 {
		for i := range gen.Sections {
			gen.Sections[i] = shiftSection(gen.Sections[i], genLevel, oldLevel-genLevel)
		}
	}

	// Generated sections grouped by key in first-seen order.
	byKey := make(map[string][]Section, len(gen.Sections))
	order := make([]string, 0, len(gen.Sections))
	for _, s := range gen.Sections {
		if _, ok := byKey[s.Key]; !ok {
			order = append(order, s.Key)
		}
		byKey[s.Key] = append(byKey[s.Key], s)
	}

	out := &sectionWriter{}
	out.raw(gen.Metadata)
	out.raw(gen.Preamble)

	placed := make(map[string]bool, len(order))
	for _, s := range old.Sections {
		repl, ok := byKey[s.Key]
		if !ok {
			out.section(s)
			continue
		}
		if placed[s.Key] {
			continue
		}
		placed[s.Key] = true
		for _, r := range repl {
			out.section(r)
		}
	}
	for _, k := range order {
		if placed[k] {
			continue
		}
		placed[k] = true
		for _, r := range byKey[k] {
			out.section(r)
		}
	}
	return out.String()
}

// foldTitle moves a leading level-1 title section into the preamble. Only
// the first section qualifies, and only when nothing but blank lines precede it.
func (m *Merger) foldTitle(p Parsed, level int) Parsed {
	if level != 1 || len(p.Sections) == 0 || strings.TrimSpace(p.Preamble) != "" {
		return p
	}
	first := p.Sections[0]
	if m.known[first.Key] || !strings.HasPrefix(first.Key, titleKey) {
		return p
	}
	p.Preamble += first.Heading + first.Body
	p.Sections = p.Sections[1:]
	return p
}

// shiftSection moves the section heading and every deeper heading inside its
// body by delta levels, clamped to 1..6.
func shiftSection(s Section, from, delta int) Section {
	s.Heading = shiftHeading(s.Heading, from, delta)
	lines := splitLines(s.Body)
	for i, line := range lines {
		lines[i] = shiftHeading(line, from, delta)
	}
	s.Body = strings.Join(lines, "")
	return s
}

func shiftHeading(line string, from, delta int) string {
	l := HeadingLevel(line)
	if l < from {
		return line
	}
	to := min(max(l+delta, 1), 6)
	i := strings.IndexByte(line, '#')
	return line[:i] + strings.Repeat("#", to) + line[i+l:]
}

// sectionWriter keeps sections on their own lines and separates consecutive
// sections with a blank line.
type sectionWriter struct {
	b            strings.Builder
	afterSection bool
}

func (w *sectionWriter) raw(s string) {
	w.b.WriteString(s)
}

func (w *sectionWriter) section(s Section) {
	text := w.b.String()
	switch {
	case text == "":
	case w.afterSection && !strings.HasSuffix(text, "\n"):
		w.b.WriteString("\n\n")
	case w.afterSection && !strings.HasSuffix(text, "\n\n"):
		w.b.WriteString("\n")
	case !strings.HasSuffix(text, "\n"):
		w.b.WriteString("\n")
	}
	w.b.WriteString(s.Heading)
	w.b.WriteString(s.Body)
	w.afterSection = true
}

func (w *sectionWriter) String() string { return w.b.String() }
