package document

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHeadingLevel(t *testing.T) {
	tests := map[string]int{
		"## Sleep\n":     2,
		"# Title":        1,
		"  ### Deep  \n": 3,
		"##Sleep":        0,
		"##":             0,
		"## ":            0,
		"plain text":     0,
		"#hashtag":       0,
		"":               0,
	}
	for line, want := range tests {
		if got := HeadingLevel(line); got != want {
			t.Errorf("HeadingLevel(%q) = %d, want %d", line, got, want)
		}
	}
}

func TestNormalizeHeadingCollision(t *testing.T) {
	for _, h := range []string{"## 😴 Sleep", "## SLEEP", "##   Sleep  ", "## Sleep!\n"} {
		if got := NormalizeHeading(h); got != "sleep" {
			t.Errorf("NormalizeHeading(%q) = %q, want sleep", h, got)
		}
	}
	if got := NormalizeHeading("## ❤️ Heart  Rate\t(avg)"); got != "heart rate avg" {
		t.Errorf("got %q", got)
	}
	if got := NormalizeHeading("## 🎉"); got != "" {
		t.Errorf("emoji-only heading = %q, want empty", got)
	}
}

func TestParseIsLossless(t *testing.T) {
	docs := []string{
		"",
		"no headings at all",
		"---\ndate: 2026-01-01\n---\n# Title\n\n## Sleep\n\n- a\n\n## Journal\ntext",
		"---\nunterminated: true\n## Sleep\n- a\n",
		"## Sleep\n### Deep\n- x\n#### deeper\n## Activity\n",
		"\n\n## Sleep\r\n- crlf\r\n",
	}
	for _, d := range docs {
		for level := 1; level <= 3; level++ {
			if got := Parse(d, level).String(); got != d {
				t.Errorf("Parse(%q, %d) round trip = %q", d, level, got)
			}
		}
	}
}

func TestParseStructure(t *testing.T) {
	doc := "---\na: 1\n---\n# Title\n\n## 😴 Sleep\n\n### Deep\n- x\n\n## Journal\nFelt great today.\n"
	p := Parse(doc, 2)

	if p.Metadata != "---\na: 1\n---\n" {
		t.Errorf("Metadata = %q", p.Metadata)
	}
	if p.Preamble != "# Title\n\n" {
		t.Errorf("Preamble = %q", p.Preamble)
	}
	if len(p.Sections) != 2 {
		t.Fatalf("got %d sections", len(p.Sections))
	}
	if p.Sections[0].Key != "sleep" || p.Sections[0].Body != "\n### Deep\n- x\n\n" {
		t.Errorf("section 0 = %+v", p.Sections[0])
	}
	if p.Sections[1].Heading != "## Journal\n" || p.Sections[1].Body != "Felt great today.\n" {
		t.Errorf("section 1 = %+v", p.Sections[1])
	}
}

func TestDetectSectionLevel(t *testing.T) {
	tests := []struct {
		doc  string
		want int
	}{
		{"# Title\n### 😴 Sleep\n", 3},
		{"# Title\n## Notes\n# Activity\n", 1},
		{"# Title\n## Notes\n", 2},
		{"---\n# sleep: comment\n---\n### Heart\n", 3},
		{"", 2},
	}
	for _, tt := range tests {
		if got := DetectSectionLevel(tt.doc); got != tt.want {
			t.Errorf("DetectSectionLevel(%q) = %d, want %d", tt.doc, got, tt.want)
		}
	}

	custom := NewMerger([]string{"Readings"})
	if got := custom.DetectSectionLevel("### Readings\n## Sleep\n"); got != 3 {
		t.Errorf("custom keys level = %d", got)
	}
}

const generated = `---
date: 2026-03-14
steps: 12000
---
# Health Data — 2026-03-14

## 😴 Sleep

- **Total Sleep:** 8h

## 🏃 Activity

- **Steps:** 12,000
`

func TestMergeReplacesAndPreserves(t *testing.T) {
	existing := `---
date: 2026-03-14
steps: 9000
---
# Health Data — 2026-03-14

## 😴 Sleep

- **Total Sleep:** 6h 10m

## 🏃 Activity

- **Steps:** 9,000

## Journal

Felt great today.
`
	want := `---
date: 2026-03-14
steps: 12000
---
# Health Data — 2026-03-14

## 😴 Sleep

- **Total Sleep:** 8h

## 🏃 Activity

- **Steps:** 12,000

## Journal

Felt great today.
`
	got := Merge(existing, generated)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Merge() mismatch (-want +got):\n%s", diff)
	}
	for _, old := range []string{"6h 10m", "9,000", "steps: 9000"} {
		if strings.Contains(got, old) {
			t.Errorf("old value %q survived the merge", old)
		}
	}
}

func TestMergeKeepsUserSectionPosition(t *testing.T) {
	existing := "# Health Data\n\n## Journal\nMorning run felt slow.\n\n## Sleep\n- **Total Sleep:** 5h\n\n## Ideas\n- buy shoes\n"
	got := Merge(existing, generated)

	journal := strings.Index(got, "## Journal\nMorning run felt slow.\n")
	sleep := strings.Index(got, "## 😴 Sleep")
	ideas := strings.Index(got, "## Ideas\n- buy shoes\n")
	activity := strings.Index(got, "## 🏃 Activity")
	if journal < 0 || sleep < 0 || ideas < 0 || activity < 0 {
		t.Fatalf("missing section in:\n%s", got)
	}
	if !(journal < sleep && sleep < ideas && ideas < activity) {
		t.Fatalf("unexpected section order:\n%s", got)
	}
	if strings.Contains(got, "5h") {
		t.Fatalf("old sleep value kept:\n%s", got)
	}
}

func TestMergeAppendsNewCategory(t *testing.T) {
	existing := "# Health Data\n\n## Sleep\n\n- **Total Sleep:** 8h\n"
	gen := "# Health Data\n\n## Sleep\n\n- **Total Sleep:** 8h\n\n## Nutrition\n\n- **Protein:** 110 g\n"

	got := Merge(existing, gen)
	if got != gen {
		t.Fatalf("Merge() = %q, want %q", got, gen)
	}
}

func TestMergeDifferentHeadingLevels(t *testing.T) {
	existing := "# Notes\n\n### Sleep\n- old\n\n### Journal\nkeep me\n"
	got := Merge(existing, generated)

	want := "---\ndate: 2026-03-14\nsteps: 12000\n---\n# Health Data — 2026-03-14\n\n" +
		"### 😴 Sleep\n\n- **Total Sleep:** 8h\n\n" +
		"### Journal\nkeep me\n\n" +
		"### 🏃 Activity\n\n- **Steps:** 12,000\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Merge() mismatch (-want +got):\n%s", diff)
	}
	if again := Merge(got, generated); again != got {
		t.Fatalf("second merge changed the document:\n%s", again)
	}
}

func TestShiftHeadingKeepsSubheadings(t *testing.T) {
	s := Section{Heading: "## 💪 Workouts\n", Key: "workouts", Body: "\n### 1. Running\n\n- a\n# not shifted\n"}
	got := shiftSection(s, 2, 1)
	if got.Heading != "### 💪 Workouts\n" || got.Body != "\n#### 1. Running\n\n- a\n# not shifted\n" {
		t.Fatalf("shiftSection() = %+v", got)
	}
	if got := shiftHeading("  ###### deep\n", 2, 3); got != "  ###### deep\n" {
		t.Fatalf("shiftHeading clamp = %q", got)
	}
}

func TestMergeIdempotent(t *testing.T) {
	existing := "# Health Data\n\n## Journal\nno trailing newline"
	once := Merge(existing, generated)
	twice := Merge(once, generated)
	if once != twice {
		t.Fatalf("merge not idempotent:\n--- once\n%s\n--- twice\n%s", once, twice)
	}
	if !strings.Contains(once, "## Journal\nno trailing newline\n\n## 😴 Sleep") {
		t.Fatalf("appended section not separated:\n%s", once)
	}
	if got := Merge(generated, generated); got != generated {
		t.Fatalf("Merge(d, d) != d:\n%s", got)
	}
}

func TestMergeDropsDuplicateManagedSections(t *testing.T) {
	existing := "## Sleep\n- a\n\n## Journal\nj\n\n## Sleep\n- b\n"
	got := Merge(existing, generated)
	if strings.Count(got, "## 😴 Sleep") != 1 || strings.Contains(got, "## Sleep\n") || strings.Contains(got, "- a\n") || strings.Contains(got, "- b\n") {
		t.Fatalf("duplicate managed section not collapsed:\n%s", got)
	}
	if !strings.Contains(got, "## Journal\nj\n") {
		t.Fatalf("journal lost:\n%s", got)
	}
}

func TestMergeEmptyExisting(t *testing.T) {
	if got := Merge("", generated); got != generated {
		t.Fatalf("Merge(\"\", g) = %q", got)
	}
}

func TestMergeLevelOneTitle(t *testing.T) {
	const meta = "---\ndate: 2026-03-14\n---\n"
	const noData = meta + "# Health Data — 2026-03-14\n\n_No health data recorded for this day._\n"
	existing := meta + "# Health Data — 2026-03-14\n\n# 😴 Sleep\n\n- **Total Sleep:** 8h\n\n# Journal\nFelt great today.\n"

	tests := []struct {
		name      string
		generated string
		want      string
	}{
		{
			name:      "no data export",
			generated: noData,
			want: noData +
				"# 😴 Sleep\n\n- **Total Sleep:** 8h\n\n" +
				"# Journal\nFelt great today.\n",
		},
		{
			name:      "title date format changed",
			generated: meta + "# Health Data — March 14, 2026\n\n# 😴 Sleep\n\n- **Total Sleep:** 7h\n",
			want: meta + "# Health Data — March 14, 2026\n\n" +
				"# 😴 Sleep\n\n- **Total Sleep:** 7h\n\n" +
				"# Journal\nFelt great today.\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := Merge(existing, tt.generated)
			if diff := cmp.Diff(tt.want, once); diff != "" {
				t.Fatalf("Merge() mismatch (-want +got):\n%s", diff)
			}
			if twice := Merge(once, tt.generated); twice != once {
				t.Fatalf("second merge changed the document:\n%s", twice)
			}
			if n := strings.Count(once, "# Health Data"); n != 1 {
				t.Fatalf("title count = %d:\n%s", n, once)
			}
		})
	}
}

func TestMergeLevelOneKeepsUntitledLeadingSection(t *testing.T) {
	existing := "# Journal\nkeep me\n\n# Sleep\n- old\n"
	got := Merge(existing, "# Health Data — 2026-03-14\n\n_No health data recorded for this day._\n")
	if !strings.Contains(got, "# Journal\nkeep me\n") || !strings.Contains(got, "# Sleep\n- old\n") {
		t.Fatalf("user sections lost:\n%s", got)
	}
}
