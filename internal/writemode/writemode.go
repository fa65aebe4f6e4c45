// Package writemode decides what text ends up in a target file given what is
// already there. It never touches storage itself.
package writemode

import (
	"fmt"
	"strings"

	"github.com/fdg312/health-export/internal/document"
	"github.com/fdg312/health-export/internal/export"
)

type Mode string

const (
	Overwrite Mode = "overwrite"
	Append    Mode = "append"
	Update    Mode = "update"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Overwrite, Append, Update:
		return m, nil
	}
	return "", fmt.Errorf("unknown write mode %q (allowed: overwrite, append, update)", s)
}

// Existing is the current content of a target, if it exists.
type Existing struct {
	Content string
	Exists  bool
}

// Missing is the value for a target that does not exist yet.
var Missing = Existing{}

// Found wraps existing content.
func Found(content string) Existing {
	return Existing{Content: content, Exists: true}
}

// Result is the text to write plus the mode that actually produced it.
type Result struct {
	Content string
	Applied Mode
	// FellBack is set when Update was requested for a format without
	// sections and Overwrite was applied instead.
	FellBack bool
}

const appendSeparator = "\n\n"

// Resolve computes the final content of a target.
//
//   - Overwrite: the generated content.
//   - Append: existing + blank line + generated, or generated when missing.
//   - Update: for Markdown, the section merge of existing and generated, or
//     generated when missing. Other formats have no sections to merge and are
//     overwritten; the caller can report that through Result.FellBack.
func Resolve(existing Existing, generated string, mode Mode, format export.Format) Result {
	switch mode {
	case Append:
		if !existing.Exists {
			return Result{Content: generated, Applied: Append}
		}
		return Result{Content: existing.Content + appendSeparator + generated, Applied: Append}
	case Update:
		if !format.Sectioned() {
			return Result{Content: generated, Applied: Overwrite, FellBack: true}
		}
		if !existing.Exists {
			return Result{Content: generated, Applied: Update}
		}
		return Result{Content: document.Merge(existing.Content, generated), Applied: Update}
	default:
		return Result{Content: generated, Applied: Overwrite}
	}
}
