// Package export renders a Snapshot into the four document formats a vault
// can hold: Markdown, properties-only Markdown, JSON and CSV.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/health-export/internal/exportconfig"
	"github.com/fdg312/health-export/internal/snapshot"
)

var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	FormatMarkdown   Format = "markdown"
	FormatProperties Format = "properties"
	FormatJSON       Format = "json"
	FormatCSV        Format = "csv"
)

// Formats lists every supported format.
var Formats = []Format{FormatMarkdown, FormatProperties, FormatJSON, FormatCSV}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatMarkdown, FormatProperties, FormatJSON, FormatCSV:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "frontmatter":
		return FormatProperties, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Extension is the file extension, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	default:
		return "md"
	}
}

// ContentType is the MIME type used when the document is stored or served.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Sectioned reports whether documents of this format have a heading
// structure that can be merged section by section.
func (f Format) Sectioned() bool {
	return f == FormatMarkdown
}

// Serialize renders s in format f. The snapshot is expected to be filtered
// already; every category with data is written.
func Serialize(f Format, s snapshot.Snapshot, cfg exportconfig.Configuration) (string, error) {
	switch f {
	case FormatMarkdown:
		return Markdown(s, cfg), nil
	case FormatProperties:
		return Properties(s, cfg), nil
	case FormatJSON:
		return JSON(s, cfg)
	case FormatCSV:
		return CSV(s, cfg)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
