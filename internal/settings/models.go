package settings

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/fdg312/health-export/internal/export"
	"github.com/fdg312/health-export/internal/exportconfig"
	"github.com/fdg312/health-export/internal/snapshot"
	"github.com/fdg312/health-export/internal/tracking"
	"github.com/fdg312/health-export/internal/writemode"
)

var ErrInvalidSettings = errors.New("invalid export settings")

// FolderLayout groups daily notes into sub-folders.
type FolderLayout string

const (
	LayoutFlat      FolderLayout = "flat"
	LayoutYear      FolderLayout = "year"
	LayoutYearMonth FolderLayout = "year_month"
)

const DefaultFilenamePattern = "{date}"

// ExportSettings is everything a user configures for exports.
type ExportSettings struct {
	Document        exportconfig.Configuration `json:"document" yaml:"document" mapstructure:"document"`
	Format          export.Format              `json:"format" yaml:"format" mapstructure:"format"`
	WriteMode       writemode.Mode             `json:"write_mode" yaml:"write_mode" mapstructure:"write_mode"`
	Categories      []string                   `json:"categories" yaml:"categories" mapstructure:"categories"`
	Folder          string                     `json:"folder" yaml:"folder" mapstructure:"folder"`
	FolderLayout    FolderLayout               `json:"folder_layout" yaml:"folder_layout" mapstructure:"folder_layout"`
	FilenamePattern string                     `json:"filename_pattern" yaml:"filename_pattern" mapstructure:"filename_pattern"`
	Tracking        tracking.Config            `json:"tracking" yaml:"tracking" mapstructure:"tracking"`
}

type SettingsResponse struct {
	Settings  ExportSettings `json:"settings"`
	IsDefault bool           `json:"is_default"`
}

// Defaults selects every category and writes Markdown notes into Health/
// with the update mode.
func Defaults() ExportSettings {
	return ExportSettings{
		Document:        exportconfig.Default(),
		Format:          export.FormatMarkdown,
		WriteMode:       writemode.Update,
		Categories:      snapshot.AllCategories().Keys(),
		Folder:          "Health",
		FolderLayout:    LayoutFlat,
		FilenamePattern: DefaultFilenamePattern,
		Tracking:        tracking.Config{Folder: tracking.DefaultFolder},
	}
}

func (s ExportSettings) Validate() error {
	if err := s.Document.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if _, err := export.ParseFormat(string(s.Format)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if _, err := writemode.ParseMode(string(s.WriteMode)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if _, err := snapshot.ParseMask(s.Categories); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	switch s.FolderLayout {
	case LayoutFlat, LayoutYear, LayoutYearMonth:
	default:
		return fmt.Errorf("%w: folder_layout must be flat, year or year_month", ErrInvalidSettings)
	}
	if strings.HasPrefix(s.Folder, "/") || hasDotDot(s.Folder) {
		return fmt.Errorf("%w: folder must be relative to the vault", ErrInvalidSettings)
	}

	p := strings.TrimSpace(s.FilenamePattern)
	if p == "" {
		return fmt.Errorf("%w: filename_pattern is required", ErrInvalidSettings)
	}
	if strings.ContainsAny(p, `/\`) || hasDotDot(p) {
		return fmt.Errorf("%w: filename_pattern must not contain path separators", ErrInvalidSettings)
	}
	if !strings.Contains(p, "{date}") && !strings.Contains(p, "{day}") {
		return fmt.Errorf("%w: filename_pattern must contain {date} or {day}", ErrInvalidSettings)
	}

	if err := s.Tracking.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

// Normalize lower-cases closed-set values and trims paths. Aliases such as
// "md" become their canonical format.
func (s ExportSettings) Normalize() ExportSettings {
	if f, err := export.ParseFormat(string(s.Format)); err == nil {
		s.Format = f
	}
	if m, err := writemode.ParseMode(string(s.WriteMode)); err == nil {
		s.WriteMode = m
	}
	if mask, err := snapshot.ParseMask(s.Categories); err == nil {
		s.Categories = mask.Keys()
	}
	s.Folder = strings.Trim(strings.TrimSpace(s.Folder), "/")
	s.FolderLayout = FolderLayout(strings.ToLower(strings.TrimSpace(string(s.FolderLayout))))
	if s.FolderLayout == "" {
		s.FolderLayout = LayoutFlat
	}
	s.FilenamePattern = strings.TrimSpace(s.FilenamePattern)
	return s
}

// Mask returns the selected categories. Unknown keys are ignored; Validate
// reports them.
func (s ExportSettings) Mask() snapshot.CategoryMask {
	m := make(snapshot.CategoryMask, len(s.Categories))
	for _, k := range s.Categories {
		if c, err := snapshot.ParseCategory(k); err == nil {
			m[c] = true
		}
	}
	return m
}

// Path returns the vault-relative target of the note for d.
func (s ExportSettings) Path(d civil.Date) string {
	dir := s.Folder
	switch s.FolderLayout {
	case LayoutYear:
		dir = path.Join(dir, fmt.Sprintf("%04d", d.Year))
	case LayoutYearMonth:
		dir = path.Join(dir, fmt.Sprintf("%04d", d.Year), fmt.Sprintf("%02d", int(d.Month)))
	}
	return path.Join(dir, s.fileName(d)+"."+s.Format.Extension())
}

func (s ExportSettings) fileName(d civil.Date) string {
	pattern := s.FilenamePattern
	if pattern == "" {
		pattern = DefaultFilenamePattern
	}
	return strings.NewReplacer(
		"{date}", d.String(),
		"{year}", fmt.Sprintf("%04d", d.Year),
		"{month}", fmt.Sprintf("%02d", int(d.Month)),
		"{day}", fmt.Sprintf("%02d", d.Day),
	).Replace(pattern)
}

func hasDotDot(p string) bool {
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return true
		}
	}
	return false
}
