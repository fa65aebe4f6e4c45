package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/fdg312/health-export/internal/export"
	"github.com/fdg312/health-export/internal/exportconfig"
	"github.com/fdg312/health-export/internal/snapshot"
	"github.com/fdg312/health-export/internal/units"
)

const (
	pdfFont     = "Arial"
	labelWidth  = 70.0
	valueWidth  = 0.0
	rowHeight   = 6.0
	noDataLabel = "No data"
)

// DayPDF renders a one-page printable summary of s. Core fonts only, so
// characters outside cp1252 (emoji) are dropped by the translator.
func DayPDF(s snapshot.Snapshot, cfg exportconfig.Configuration) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	sys := cfg.Units

	pdf.AddPage()
	pdf.SetFont(pdfFont, "B", 16)
	pdf.Cell(0, 10, tr("Health Report"))
	pdf.Ln(8)

	pdf.SetFont(pdfFont, "", 12)
	pdf.Cell(0, 8, tr(cfg.FormatDate(s.Date)))
	pdf.Ln(8)

	if sum := export.Summary(&s); sum != "" {
		pdf.SetFont(pdfFont, "I", 10)
		pdf.Cell(0, 6, tr(sum))
		pdf.Ln(8)
	}

	if !s.HasAnyData() {
		pdf.SetFont(pdfFont, "", 10)
		pdf.Cell(0, 6, noDataLabel)
		pdf.Ln(6)
	}

	for _, c := range snapshot.Categories {
		if !s.Has(c) {
			continue
		}
		pdf.Ln(2)
		pdf.SetFont(pdfFont, "B", 12)
		pdf.Cell(0, 8, tr(c.Title()))
		pdf.Ln(8)
		pdf.SetFont(pdfFont, "", 10)

		switch c {
		case snapshot.CategoryWorkouts:
			for i, w := range s.Workouts {
				parts := []string{
					cfg.FormatTime(w.Start),
					units.Display(units.DurationMinutes, w.Duration, sys),
				}
				if w.Distance != nil && *w.Distance > 0 {
					parts = append(parts, units.Display(units.Distance, *w.Distance, sys))
				}
				if w.Calories != nil && *w.Calories > 0 {
					parts = append(parts, units.Display(units.Energy, *w.Calories, sys))
				}
				row(pdf, tr(strconv.Itoa(i+1)+". "+w.Kind.DisplayName()), tr(strings.Join(parts, ", ")))
			}
		case snapshot.CategoryMood:
			for _, e := range s.Mood {
				label := e.Kind.DisplayName() + " (" + cfg.FormatTime(e.Time) + ")"
				value := fmt.Sprintf("%s (%d%%)", e.Classification(), e.ValencePercent())
				if len(e.Labels) > 0 {
					value += " - " + strings.Join(e.Labels, ", ")
				}
				row(pdf, tr(label), tr(value))
			}
		default:
			for _, r := range export.Readings(&s, c) {
				row(pdf, tr(r.Label), tr(r.Display(sys)))
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(labelWidth, rowHeight, label, "B", 0, "L", false, 0, "")
	pdf.CellFormat(valueWidth, rowHeight, value, "B", 1, "L", false, 0, "")
}

// RangeCSV joins the CSV rows of several days under one header.
func RangeCSV(days []snapshot.Snapshot, cfg exportconfig.Configuration) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(export.CSVHeader); err != nil {
		return nil, err
	}
	for _, s := range days {
		if err := w.WriteAll(export.CSVRows(s, cfg)); err != nil {
			return nil, fmt.Errorf("write rows for %s: %w", s.Date, err)
		}
	}
	return buf.Bytes(), nil
}
