// Package report exports quiz history to spreadsheets.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/studymate/internal/store"
)

// SheetName is the worksheet holding one row per quiz session.
const SheetName = "Results"

var headers = []string{
	"Date", "Session", "Curriculum", "Subject", "Unit", "Standard",
	"Score (%)", "Correct", "Total", "Answers",
}

// ExportResults writes results to an .xlsx file at path, one row per
// session in the given order, followed by an average score row.
func ExportResults(results []store.QuizResultEvent, path string) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".xlsx" {
		return fmt.Errorf("export path must end in .xlsx, got %q", ext)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(SheetName, 1, 1, bold)
	}

	for i, r := range results {
		row := []any{
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.SessionID,
			r.Curriculum,
			r.Subject,
			r.Unit,
			r.Standard,
			round1(r.Score),
			r.CorrectCount,
			r.Total,
			answerSummary(r.Answers, r.Correctness),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if len(results) > 0 {
		last := len(results) + 1
		labelCell, _ := excelize.CoordinatesToCellName(6, last+1)
		avgCell, _ := excelize.CoordinatesToCellName(7, last+1)
		_ = f.SetCellValue(SheetName, labelCell, "Average")
		if err := f.SetCellFormula(SheetName, avgCell, fmt.Sprintf("ROUND(AVERAGE(G2:G%d),1)", last)); err != nil {
			return fmt.Errorf("write average: %w", err)
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 17)
	_ = f.SetColWidth(SheetName, "B", "B", 38)
	_ = f.SetColWidth(SheetName, "C", "F", 20)
	_ = f.SetColWidth(SheetName, "J", "J", 60)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// answerSummary renders "1. ✓ beta | 2. ✗ (blank)".
func answerSummary(answers []*string, correct []bool) string {
	parts := make([]string, len(answers))
	for i, a := range answers {
		mark := "✗"
		if i < len(correct) && correct[i] {
			mark = "✓"
		}
		text := "(blank)"
		if a != nil {
			text = *a
		}
		parts[i] = fmt.Sprintf("%d. %s %s", i+1, mark, text)
	}
	return strings.Join(parts, " | ")
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
