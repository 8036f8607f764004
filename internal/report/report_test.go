package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/studymate/internal/store"
)

func strp(s string) *string { return &s }

func TestExportResults(t *testing.T) {
	results := []store.QuizResultEvent{
		{
			ID:        2,
			Timestamp: time.Date(2026, 3, 2, 9, 30, 0, 0, time.Local),
			QuizResultData: store.QuizResultData{
				SessionID: "s-2", Curriculum: "2022 Revised", Subject: "Science", Unit: "Forces", Standard: "9SCI03-01",
				Score: 87.5, CorrectCount: 2, Total: 2,
				Answers:     []*string{strp("m/s"), strp("distance over time")},
				Correctness: []bool{true, true},
			},
		},
		{
			ID:        1,
			Timestamp: time.Date(2026, 3, 1, 18, 0, 0, 0, time.Local),
			QuizResultData: store.QuizResultData{
				SessionID: "s-1", Curriculum: "2022 Revised", Subject: "Mathematics", Unit: "Ratios", Standard: "9MAT02-03",
				Score: 100.0 / 3, CorrectCount: 1, Total: 3,
				Answers:     []*string{strp("beta"), nil, strp("O")},
				Correctness: []bool{true, false, false},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "history.xlsx")
	require.NoError(t, ExportResults(results, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, []string{"2026-03-02 09:30", "s-2", "2022 Revised", "Science", "Forces", "9SCI03-01", "87.5", "2", "2",
		"1. ✓ m/s | 2. ✓ distance over time"}, rows[1])
	assert.Equal(t, "33.3", rows[2][6])
	assert.Equal(t, "1. ✓ beta | 2. ✗ (blank) | 3. ✗ O", rows[2][9])

	formula, err := f.GetCellFormula(SheetName, "G4")
	require.NoError(t, err)
	assert.Equal(t, "ROUND(AVERAGE(G2:G3),1)", formula)
	label, _ := f.GetCellValue(SheetName, "F4")
	assert.Equal(t, "Average", label)
}

func TestExportResults_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, ExportResults(nil, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExportResults_RejectsExtension(t *testing.T) {
	assert.Error(t, ExportResults(nil, filepath.Join(t.TempDir(), "history.csv")))
}
