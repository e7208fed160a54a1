package paper

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"studycompanion/internal/models"
)

func samplePaper() models.QuestionPaper {
	return models.QuestionPaper{
		Success:      true,
		Title:        "Question Paper - Cells",
		TotalMarks:   7,
		Duration:     "6 minutes",
		Instructions: "Answer all questions carefully.",
		Sections: []models.Section{
			{
				Name:             "Section A - Multiple Choice Questions",
				MarksPerQuestion: models.Int(1),
				Questions: []models.Question{
					{Number: models.Int(1), Question: "Which organelle makes ATP?", Options: []string{"A) Nucleus", "B) Mitochondria"}, Answer: "B"},
					{Number: models.Int(2), Question: "Which organelle holds DNA?", Options: []string{"A) Nucleus", "B) Ribosome"}},
				},
			},
			{
				Name:             "Section C - Long Answer Questions",
				MarksPerQuestion: models.Int(5),
				Questions:        []models.Question{{Question: "Explain osmosis."}},
			},
		},
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{
		0:  "0 minutes",
		10: "20 minutes",
		29: "58 minutes",
		30: "1 hour",
		31: "1 hour 2 mins",
		60: "2 hours",
		75: "2 hours 30 mins",
	}
	for n, want := range cases {
		require.Equal(t, want, FormatDuration(n), "questions=%d", n)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, samplePaper()))
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "Question Paper - Cells\n======"))
	require.Contains(t, out, "Total marks: 7    Duration: 6 minutes")
	require.Contains(t, out, "Section A - Multiple Choice Questions (1 mark each)")
	require.Contains(t, out, "Section C - Long Answer Questions (5 marks each)")
	require.Contains(t, out, "  1. Which organelle makes ATP?\n     A) Nucleus\n     B) Mitochondria\n     Answer: B\n")
	require.Contains(t, out, "  1. Explain osmosis.\n")
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.xlsx")
	require.NoError(t, ExportXLSX(samplePaper(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Equal(t, "Question Paper - Cells", rows[0][0])
	require.Equal(t, []string{"Total marks", "7", "Duration", "6 minutes"}, rows[1])
	require.Equal(t, columnHeaders, rows[4])
	require.Len(t, rows, 8)
	require.Equal(t, []string{"Section A - Multiple Choice Questions", "1", "Which organelle makes ATP?", "A) Nucleus\nB) Mitochondria", "B", "1"}, rows[5])
	require.Equal(t, "Explain osmosis.", rows[7][2])
	require.Equal(t, "5", rows[7][5])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, samplePaper()))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(sheetName, "C7")
	require.NoError(t, err)
	require.Equal(t, "Which organelle holds DNA?", v)
}
