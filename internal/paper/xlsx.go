package paper

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"studycompanion/internal/models"
	"studycompanion/internal/util"
)

const sheetName = "Paper"

var columnHeaders = []string{"Section", "No.", "Question", "Options", "Answer", "Marks"}

// Workbook lays the paper out on one sheet: a title block, then one row per question.
func Workbook(p models.QuestionPaper) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := fill(f, p); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func fill(f *excelize.File, p models.QuestionPaper) error {
	set := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheetName, cell, v)
	}

	head := [][]any{
		{p.Title},
		{"Total marks", p.TotalMarks, "Duration", p.Duration},
		{"Instructions", p.Instructions},
	}
	for r, row := range head {
		for c, v := range row {
			if err := set(c+1, r+1, v); err != nil {
				return fmt.Errorf("write header: %w", err)
			}
		}
	}

	const tableStart = 5
	for c, h := range columnHeaders {
		if err := set(c+1, tableStart, h); err != nil {
			return fmt.Errorf("write column header: %w", err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", bold); err != nil {
		return fmt.Errorf("style title: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A5", "F5", bold); err != nil {
		return fmt.Errorf("style headers: %w", err)
	}
	if err := f.SetColWidth(sheetName, "C", "D", 60); err != nil {
		return fmt.Errorf("set widths: %w", err)
	}

	row := tableStart + 1
	for _, s := range p.Sections {
		for i, q := range s.Questions {
			values := []any{s.Name, Number(q, i), q.Question, strings.Join(q.Options, "\n"), q.Answer, ""}
			if s.MarksPerQuestion != nil {
				values[5] = *s.MarksPerQuestion
			}
			for c, v := range values {
				if err := set(c+1, row, v); err != nil {
					return fmt.Errorf("write question row %d: %w", row, err)
				}
			}
			row++
		}
	}
	return nil
}

// ExportXLSX writes the workbook to path atomically.
func ExportXLSX(p models.QuestionPaper, path string) error {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, p); err != nil {
		return err
	}
	if err := util.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func WriteXLSX(w io.Writer, p models.QuestionPaper) error {
	f, err := Workbook(p)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
