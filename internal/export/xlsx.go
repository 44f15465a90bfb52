package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	titleRow  = 1
	headerRow = 2
	firstRow  = 3
)

func thinBorder(color string) []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: color, Style: 1},
		{Type: "top", Color: color, Style: 1},
		{Type: "right", Color: color, Style: 1},
		{Type: "bottom", Color: color, Style: 1},
	}
}

type styles struct {
	title, header, cell int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error

	s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4F81BD"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create title style: %w", err)
	}

	s.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"9BC2E6"}},
		Border: thinBorder("000000"),
	})
	if err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}

	s.cell, err = f.NewStyle(&excelize.Style{Border: thinBorder("D9D9D9")})
	if err != nil {
		return s, fmt.Errorf("failed to create cell style: %w", err)
	}
	return s, nil
}

// WriteXLSX renders the workbook as an .xlsx file.
func (w *Workbook) WriteXLSX(out io.Writer) error {
	if len(w.Sheets) == 0 {
		return fmt.Errorf("workbook has no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	for i, sheet := range w.Sheets {
		if i == 0 {
			// A new file starts with one default sheet.
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", sheet.Name, err)
		}

		if err := writeSheet(f, sheet, st); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", sheet.Name, err)
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s *Sheet, st styles) error {
	cols := len(s.Headers)
	if cols == 0 {
		return fmt.Errorf("sheet has no headers")
	}
	lastCol, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}

	titleCell := cellName(1, titleRow)
	titleEnd := cellName(cols, titleRow)
	if err := f.SetCellValue(s.Name, titleCell, s.Title); err != nil {
		return err
	}
	if cols > 1 {
		if err := f.MergeCell(s.Name, titleCell, titleEnd); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(s.Name, titleCell, titleEnd, st.title); err != nil {
		return err
	}

	headers := make([]any, cols)
	for i, h := range s.Headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(s.Name, cellName(1, headerRow), &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(s.Name, cellName(1, headerRow), cellName(cols, headerRow), st.header); err != nil {
		return err
	}

	for i, row := range s.Rows {
		r := firstRow + i
		if err := f.SetSheetRow(s.Name, cellName(1, r), &row); err != nil {
			return err
		}
	}
	if len(s.Rows) > 0 {
		last := firstRow + len(s.Rows) - 1
		if err := f.SetCellStyle(s.Name, cellName(1, firstRow), cellName(cols, last), st.cell); err != nil {
			return err
		}
	}

	return f.SetColWidth(s.Name, "A", lastCol, ColumnWidth)
}

// cellName converts 1-based coordinates. The inputs are always in range.
func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
