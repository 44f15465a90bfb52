// Package export turns stored records and their aggregates into a
// three-sheet workbook for download.
package export

import (
	"fmt"
	"time"
)

// Sheet names, in workbook order.
const (
	SheetMovements = "Retiradas"
	SheetPanel     = "Painel"
	SheetAnalysis  = "Análise Gráfica"
)

// ColumnWidth is applied to every column of every sheet.
const ColumnWidth = 15

// Sheet is a grid of cells with a title row above the header row.
// Cell values are string or int.
type Sheet struct {
	Name    string
	Title   string
	Headers []string
	Rows    [][]any
}

// Workbook is an ordered list of sheets, independent of the file format.
type Workbook struct {
	Sheets []*Sheet
}

// Sheet returns the sheet with the given name, or nil.
func (w *Workbook) Sheet(name string) *Sheet {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// FileName returns the download name for a workbook generated at now,
// e.g. controle_ferramentas_2025-10-28T08-30-00.xlsx.
func FileName(now time.Time) string {
	return fmt.Sprintf("controle_ferramentas_%s.xlsx", now.UTC().Format("2006-01-02T15-04-05"))
}
