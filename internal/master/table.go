package master

import (
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Table is the in-memory master sheet: an ordered column list and one cell
// map per row. Missing keys are blank cells; values stay as the strings the
// workbook held so untouched columns round-trip unchanged.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

func (t *Table) hasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ensureColumn appends a column if absent; columns are never removed.
func (t *Table) ensureColumn(name string) {
	if !t.hasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// findRow returns the first row matching (department, date), or -1.
func (t *Table) findRow(department, date string) int {
	for i, r := range t.Rows {
		if r["Department"] == department && r["Date"] == date {
			return i
		}
	}
	return -1
}

// loadTable reads the first sheet of the workbook at path. A missing file is
// an empty table, not an error.
func loadTable(path string) (*Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Table{}, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open master: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("master has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read master rows: %w", err)
	}
	t := &Table{}
	if len(rows) == 0 {
		return t, nil
	}
	t.Columns = append(t.Columns, rows[0]...)
	for _, r := range rows[1:] {
		row := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(r) && r[i] != "" {
				row[col] = r[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// saveTable writes the whole table back as a fresh workbook. Numeric-looking
// cells are written as numbers so the sheet stays usable for analysts.
func saveTable(path string, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for ri, row := range t.Rows {
		for ci, col := range t.Columns {
			val, ok := row[col]
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if num, perr := strconv.ParseFloat(val, 64); perr == nil {
				err = f.SetCellValue(sheet, cell, num)
			} else {
				err = f.SetCellValue(sheet, cell, val)
			}
			if err != nil {
				return fmt.Errorf("write cell: %w", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save master: %w", err)
	}
	return nil
}
