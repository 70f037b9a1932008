// Package xlsxbuild converts ordered collections of key-value records into
// XLSX workbooks. It is a pure transformation layer: callers hand it records
// and get back serialized bytes, persistence is someone else's job.
package xlsxbuild

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

const (
	// DefaultSheetName is used when a sheet has no caller-chosen name.
	DefaultSheetName = "Sheet1"

	// DisclaimerText is appended below the data region of every sheet.
	DisclaimerText = "This content has been generated using Protex Intelligence. The output is intended to assist but may not always be accurate or complete. Please verify important information before acting upon it."
)

// SheetData describes one sheet of a multi-sheet export request.
type SheetData struct {
	Name    string
	Records []map[string]interface{}
	Headers []string
}

// BuildSingle converts records into a single-sheet workbook.
//
// The column set is taken from headers when provided, otherwise from the
// first record's keys in sorted order. It is fixed for the whole sheet:
// fields that appear only in later records are never promoted to columns,
// and a record missing a column renders as an empty cell.
//
// An empty records slice yields an empty byte slice. Callers are expected to
// have rejected that case already; this is a defensive fallback.
func BuildSingle(records []map[string]interface{}, sheetName string, headers []string) ([]byte, error) {
	if len(records) == 0 {
		return []byte{}, nil
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	if err := f.SetSheetName(DefaultSheetName, sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeSheet(f, sheetName, records, columnSet(records, headers)); err != nil {
		return nil, err
	}

	return workbookBytes(f)
}

// BuildMulti converts a sequence of sheets into one workbook, in input order.
// Sheets with no records are skipped silently. If every sheet is skipped the
// result is an empty byte slice, mirroring BuildSingle's empty-input
// fallback; validation upstream makes that case unreachable in practice.
func BuildMulti(sheets []SheetData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	written := 0
	for _, s := range sheets {
		if len(s.Records) == 0 {
			continue
		}

		name := s.Name
		if name == "" {
			name = DefaultSheetName
		}

		// The first emitted sheet reuses excelize's default sheet,
		// the rest are created fresh.
		if written == 0 {
			if err := f.SetSheetName(DefaultSheetName, name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("create sheet %q: %w", name, err)
			}
		}

		if err := writeSheet(f, name, s.Records, columnSet(s.Records, s.Headers)); err != nil {
			return nil, err
		}
		written++
	}

	if written == 0 {
		return []byte{}, nil
	}

	return workbookBytes(f)
}

// columnSet derives the ordered, duplicate-free column list for a sheet.
// Caller-supplied headers win verbatim; otherwise the first record's keys
// are used, sorted for deterministic order.
func columnSet(records []map[string]interface{}, headers []string) []string {
	if len(headers) > 0 {
		cols := make([]string, len(headers))
		copy(cols, headers)
		return cols
	}

	cols := make([]string, 0, len(records[0]))
	for k := range records[0] {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// writeSheet renders the header row, one row per record, and the disclaimer
// annotation two blank rows below the data region.
func writeSheet(f *excelize.File, sheet string, records []map[string]interface{}, cols []string) error {
	for i, col := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("write header %q: %w", col, err)
		}
	}

	for r, rec := range records {
		for c, col := range cols {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			val, ok := rec[col]
			if !ok {
				val = ""
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	return addDisclaimer(f, sheet, len(records))
}

// addDisclaimer places the fixed annotation at column A, two rows below the
// last data row (data ends at row dataLen+1 because of the header row).
func addDisclaimer(f *excelize.File, sheet string, dataLen int) error {
	cell, err := excelize.CoordinatesToCellName(1, dataLen+3)
	if err != nil {
		return fmt.Errorf("disclaimer cell: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, DisclaimerText); err != nil {
		return fmt.Errorf("write disclaimer: %w", err)
	}

	styleID, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 8, Color: "666666"},
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	if err != nil {
		return fmt.Errorf("disclaimer style: %w", err)
	}
	return f.SetCellStyle(sheet, cell, cell, styleID)
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := f.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
