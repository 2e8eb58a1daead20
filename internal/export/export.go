// Package export renders an owner's ledger records as downloadable
// artifacts. The CSV layout is the canonical one: a fixed header row and
// one row per record in insertion order, amounts as plain decimals.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"kharcha/internal/core"
)

// Header is the fixed column set shared by every export format.
var Header = []string{"Date", "Amount", "Reason", "Category", "User"}

func row(rec core.ExpenseRecord) []string {
	return []string{
		rec.Date.String(),
		rec.Amount.Decimal(),
		rec.Reason,
		rec.Category,
		rec.Owner,
	}
}

// WriteCSV writes the records as CSV to w.
func WriteCSV(w io.Writer, records []core.ExpenseRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(row(rec)); err != nil {
			return fmt.Errorf("write record %d: %w", rec.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the records as an XLSX workbook with a single sheet.
func WriteXLSX(w io.Writer, records []core.ExpenseRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Expenses"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell coordinates: %w", err)
		}
		cells := row(rec)
		values := make([]interface{}, len(cells))
		for j, v := range cells {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write record %d: %w", rec.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
