package dataset

import (
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"contactbase/internal"
)

// ReadXLSX reads the first sheet; row one is the header.
func ReadXLSX(r io.Reader, nullTokens []string) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &internal.MalformedInputError{Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &internal.MalformedInputError{Err: errors.New("workbook has no sheets")}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &internal.MalformedInputError{Err: err}
	}

	start := -1
	for i, row := range rows {
		if !blankRow(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, &internal.MalformedInputError{Err: errors.New("no columns to parse from file")}
	}

	nulls := newNullSet(nullTokens)
	ds := New(headerNames(rows[start]))
	for i := start + 1; i < len(rows); i++ {
		if blankRow(rows[i]) {
			continue
		}
		row := make(Row, len(rows[i]))
		for c, v := range rows[i] {
			row[c] = nulls.cell(v)
		}
		if err := ds.Append(row); err != nil {
			return nil, &internal.MalformedInputError{Line: i + 1, Err: err}
		}
	}
	return ds, nil
}

func WriteXLSX(w io.Writer, ds *Dataset) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range ds.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, row := range ds.Rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellStr(sheet, cell, *v); err != nil {
				return err
			}
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
