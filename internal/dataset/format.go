package dataset

import (
	"io"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks XLSX for .xlsx/.xlsm files and CSV otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

func Read(r io.Reader, format Format, opts ReadOptions) (*Dataset, error) {
	if format == FormatXLSX {
		return ReadXLSX(r, opts.NullTokens)
	}
	return ReadCSV(r, opts)
}

func Write(w io.Writer, ds *Dataset, format Format) error {
	if format == FormatXLSX {
		return WriteXLSX(w, ds)
	}
	return WriteCSV(w, ds, DefaultDelimiter)
}
