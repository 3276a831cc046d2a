package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"contactbase/internal"
	"contactbase/internal/util"
)

const DefaultDelimiter = ';'

// DefaultNullTokens mirrors the values pandas reads as missing.
var DefaultNullTokens = []string{
	"", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan", "NULL", "null", "None", "<NA>",
	"#N/A", "#N/A N/A", "#NA", "1.#IND", "-1.#IND", "1.#QNAN", "-1.#QNAN",
}

type ReadOptions struct {
	Delimiter  rune
	Encoding   string
	NullTokens []string
}

type nullSet map[string]struct{}

func newNullSet(tokens []string) nullSet {
	if tokens == nil {
		tokens = DefaultNullTokens
	}
	set := make(nullSet, len(tokens)+1)
	set[""] = struct{}{}
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func (s nullSet) cell(raw string) *string {
	if _, ok := s[raw]; ok {
		return nil
	}
	v := raw
	return &v
}

// ReadCSV parses a delimited file with a header row.
func ReadCSV(r io.Reader, opts ReadOptions) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text, err := decode(raw, opts.Encoding)
	if err != nil {
		return nil, err
	}

	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	// A quote only opens a quoted field at the start of the field.
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &internal.MalformedInputError{Err: errors.New("no columns to parse from file")}
	}
	if err != nil {
		return nil, csvError(err)
	}

	nulls := newNullSet(opts.NullTokens)
	ds := New(headerNames(header))
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		row := make(Row, len(record))
		for i, v := range record {
			row[i] = nulls.cell(v)
		}
		if err := ds.Append(row); err != nil {
			line, _ := reader.FieldPos(0)
			return nil, &internal.MalformedInputError{Line: line, Err: err}
		}
	}
	return ds, nil
}

// WriteCSV writes the header and rows; nil cells become empty fields.
func WriteCSV(w io.Writer, ds *Dataset, delimiter rune) error {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	writer := csv.NewWriter(w)
	writer.Comma = delimiter

	if err := writer.Write(ds.Columns); err != nil {
		return err
	}
	record := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, v := range row {
			record[i] = util.DerefString(v)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func decode(raw []byte, encoding string) ([]byte, error) {
	name := strings.ToLower(strings.TrimSpace(encoding))
	if name == "" || name == "utf-8" || name == "utf8" {
		if !utf8.Valid(raw) {
			return nil, &internal.MalformedInputError{Err: errors.New("input is not valid UTF-8")}
		}
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
		if err != nil {
			return nil, &internal.MalformedInputError{Err: err}
		}
		return out, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported input encoding %q: %w", encoding, err)
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, &internal.MalformedInputError{Err: fmt.Errorf("decode %s: %w", name, err)}
	}
	return out, nil
}

func csvError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &internal.MalformedInputError{Line: parseErr.Line, Err: parseErr.Err}
	}
	return &internal.MalformedInputError{Err: err}
}

// headerNames fills blank names and suffixes repeats the way pandas does.
func headerNames(header []string) []string {
	out := make([]string, len(header))
	seen := map[string]int{}
	for i, h := range header {
		name := h
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if _, dup := seen[name]; dup {
			base := name
			n := seen[base]
			for {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}
