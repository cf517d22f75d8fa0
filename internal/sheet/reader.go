package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnsupportedFormat is returned for uploads that are neither .xlsx nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported file format, expected .xlsx or .csv")

// Read loads filename's content according to its extension.
func Read(filename string, r io.Reader) (Workbook, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return ReadWorkbook(r)
	case ".csv":
		name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		t, err := ReadCSV(r, name)
		if err != nil {
			return Workbook{}, err
		}
		return NewWorkbook(t), nil
	default:
		return Workbook{}, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}
}

// ReadWorkbook reads every sheet of an xlsx workbook. Cells are read raw, so dates
// arrive as Excel serial numbers and times as day fractions.
func ReadWorkbook(r io.Reader) (Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Workbook{}, fmt.Errorf("unable to open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	activeName := f.GetSheetName(f.GetActiveSheetIndex())
	wb := Workbook{}
	for i, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return Workbook{}, fmt.Errorf("unable to read sheet %q: %w", name, err)
		}
		if name == activeName {
			wb.active = i
		}
		wb.Sheets = append(wb.Sheets, Table{Name: name, Rows: rows})
	}
	return wb, nil
}

// ReadCSV reads a CSV export. Content that is not valid UTF-8 is decoded as Windows-1252,
// which is what the biometric terminals emit.
func ReadCSV(r io.Reader, name string) (Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Table{}, err
	}
	if !utf8.Valid(raw) {
		raw, err = charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return Table{}, fmt.Errorf("unable to decode %s: %w", name, err)
		}
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("unable to parse %s: %w", name, err)
	}
	return Table{Name: name, Rows: rows}, nil
}
