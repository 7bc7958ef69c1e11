package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat reports a file extension outside the supported set.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ReadError wraps any failure to load a source file: a missing or corrupt
// file, an I/O error, or an unsupported extension.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ReadFile loads a spreadsheet into a Dataset. Supported extensions are
// .csv, .xlsx, and .xls; anything else fails with ErrUnsupportedFormat
// wrapped in a ReadError. The first row is treated as the header. An empty
// file yields a dataset with no columns and no rows, not an error.
func ReadFile(path string) (*Dataset, error) {
	var (
		records [][]string
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx", ".xls":
		records, err = readExcel(path)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	ds := &Dataset{Name: filepath.Base(path)}
	if len(records) == 0 {
		return ds, nil
	}

	ds.Columns = make([]string, len(records[0]))
	for i, h := range records[0] {
		ds.Columns[i] = CleanCell(h)
	}
	ds.Rows = records[1:]
	return ds, nil
}

func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(sanitizeUTF8(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// readExcel reads the first sheet of a workbook. Rows come back ragged when
// trailing cells are empty; CellAt tolerates short rows.
func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// sanitizeUTF8 replaces invalid byte sequences with the replacement rune so
// the CSV reader never chokes on mixed encodings. A UTF-8 BOM is stripped.
func sanitizeUTF8(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
