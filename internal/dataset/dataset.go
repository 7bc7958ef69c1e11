// Package dataset loads spreadsheet files (CSV or Excel) into a generic
// tabular form: an ordered header plus string-valued rows. No typing or
// uniqueness is assumed at this layer; coercion and deduplication happen
// downstream in the normalizer.
package dataset

import "strings"

// Dataset is a raw tabular dataset read from a single source file.
// Name labels the source in diagnostics and schema errors.
type Dataset struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// HeaderIndex maps column names (lowercase) to their position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(CleanCell(h))] = i
	}
	return idx
}

// Index returns the header index for the dataset's columns.
func (d *Dataset) Index() HeaderIndex {
	return MakeHeaderIndex(d.Columns)
}

// MissingColumns returns the required column names absent from the dataset,
// preserving the order they were asked for. Matching is case-insensitive.
func (d *Dataset) MissingColumns(required ...string) []string {
	idx := d.Index()
	var missing []string
	for _, col := range required {
		if _, ok := idx[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// CellAt returns the cleaned value of the named column within row.
// The second return is false when the column is unknown or the row is too
// short to contain it.
func CellAt(row []string, idx HeaderIndex, col string) (string, bool) {
	pos, ok := idx[strings.ToLower(col)]
	if !ok || pos >= len(row) {
		return "", false
	}
	return CleanCell(row[pos]), true
}

// IsEmptyRow reports whether every cell in the row is blank.
func IsEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	// Remove leading '='
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	// Remove any surrounding quotes
	s = strings.Trim(s, `"'`)

	return s
}
