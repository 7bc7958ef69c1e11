package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sources holds the resolved input file paths, one per recognized label.
// Any field may be empty when no file matched its label.
type Sources struct {
	Direct   string // spreadsheet0 / sheet0: canonical columns in one file
	Quantity string // spreadsheet1 / sheet1: line items to aggregate
	Routing  string // spreadsheet2 / sheet2: origin and destination per shipment
}

// Empty reports whether no input source was found at all.
func (s Sources) Empty() bool {
	return s.Direct == "" && s.Quantity == "" && s.Routing == ""
}

// Discover scans dir for input spreadsheets, matching file names
// case-insensitively against the source labels. Only .xlsx, .xls, and .csv
// files are considered. When several files match the same label, the first
// in directory order wins. A missing directory is an error; missing
// individual sources are not.
func Discover(dir string) (Sources, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Sources{}, fmt.Errorf("read input directory: %w", err)
	}

	var src Sources
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := strings.ToLower(entry.Name())
		switch filepath.Ext(name) {
		case ".xlsx", ".xls", ".csv":
		default:
			continue
		}

		path := filepath.Join(dir, entry.Name())
		switch {
		case matchesLabel(name, "spreadsheet0", "sheet0"):
			if src.Direct == "" {
				src.Direct = path
			}
		case matchesLabel(name, "spreadsheet1", "sheet1"):
			if src.Quantity == "" {
				src.Quantity = path
			}
		case matchesLabel(name, "spreadsheet2", "sheet2"):
			if src.Routing == "" {
				src.Routing = path
			}
		}
	}

	return src, nil
}

func matchesLabel(name string, labels ...string) bool {
	for _, label := range labels {
		if strings.Contains(name, label) {
			return true
		}
	}
	return false
}
