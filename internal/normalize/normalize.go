package normalize

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"

	"github.com/JonMunkholm/shipload/internal/dataset"
)

// numericRegex validates that a string is a valid numeric format after
// cleanup. Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// CoerceQuantity parses a quantity cell leniently. Currency symbols,
// thousands separators, and accounting parentheses are stripped, then the
// value is truncated to an integer. Empty or non-numeric input yields 0;
// coercion never fails a batch.
func CoerceQuantity(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Remove common currency symbols and thousands separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(f)
}

// DirectMap normalizes a single source that already carries the canonical
// columns. It requires shipment_identifier, product, and quantity; origin
// and destination are projected only when present, otherwise they persist
// as NULL. Duplicate identifiers keep the first occurrence in row order.
// An empty dataset yields an empty record sequence, not an error.
func DirectMap(ds *dataset.Dataset) ([]Record, error) {
	if missing := ds.MissingColumns(ColShipmentID, ColProduct, ColQuantity); len(missing) > 0 {
		return nil, &SchemaError{Source: ds.Name, Missing: missing, Found: ds.Columns}
	}

	idx := ds.Index()
	_, hasOrigin := idx[ColOrigin]
	_, hasDestination := idx[ColDestination]

	records := make([]Record, 0, len(ds.Rows))
	seen := make(map[string]struct{}, len(ds.Rows))

	for _, row := range ds.Rows {
		if dataset.IsEmptyRow(row) {
			continue
		}

		id, _ := dataset.CellAt(row, idx, ColShipmentID)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		rec := Record{ShipmentID: id}
		if v, ok := dataset.CellAt(row, idx, ColProduct); ok {
			rec.Product = nullString(v)
		}
		if v, ok := dataset.CellAt(row, idx, ColQuantity); ok {
			rec.Quantity = CoerceQuantity(v)
		}
		if hasOrigin {
			v, _ := dataset.CellAt(row, idx, ColOrigin)
			rec.Origin = nullString(v)
		}
		if hasDestination {
			v, _ := dataset.CellAt(row, idx, ColDestination)
			rec.Destination = nullString(v)
		}

		records = append(records, rec)
	}

	return records, nil
}

// SplitMerge normalizes a quantity-bearing source joined with a
// routing-bearing source. Line items are grouped by (shipment_identifier,
// product) in first-seen order, summing per-row coerced quantities, then
// left-joined to the routing source on shipment_identifier: every grouped
// row survives, and shipments without routing get origin and destination
// "Unknown". Duplicate identifiers after the join keep the first group.
func SplitMerge(quantities, routing *dataset.Dataset) ([]Record, error) {
	if missing := quantities.MissingColumns(ColShipmentID, ColProduct, ColQuantity); len(missing) > 0 {
		return nil, &SchemaError{Source: quantities.Name, Missing: missing, Found: quantities.Columns}
	}
	if missing := routing.MissingColumns(ColShipmentID, ColOrigin, ColDestination); len(missing) > 0 {
		return nil, &SchemaError{Source: routing.Name, Missing: missing, Found: routing.Columns}
	}

	// Routing lookup, first row per identifier wins.
	type route struct {
		origin      string
		destination string
	}
	rIdx := routing.Index()
	routes := make(map[string]route, len(routing.Rows))
	for _, row := range routing.Rows {
		if dataset.IsEmptyRow(row) {
			continue
		}
		id, _ := dataset.CellAt(row, rIdx, ColShipmentID)
		if _, ok := routes[id]; ok {
			continue
		}
		origin, _ := dataset.CellAt(row, rIdx, ColOrigin)
		destination, _ := dataset.CellAt(row, rIdx, ColDestination)
		routes[id] = route{origin: origin, destination: destination}
	}

	// Aggregate line items per (identifier, product), preserving first-seen
	// group order so deduplication stays deterministic.
	type groupKey struct {
		id      string
		product string
	}
	qIdx := quantities.Index()
	var order []groupKey
	totals := make(map[groupKey]int64, len(quantities.Rows))
	for _, row := range quantities.Rows {
		if dataset.IsEmptyRow(row) {
			continue
		}
		id, _ := dataset.CellAt(row, qIdx, ColShipmentID)
		product, _ := dataset.CellAt(row, qIdx, ColProduct)
		qty, _ := dataset.CellAt(row, qIdx, ColQuantity)

		key := groupKey{id: id, product: product}
		if _, ok := totals[key]; !ok {
			order = append(order, key)
		}
		totals[key] += CoerceQuantity(qty)
	}

	// Left join and dedupe by identifier.
	records := make([]Record, 0, len(order))
	seen := make(map[string]struct{}, len(order))
	for _, key := range order {
		if _, dup := seen[key.id]; dup {
			continue
		}
		seen[key.id] = struct{}{}

		r := routes[key.id]
		records = append(records, Record{
			ShipmentID:  key.id,
			Product:     nullString(key.product),
			Quantity:    totals[key],
			Origin:      orUnknown(r.origin),
			Destination: orUnknown(r.destination),
		})
	}

	return records, nil
}

// nullString converts a cell to a nullable text value: empty or
// whitespace-only input becomes NULL rather than an empty string.
func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// orUnknown fills missing routing info with the literal "Unknown". It covers
// both an absent routing row and a present row with a blank cell.
func orUnknown(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		s = "Unknown"
	}
	return sql.NullString{String: s, Valid: true}
}
