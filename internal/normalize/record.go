// Package normalize reconciles differing spreadsheet schemas into the
// canonical shipment record shape.
//
// Two reconciliation paths exist: DirectMap for a source that already
// carries the canonical columns, and SplitMerge for a quantity/routing pair
// that must be aggregated and joined. Both paths share one non-configurable
// policy: duplicate shipment identifiers are resolved by keeping the first
// occurrence in row order, regardless of payload differences.
package normalize

import (
	"database/sql"
	"fmt"
	"strings"
)

// Canonical column names expected in input sources. Header matching is
// case-insensitive.
const (
	ColShipmentID  = "shipment_identifier"
	ColProduct     = "product"
	ColQuantity    = "quantity"
	ColOrigin      = "origin"
	ColDestination = "destination"
)

// Record is the canonical shipment record. Product, Origin, and Destination
// are nullable; an invalid NullString persists as NULL.
type Record struct {
	ShipmentID  string
	Product     sql.NullString
	Quantity    int64
	Origin      sql.NullString
	Destination sql.NullString
}

// SchemaError reports required columns missing from a source, naming the
// columns that were actually found so the mismatch is diagnosable from the
// log alone.
type SchemaError struct {
	Source  string
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source %s: missing required columns [%s] (found: [%s])",
		e.Source, strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}
