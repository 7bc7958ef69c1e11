package pipeline

// SourceResult records the outcome of loading one labeled input source.
// Columns carries the resolved header for schema-mismatch diagnostics.
type SourceResult struct {
	Label   string
	Path    string
	Columns []string
	Rows    int
	Err     error
}

// BatchResult records the outcome of one normalize-and-append pass.
type BatchResult struct {
	Label      string
	Normalized int
	Appended   int
	Err        error
}

// Report is the top-level outcome of a run. Failures are carried as values
// rather than aborting: a failed source or batch leaves the other results
// intact and the run still completes.
type Report struct {
	Sources []SourceResult
	Direct  *BatchResult // single-source direct mapping
	Merged  *BatchResult // split-and-merge of quantity and routing sources
	// TableRows is the verified row count of the table after the final
	// append. Zero when verification itself failed.
	TableRows int64
	// Err is set only for failures outside any single source: discovery,
	// opening the store, or schema creation.
	Err error
}

// Failed reports whether any stage of the run carried an error.
func (r *Report) Failed() bool {
	if r.Err != nil {
		return true
	}
	for _, src := range r.Sources {
		if src.Err != nil {
			return true
		}
	}
	if r.Direct != nil && r.Direct.Err != nil {
		return true
	}
	if r.Merged != nil && r.Merged.Err != nil {
		return true
	}
	return false
}
