package chartula

// extractOptions holds configuration for card extraction.
type extractOptions struct {
	// Table selection
	maxTables int // 0 means all tables

	// Row filtering
	skipEmptyCells bool

	// Media handling
	mediaPrefix string
	scaleImages bool
	altTextOCR  bool
}

// defaultOptions returns the default extraction options.
func defaultOptions() extractOptions {
	return extractOptions{
		maxTables:      0, // all tables
		skipEmptyCells: false,
		mediaPrefix:    "",
		scaleImages:    false,
		altTextOCR:     false,
	}
}

// clone creates a copy of extractOptions.
func (o extractOptions) clone() extractOptions {
	return extractOptions{
		maxTables:      o.maxTables,
		skipEmptyCells: o.skipEmptyCells,
		mediaPrefix:    o.mediaPrefix,
		scaleImages:    o.scaleImages,
		altTextOCR:     o.altTextOCR,
	}
}
