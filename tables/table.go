package tables

// Table is one extracted <table> element.
type Table struct {
	// Index is the table's position in depth-first document order, starting
	// at 0. Nested tables count independently of their parents.
	Index int

	// Rows are the table's direct rows in document order. Rows belonging to
	// nested tables are not included.
	Rows []Row
}

// Row is one direct <tr> of a table.
type Row struct {
	// Index is the row's position within its table, starting at 0.
	Index int

	// Cells are the row's <td> and <th> cells in document order.
	Cells []Cell
}

// Cell is a single table cell.
type Cell struct {
	// HTML is the serialized markup inside the cell with surrounding
	// whitespace trimmed. Inline elements survive serialization, so a cell
	// may carry images, links, or formatting.
	HTML string

	// IsHeader reports whether the cell came from a <th> element.
	IsHeader bool
}

// Convertible reports whether the row carries enough cells to become a
// front/back pair. Rows with fewer than two cells are still extracted so
// callers can count and report them.
func (r Row) Convertible() bool {
	return len(r.Cells) >= 2
}

// ConvertibleRows returns how many of the table's rows are convertible.
func (t *Table) ConvertibleRows() int {
	n := 0
	for _, row := range t.Rows {
		if row.Convertible() {
			n++
		}
	}
	return n
}
