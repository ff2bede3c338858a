// Package index holds the Rdatasets metadata table: one Row per published
// dataset, parsed from the header-plus-rows CSV the project publishes.
//
// An Index is immutable once built. Filtering produces a new Index that
// shares nothing mutable with its source.
package index

// Row is one dataset in the index.
type Row struct {
	Package string
	Item    string
	Title   string

	Rows int64
	Cols int64

	// Column counts by type
	NBinary    int64
	NCharacter int64
	NFactor    int64
	NLogical   int64
	NNumeric   int64

	CSV string // download URL
	Doc string // documentation URL
}

// Name is the <package>_<item> identifier used for downloads.
func (r Row) Name() string {
	return r.Package + "_" + r.Item
}

// Index is an owned, read-only table of rows.
type Index struct {
	rows []Row
}

// New builds an Index from rows. The slice is copied.
func New(rows []Row) *Index {
	cp := make([]Row, len(rows))
	copy(cp, rows)
	return &Index{rows: cp}
}

// Len returns the number of rows.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.rows)
}

// Row returns the i-th row (0-based).
func (x *Index) Row(i int) Row {
	return x.rows[i]
}

// Rows returns a copy of all rows.
func (x *Index) Rows() []Row {
	cp := make([]Row, len(x.rows))
	copy(cp, x.rows)
	return cp
}

// Slice returns a copy of rows[start:end], clamped to the index bounds.
func (x *Index) Slice(start, end int) []Row {
	if start < 0 {
		start = 0
	}
	if end > len(x.rows) {
		end = len(x.rows)
	}
	if start >= end {
		return nil
	}
	cp := make([]Row, end-start)
	copy(cp, x.rows[start:end])
	return cp
}

// Filter returns a new Index holding the rows for which keep returns true,
// in their original order.
func (x *Index) Filter(keep func(Row) bool) *Index {
	out := make([]Row, 0, len(x.rows))
	for _, r := range x.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return &Index{rows: out}
}
