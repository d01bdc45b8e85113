package types

import "strconv"

// Table is an in-memory sheet. Every row has exactly len(Headers) cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable builds a table from a header row and data rows. Rows are padded
// or truncated to the header width and repeated header names are suffixed
// with ".1", ".2", ...
func NewTable(headers []string, rows [][]string) *Table {
	t := &Table{
		Headers: uniqueHeaders(headers),
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, fit(row, len(t.Headers)))
	}
	return t
}

func uniqueHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	taken := make(map[string]bool, len(headers))
	for _, h := range headers {
		taken[h] = true
	}
	for i, h := range headers {
		n, dup := seen[h]
		seen[h] = n + 1
		if !dup {
			out[i] = h
			continue
		}
		name := h + "." + strconv.Itoa(n)
		for taken[name] {
			n++
			name = h + "." + strconv.Itoa(n)
		}
		seen[h] = n + 1
		taken[name] = true
		out[i] = name
	}
	return out
}

func fit(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the values of the named column.
func (t *Table) Column(name string) []string {
	idx := t.Index(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

// Select returns a new table holding only the named columns, in the given
// order. The second return value lists the names that were not found; when
// it is non-empty the table is nil.
func (t *Table) Select(names ...string) (*Table, []string) {
	indices := make([]int, len(names))
	var missing []string
	for i, name := range names {
		indices[i] = t.Index(name)
		if indices[i] < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, missing
	}

	out := &Table{
		Headers: append([]string(nil), names...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for r, row := range t.Rows {
		sel := make([]string, len(indices))
		for i, idx := range indices {
			sel[i] = row[idx]
		}
		out.Rows[r] = sel
	}
	return out, nil
}

// Rename changes a column name in place. Unknown names are ignored.
func (t *Table) Rename(from, to string) {
	if idx := t.Index(from); idx >= 0 {
		t.Headers[idx] = to
	}
}

// Filter returns a new table with the rows for which keep returns true.
// Row slices are shared with t.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := &Table{
		Headers: append([]string(nil), t.Headers...),
		Rows:    make([][]string, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Where keeps the rows whose named column equals value exactly.
func (t *Table) Where(name, value string) *Table {
	idx := t.Index(name)
	return t.Filter(func(row []string) bool {
		return idx >= 0 && row[idx] == value
	})
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
