package draft

import "fmt"

// InsertRow inserts a row of Down cells before index at (at == Wefts appends).
// The new row takes the shuttle and system of the row it is inserted after, or the
// row it displaces when inserted at the top, and the opposite selvedge flag.
func (d *Draft) InsertRow(at int) {
	if at < 0 || at > len(d.rows) {
		panic(fmt.Sprintf("draft: insert row %d out of range %d", at, len(d.rows)))
	}
	meta := RowMeta{Selvedge: true}
	switch {
	case at > 0:
		meta = d.rows[at-1]
		meta.Selvedge = !meta.Selvedge
	case len(d.rows) > 0:
		meta = d.rows[0]
		meta.Selvedge = !meta.Selvedge
	}

	row := make([]Cell, len(d.cols))
	for j := range row {
		row[j] = Down
	}
	if d.selvedge && len(row) >= 2 {
		row[0], row[len(row)-1] = selvedgeCells(meta.Selvedge)
	}

	d.cells = append(d.cells, nil)
	copy(d.cells[at+1:], d.cells[at:])
	d.cells[at] = row

	d.rows = append(d.rows, RowMeta{})
	copy(d.rows[at+1:], d.rows[at:])
	d.rows[at] = meta
}

// DeleteRow removes row at.
func (d *Draft) DeleteRow(at int) {
	if at < 0 || at >= len(d.rows) {
		panic(fmt.Sprintf("draft: delete row %d out of range %d", at, len(d.rows)))
	}
	d.cells = append(d.cells[:at], d.cells[at+1:]...)
	d.rows = append(d.rows[:at], d.rows[at+1:]...)
}

// InsertCol inserts a column of Down cells before index at (at == Warps appends).
// The new column copies the metadata of its left neighbour, or of the column it
// displaces when inserted at the left edge. On a draft with a selvedge, at is clamped
// to [1, Warps-1] so the selvedge ends stay outermost.
func (d *Draft) InsertCol(at int) {
	if at < 0 || at > len(d.cols) {
		panic(fmt.Sprintf("draft: insert col %d out of range %d", at, len(d.cols)))
	}
	if d.selvedge && len(d.cols) >= 2 {
		at = clamp(at, 1, len(d.cols)-1)
	}
	var meta ColMeta
	switch {
	case at > 0:
		meta = d.cols[at-1]
	case len(d.cols) > 0:
		meta = d.cols[0]
	}
	d.insertCol(at, meta, func(int) Cell { return Down })
}

func (d *Draft) insertCol(at int, meta ColMeta, cell func(i int) Cell) {
	for i, row := range d.cells {
		row = append(row, Unset)
		copy(row[at+1:], row[at:])
		row[at] = cell(i)
		d.cells[i] = row
	}
	d.cols = append(d.cols, ColMeta{})
	copy(d.cols[at+1:], d.cols[at:])
	d.cols[at] = meta
}

// DeleteCol removes column at. Deleting an outermost column of a draft with a
// selvedge removes one of its ends, so the remaining columns are plain data.
func (d *Draft) DeleteCol(at int) {
	if at < 0 || at >= len(d.cols) {
		panic(fmt.Sprintf("draft: delete col %d out of range %d", at, len(d.cols)))
	}
	if at == 0 || at == len(d.cols)-1 {
		d.selvedge = false
	}
	for i, row := range d.cells {
		d.cells[i] = append(row[:at], row[at+1:]...)
	}
	d.cols = append(d.cols[:at], d.cols[at+1:]...)
}

// HasSelvedge reports whether the outermost columns are selvedge ends.
func (d *Draft) HasSelvedge() bool { return d.selvedge }

// AddSelvedge prepends and appends one selvedge end using the stored per-row flags:
// the left end is up on rows whose flag is set and the right end is its complement.
// If the draft already has a selvedge it is replaced.
func (d *Draft) AddSelvedge() {
	if d.selvedge {
		d.RemoveSelvedge()
	}
	var left, right ColMeta
	if len(d.cols) > 0 {
		left, right = d.cols[0], d.cols[len(d.cols)-1]
	}
	d.insertCol(0, left, func(i int) Cell {
		l, _ := selvedgeCells(d.rows[i].Selvedge)
		return l
	})
	d.insertCol(len(d.cols), right, func(i int) Cell {
		_, r := selvedgeCells(d.rows[i].Selvedge)
		return r
	})
	d.selvedge = true
}

// RemoveSelvedge strips the selvedge ends added by AddSelvedge. It is a no-op on drafts
// without a selvedge.
func (d *Draft) RemoveSelvedge() {
	if !d.selvedge || len(d.cols) < 2 {
		d.selvedge = false
		return
	}
	d.DeleteCol(len(d.cols) - 1)
	d.DeleteCol(0)
	d.selvedge = false
}

func selvedgeCells(flag bool) (left, right Cell) {
	if flag {
		return Up, Down
	}
	return Down, Up
}

// MarkSelvedge records whether the outermost columns are selvedge ends without
// changing any cell. Used when restoring stored drafts.
func (d *Draft) MarkSelvedge(has bool) { d.selvedge = has }
