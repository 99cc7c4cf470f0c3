package draft

// GCD returns the greatest common divisor of a and b (non-negative inputs).
func GCD(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns the least common multiple of a and b. A zero operand yields the other
// operand, so zero-sized inputs never collapse the result to zero.
func LCM(a, b int) int {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	return a / GCD(a, b) * b
}

// MergeSize computes the target size of a merge of drafts.
//
// With repeat set, each axis is the least common multiple of the input sizes along
// that axis, so every input tiles the result evenly. Otherwise each axis is the
// largest input size. Nil drafts and zero-length axes are ignored; merging nothing
// yields 0x0.
func MergeSize(drafts []*Draft, repeat bool) (wefts, warps int) {
	for _, d := range drafts {
		if d == nil {
			continue
		}
		if repeat {
			wefts = LCM(wefts, d.Wefts())
			warps = LCM(warps, d.Warps())
			continue
		}
		wefts = max(wefts, d.Wefts())
		warps = max(warps, d.Warps())
	}
	return wefts, warps
}

// Sample reads d at (i, j) with modulo indexing against d's own size.
// Empty drafts sample as Unset.
func Sample(d *Draft, i, j int) Cell {
	if d.IsEmpty() {
		return Unset
	}
	return d.cells[mod(i, d.Wefts())][mod(j, d.Warps())]
}

// Fit returns a new draft of the target size populated by repeating d with modulo
// indexing. Row and column metadata repeat the same way. An empty d yields a draft of
// the target size whose cells are Unset and whose metadata is Unassigned.
// When d has a selvedge, only its body is repeated and the selvedge is added back
// around the result, so the ends stay outermost.
func Fit(d *Draft, wefts, warps int) *Draft {
	if d != nil && d.selvedge && warps >= 2 {
		body := d.Clone()
		body.RemoveSelvedge()
		out := Fit(body, wefts, warps-2)
		for i := range out.rows {
			out.rows[i].Selvedge = d.rows[i%len(d.rows)].Selvedge
		}
		out.AddSelvedge()
		return out
	}
	out := NewFilled(wefts, warps, Unset)
	if d.IsEmpty() {
		for i := range out.rows {
			out.rows[i].Shuttle, out.rows[i].System = Unassigned, Unassigned
		}
		for j := range out.cols {
			out.cols[j] = ColMeta{Shuttle: Unassigned, System: Unassigned}
		}
		return out
	}
	for i := range out.cells {
		out.rows[i] = d.rows[i%d.Wefts()]
		for j := range out.cells[i] {
			out.cells[i][j] = Sample(d, i, j)
		}
	}
	for j := range out.cols {
		out.cols[j] = d.cols[j%d.Warps()]
	}
	out.name, out.genName = d.name, d.genName
	return out
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
