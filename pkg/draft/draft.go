package draft

import (
	"fmt"
	"strings"
)

// Unassigned marks a row or column with no shuttle or system.
const Unassigned = -1

// RowMeta is the per-weft metadata of a draft.
type RowMeta struct {
	Shuttle  int  `json:"shuttle" yaml:"shuttle"`
	System   int  `json:"system" yaml:"system"`
	Selvedge bool `json:"selvedge" yaml:"selvedge"` // raises the left selvedge end on this pick
}

// ColMeta is the per-warp metadata of a draft.
type ColMeta struct {
	Shuttle int `json:"shuttle" yaml:"shuttle"`
	System  int `json:"system" yaml:"system"`
}

// Draft is a rectangular drawdown plus per-row and per-column metadata.
//
// Rows and columns are addressed as (i, j) with i in [0, Wefts) and j in [0, Warps).
// Out-of-range indices are programmer errors and panic.
type Draft struct {
	name    string // explicit user name
	genName string // name derived from the operator chain that produced the draft

	cells [][]Cell
	rows  []RowMeta
	cols  []ColMeta

	selvedge bool // outermost columns were added by AddSelvedge
}

// New returns a draft of the given size with every cell Down.
// Every row and column starts on shuttle 0 and system 0, the default material and
// structure; Unassigned marks padding whose source had nothing to offer.
func New(wefts, warps int) *Draft {
	return NewFilled(wefts, warps, Down)
}

// NewFilled returns a draft of the given size with every cell set to c.
// Negative sizes are clamped to zero.
func NewFilled(wefts, warps int, c Cell) *Draft {
	if wefts < 0 {
		wefts = 0
	}
	if warps < 0 {
		warps = 0
	}
	d := &Draft{
		cells: make([][]Cell, wefts),
		rows:  make([]RowMeta, wefts),
		cols:  make([]ColMeta, warps),
	}
	for i := range d.cells {
		row := make([]Cell, warps)
		for j := range row {
			row[j] = c
		}
		d.cells[i] = row
		d.rows[i] = RowMeta{Selvedge: i%2 == 0}
	}
	return d
}

// FromRows builds a draft from a slice of rows. All rows must have the same length.
func FromRows(rows [][]Cell) (*Draft, error) {
	warps := 0
	if len(rows) > 0 {
		warps = len(rows[0])
	}
	d := New(len(rows), warps)
	for i, row := range rows {
		if len(row) != warps {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), warps)
		}
		copy(d.cells[i], row)
	}
	return d, nil
}

// FromPattern builds a draft from one string per row, using the characters accepted by ParseCell.
func FromPattern(lines ...string) (*Draft, error) {
	rows := make([][]Cell, len(lines))
	for i, line := range lines {
		runes := []rune(line)
		row := make([]Cell, len(runes))
		for j, r := range runes {
			c, err := ParseCell(r)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", i, j, err)
			}
			row[j] = c
		}
		rows[i] = row
	}
	return FromRows(rows)
}

// MustPattern is FromPattern that panics on error. Intended for tests and static tables.
func MustPattern(lines ...string) *Draft {
	d, err := FromPattern(lines...)
	if err != nil {
		panic(fmt.Sprintf("draft: %v", err))
	}
	return d
}

// Wefts returns the number of rows.
func (d *Draft) Wefts() int { return len(d.rows) }

// Warps returns the number of columns.
func (d *Draft) Warps() int { return len(d.cols) }

// IsEmpty reports whether the draft has no cells.
func (d *Draft) IsEmpty() bool { return d == nil || len(d.rows) == 0 || len(d.cols) == 0 }

func (d *Draft) checkRow(i int) {
	if i < 0 || i >= len(d.rows) {
		panic(fmt.Sprintf("draft: row %d out of range %d", i, len(d.rows)))
	}
}

func (d *Draft) check(i, j int) {
	if i < 0 || i >= len(d.rows) || j < 0 || j >= len(d.cols) {
		panic(fmt.Sprintf("draft: cell (%d,%d) out of range %dx%d", i, j, len(d.rows), len(d.cols)))
	}
}

// Get returns the cell at row i, column j.
func (d *Draft) Get(i, j int) Cell {
	d.check(i, j)
	return d.cells[i][j]
}

// Set assigns the cell at row i, column j.
func (d *Draft) Set(i, j int, c Cell) {
	d.check(i, j)
	d.cells[i][j] = c
}

// IsUp reports whether the cell at (i, j) is raised.
func (d *Draft) IsUp(i, j int) bool { return d.Get(i, j).IsUp() }

// Row returns a copy of row i.
func (d *Draft) Row(i int) []Cell {
	d.checkRow(i)
	out := make([]Cell, len(d.cells[i]))
	copy(out, d.cells[i])
	return out
}

// Each calls fn for every cell in row-major order. This is the accessor external
// renderers rely on; it exposes nothing beyond position and state.
func (d *Draft) Each(fn func(row, col int, c Cell)) {
	for i, row := range d.cells {
		for j, c := range row {
			fn(i, j, c)
		}
	}
}

// Fill assigns c to every cell in the half-open rectangle [top, bottom) x [left, right),
// clipped to the draft.
func (d *Draft) Fill(top, left, bottom, right int, c Cell) {
	top, bottom = clamp(top, 0, d.Wefts()), clamp(bottom, 0, d.Wefts())
	left, right = clamp(left, 0, d.Warps()), clamp(right, 0, d.Warps())
	for i := top; i < bottom; i++ {
		for j := left; j < right; j++ {
			d.cells[i][j] = c
		}
	}
}

// RowMeta returns the metadata of row i.
func (d *Draft) RowMeta(i int) RowMeta {
	d.checkRow(i)
	return d.rows[i]
}

// SetRowMeta replaces the metadata of row i.
func (d *Draft) SetRowMeta(i int, m RowMeta) {
	d.checkRow(i)
	d.rows[i] = m
}

// ColMeta returns the metadata of column j.
func (d *Draft) ColMeta(j int) ColMeta {
	if j < 0 || j >= len(d.cols) {
		panic(fmt.Sprintf("draft: column %d out of range %d", j, len(d.cols)))
	}
	return d.cols[j]
}

// SetColMeta replaces the metadata of column j.
func (d *Draft) SetColMeta(j int, m ColMeta) {
	if j < 0 || j >= len(d.cols) {
		panic(fmt.Sprintf("draft: column %d out of range %d", j, len(d.cols)))
	}
	d.cols[j] = m
}

// RowShuttleMapping returns the shuttle id of every row.
func (d *Draft) RowShuttleMapping() []int {
	out := make([]int, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.Shuttle
	}
	return out
}

// RowSystemMapping returns the system id of every row.
func (d *Draft) RowSystemMapping() []int {
	out := make([]int, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.System
	}
	return out
}

// ColShuttleMapping returns the shuttle id of every column.
func (d *Draft) ColShuttleMapping() []int {
	out := make([]int, len(d.cols))
	for j, c := range d.cols {
		out[j] = c.Shuttle
	}
	return out
}

// ColSystemMapping returns the system id of every column.
func (d *Draft) ColSystemMapping() []int {
	out := make([]int, len(d.cols))
	for j, c := range d.cols {
		out[j] = c.System
	}
	return out
}

// SelvedgeFlags returns the per-row selvedge flags.
func (d *Draft) SelvedgeFlags() []bool {
	out := make([]bool, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.Selvedge
	}
	return out
}

// The pattern setters repeat the given ids cyclically over the whole axis, so the
// mapping length always equals the axis length. An empty pattern leaves the axis unchanged.

// SetRowShuttles applies a repeating shuttle pattern to the rows.
func (d *Draft) SetRowShuttles(pattern ...int) {
	if len(pattern) == 0 {
		return
	}
	for i := range d.rows {
		d.rows[i].Shuttle = pattern[i%len(pattern)]
	}
}

// SetRowSystems applies a repeating system pattern to the rows.
func (d *Draft) SetRowSystems(pattern ...int) {
	if len(pattern) == 0 {
		return
	}
	for i := range d.rows {
		d.rows[i].System = pattern[i%len(pattern)]
	}
}

// SetColShuttles applies a repeating shuttle pattern to the columns.
func (d *Draft) SetColShuttles(pattern ...int) {
	if len(pattern) == 0 {
		return
	}
	for j := range d.cols {
		d.cols[j].Shuttle = pattern[j%len(pattern)]
	}
}

// SetColSystems applies a repeating system pattern to the columns.
func (d *Draft) SetColSystems(pattern ...int) {
	if len(pattern) == 0 {
		return
	}
	for j := range d.cols {
		d.cols[j].System = pattern[j%len(pattern)]
	}
}

// SetSelvedgeFlags applies a repeating selvedge flag pattern to the rows.
func (d *Draft) SetSelvedgeFlags(pattern ...bool) {
	if len(pattern) == 0 {
		return
	}
	for i := range d.rows {
		d.rows[i].Selvedge = pattern[i%len(pattern)]
	}
}

// Name returns the explicit user name if one was set, otherwise the generated name.
func (d *Draft) Name() string {
	if d.name != "" {
		return d.name
	}
	return d.genName
}

// UserName returns the explicit user name, which may be empty.
func (d *Draft) UserName() string { return d.name }

// SetName sets the explicit user name. It always wins over the generated name.
func (d *Draft) SetName(name string) { d.name = name }

// GeneratedName returns the name derived from the operator chain.
func (d *Draft) GeneratedName() string { return d.genName }

// SetGeneratedName records the operator-chain name.
func (d *Draft) SetGeneratedName(name string) { d.genName = name }

// ChainName formats the generated name of a draft produced by op from inputs,
// e.g. "flip-horizontal(tabby)". Inputs without a name are skipped.
func ChainName(op string, inputs ...*Draft) string {
	names := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if in == nil || in.Name() == "" {
			continue
		}
		names = append(names, in.Name())
	}
	if len(names) == 0 {
		return op
	}
	return op + "(" + strings.Join(names, ",") + ")"
}

// Clone returns a deep copy of the draft.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	out := &Draft{
		name:     d.name,
		genName:  d.genName,
		cells:    make([][]Cell, len(d.cells)),
		rows:     append([]RowMeta(nil), d.rows...),
		cols:     append([]ColMeta(nil), d.cols...),
		selvedge: d.selvedge,
	}
	for i, row := range d.cells {
		out.cells[i] = append([]Cell(nil), row...)
	}
	return out
}

// Equal reports whether two drafts have identical cells and metadata. Names are ignored.
func (d *Draft) Equal(o *Draft) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.Wefts() != o.Wefts() || d.Warps() != o.Warps() || d.selvedge != o.selvedge {
		return false
	}
	for i := range d.rows {
		if d.rows[i] != o.rows[i] {
			return false
		}
	}
	for j := range d.cols {
		if d.cols[j] != o.cols[j] {
			return false
		}
	}
	return d.SameCells(o)
}

// SameCells reports whether two drafts have identical drawdowns, ignoring metadata.
func (d *Draft) SameCells(o *Draft) bool {
	if d.Wefts() != o.Wefts() || d.Warps() != o.Warps() {
		return false
	}
	for i, row := range d.cells {
		for j, c := range row {
			if o.cells[i][j] != c {
				return false
			}
		}
	}
	return true
}

// Pattern returns one string per row, the inverse of FromPattern.
func (d *Draft) Pattern() []string {
	out := make([]string, len(d.cells))
	for i, row := range d.cells {
		var sb strings.Builder
		for _, c := range row {
			sb.WriteRune(c.Rune())
		}
		out[i] = sb.String()
	}
	return out
}

func (d *Draft) String() string {
	return fmt.Sprintf("%s [%dx%d]\n%s", d.Name(), d.Wefts(), d.Warps(), strings.Join(d.Pattern(), "\n"))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
