package draft

import "fmt"

// Cell is the tri-state value of a single heddle in the drawdown.
// The zero value is Unset.
type Cell int8

const (
	Unset Cell = iota // no assignment
	Down              // weft over warp
	Up                // warp over weft
)

// FromBool converts a boolean heddle value into a Cell.
func FromBool(up bool) Cell {
	if up {
		return Up
	}
	return Down
}

// IsSet reports whether the cell carries a determined value.
func (c Cell) IsSet() bool { return c == Up || c == Down }

// IsUp reports whether the cell is raised. Unset cells are not up.
func (c Cell) IsUp() bool { return c == Up }

// Bool returns the boolean value of the cell and whether it was set.
func (c Cell) Bool() (up bool, ok bool) {
	switch c {
	case Up:
		return true, true
	case Down:
		return false, true
	default:
		return false, false
	}
}

// Invert swaps up and down. Unset stays unset.
func (c Cell) Invert() Cell {
	switch c {
	case Up:
		return Down
	case Down:
		return Up
	default:
		return Unset
	}
}

func (c Cell) String() string {
	switch c {
	case Up:
		return "up"
	case Down:
		return "down"
	case Unset:
		return "unset"
	default:
		return fmt.Sprintf("Cell(%d)", int8(c))
	}
}

// Rune is the single character used by Pattern and String.
func (c Cell) Rune() rune {
	switch c {
	case Up:
		return 'x'
	case Down:
		return '.'
	default:
		return '?'
	}
}

// ParseCell converts a pattern character back into a Cell.
// Accepted: x X 1 # (up), . - 0 (down), ? _ and space (unset).
func ParseCell(r rune) (Cell, error) {
	switch r {
	case 'x', 'X', '1', '#':
		return Up, nil
	case '.', '-', '0':
		return Down, nil
	case '?', '_', ' ':
		return Unset, nil
	default:
		return Unset, fmt.Errorf("invalid cell character %q", r)
	}
}
