package draft

import "fmt"

// Op is a binary cell operation used by the overlay family of operators.
type Op int

const (
	OpOr  Op = iota // up if either operand is up
	OpAnd           // up only if both operands are up
	OpNeq           // up if exactly one operand is up (xor)
	OpUp            // the first operand wins (atop)
)

func (o Op) String() string {
	switch o {
	case OpOr:
		return "or"
	case OpAnd:
		return "and"
	case OpNeq:
		return "neq"
	case OpUp:
		return "up"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// ParseOp converts an operation name ("or", "and", "neq"/"xor", "up"/"atop").
func ParseOp(s string) (Op, error) {
	switch s {
	case "or":
		return OpOr, nil
	case "and":
		return OpAnd, nil
	case "neq", "xor":
		return OpNeq, nil
	case "up", "atop":
		return OpUp, nil
	default:
		return 0, fmt.Errorf("unknown cell operation %q", s)
	}
}

// Combine applies op to a and b.
//
// Unset is a ground state that any determined value overrides: when exactly one operand
// is unset the result is the other operand, and when both are unset the result is unset.
// Only when both operands are determined does the boolean operation apply. For OpUp this
// means the first operand wins unless it is unset.
func Combine(op Op, a, b Cell) Cell {
	switch {
	case !a.IsSet() && !b.IsSet():
		return Unset
	case !a.IsSet():
		return b
	case !b.IsSet():
		return a
	}
	switch op {
	case OpOr:
		return FromBool(a.IsUp() || b.IsUp())
	case OpAnd:
		return FromBool(a.IsUp() && b.IsUp())
	case OpNeq:
		return FromBool(a.IsUp() != b.IsUp())
	case OpUp:
		return a
	default:
		panic(fmt.Sprintf("draft: unknown op %d", int(op)))
	}
}
