package game

import "github.com/pkg/errors"

var (
	// ErrIllegalMove is returned when a move targets an occupied or nonexistent
	// cell, or is played by a side other than X or O.
	ErrIllegalMove = errors.New("illegal move")
	// ErrInvalidPlayer is returned when a search is asked for a side other than X or O.
	ErrInvalidPlayer = errors.New("invalid player")
)

// Utility of a terminal board from one player's perspective
const (
	Win     = 1.0
	Loss    = -Win
	Neutral = 0.0
)

// Cells is the number of cells on the 3x3 board
const Cells = 9

// Action is a cell index in [0, Cells), row-major.
type Action int

// NoAction is returned by searches when the board offers no legal action
const NoAction Action = -1

type Player uint8

const (
	X Player = iota + 1
	O
)

// Valid reports whether p is X or O. The zero Player is not.
func (p Player) Valid() bool {
	return p == X || p == O
}

// Other returns the opponent of p.
func (p Player) Other() Player {
	if p == X {
		return O
	}
	return X
}

func (p Player) Mark() Mark {
	return Mark(p)
}

func (p Player) String() string {
	return p.Mark().String()
}

// Mark is the content of a single cell.
type Mark uint8

const (
	Empty Mark = iota
	MarkX
	MarkO
)

func (m Mark) String() string {
	switch m {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	default:
		return "_"
	}
}

type Outcome int

const (
	Undecided Outcome = iota
	XWins
	OWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case XWins:
		return "X-wins"
	case OWins:
		return "O-wins"
	case Draw:
		return "draw"
	default:
		return "undecided"
	}
}

// IsTerminal reports whether the game is over.
func (o Outcome) IsTerminal() bool {
	return o != Undecided
}

// Winner returns the winning player, false on a draw or an undecided game.
func (o Outcome) Winner() (Player, bool) {
	switch o {
	case XWins:
		return X, true
	case OWins:
		return O, true
	default:
		return 0, false
	}
}

// Ordering selects how legal actions are enumerated.
type Ordering int

const (
	// NaturalOrder lists empty cells by ascending index
	NaturalOrder Ordering = iota
	// PriorityOrder lists the center, then corners, then edges
	PriorityOrder
)

func (o Ordering) String() string {
	if o == PriorityOrder {
		return "priority"
	}
	return "natural"
}
