package game

import (
	"cmp"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Board is a 3x3 grid in row-major order. It is a value type: Apply returns a
// modified copy and never changes the receiver.
type Board [Cells]Mark

// Winning lines: 3 rows, 3 columns, 2 diagonals
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Enumeration weights for PriorityOrder: center > corners > edges
var priority = [Cells]int{
	2, 1, 2,
	1, 3, 1,
	2, 1, 2,
}

// ParseBoard reads 9 cells from s. X and O are marks, '_', '.' and '-' are empty
// cells; whitespace and '|' separators are ignored.
func ParseBoard(s string) (Board, error) {
	var b Board
	i := 0
	for _, r := range s {
		var m Mark
		switch r {
		case 'X', 'x':
			m = MarkX
		case 'O', 'o':
			m = MarkO
		case '_', '.', '-':
			m = Empty
		case ' ', '\t', '\n', '\r', '|':
			continue
		default:
			return Board{}, errors.Errorf("parse board %q: unexpected character %q", s, r)
		}
		if i >= Cells {
			return Board{}, errors.Errorf("parse board %q: more than %d cells", s, Cells)
		}
		b[i] = m
		i++
	}
	if i != Cells {
		return Board{}, errors.Errorf("parse board %q: got %d cells, want %d", s, i, Cells)
	}
	return b, nil
}

// Apply returns a new board with action's cell marked by player.
func (b Board) Apply(player Player, action Action) (Board, error) {
	if !player.Valid() {
		return b, errors.Wrapf(ErrIllegalMove, "player %d is neither X nor O", player)
	}
	if action < 0 || int(action) >= Cells {
		return b, errors.Wrapf(ErrIllegalMove, "action %d out of range", action)
	}
	if b[action] != Empty {
		return b, errors.Wrapf(ErrIllegalMove, "cell %d already holds %s", action, b[action])
	}
	b[action] = player.Mark()
	return b, nil
}

// IsLegal reports whether action targets an empty cell of b.
func (b Board) IsLegal(action Action) bool {
	return action >= 0 && int(action) < Cells && b[action] == Empty
}

// LegalActions returns the empty cells in ascending index order.
func (b Board) LegalActions() []Action {
	actions := make([]Action, 0, Cells)
	for i, m := range b {
		if m == Empty {
			actions = append(actions, Action(i))
		}
	}
	return actions
}

// PriorityActions returns the empty cells center first, then corners, then edges.
// Within a class cells appear in descending index order: the actions are reversed
// before the stable sort by weight.
func (b Board) PriorityActions() []Action {
	actions := b.LegalActions()
	slices.Reverse(actions)
	slices.SortStableFunc(actions, func(a, c Action) int {
		return cmp.Compare(priority[c], priority[a])
	})
	return actions
}

// Actions returns the legal actions enumerated in the given order.
func (b Board) Actions(order Ordering) []Action {
	if order == PriorityOrder {
		return b.PriorityActions()
	}
	return b.LegalActions()
}

// Outcome checks the 8 winning lines, then whether the board is full.
func (b Board) Outcome() Outcome {
	for _, line := range lines {
		m := b[line[0]]
		if m != Empty && m == b[line[1]] && m == b[line[2]] {
			if m == MarkX {
				return XWins
			}
			return OWins
		}
	}
	if b.Full() {
		return Draw
	}
	return Undecided
}

// Utility scores a terminal board for perspective. ok is false while the game
// is undecided.
func (b Board) Utility(perspective Player) (utility float64, ok bool) {
	outcome := b.Outcome()
	switch outcome {
	case Undecided:
		return Neutral, false
	case Draw:
		return Neutral, true
	}
	if winner, _ := outcome.Winner(); winner == perspective {
		return Win, true
	}
	return Loss, true
}

func (b Board) Full() bool {
	return !lo.Contains(b[:], Empty)
}

// Turn infers the side to move from the mark counts; X moves first.
func (b Board) Turn() Player {
	if lo.Count(b[:], MarkX) > lo.Count(b[:], MarkO) {
		return O
	}
	return X
}

// String renders the board as 9 characters, readable by ParseBoard.
func (b Board) String() string {
	var sb strings.Builder
	for _, m := range b {
		sb.WriteString(m.String())
	}
	return sb.String()
}

// Grid renders the board as three rows separated by newlines.
func (b Board) Grid() string {
	s := b.String()
	return s[0:3] + "\n" + s[3:6] + "\n" + s[6:9]
}
